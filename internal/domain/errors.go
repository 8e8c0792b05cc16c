package domain

// APIError is the RFC 7807 style problem document returned by every
// failing endpoint. Errors carries per-field validation messages keyed
// by the JSON field name.
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// Problem type identifiers used in APIError.Type.
const (
	ErrorTypeValidation   = "validation_error"
	ErrorTypeNotFound     = "not_found"
	ErrorTypeBadRequest   = "bad_request"
	ErrorTypeConflict     = "conflict"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeForbidden    = "forbidden"
	ErrorTypeInternal     = "internal_error"
)

// GetValidationMessage translates a validator tag into a message fit
// for API consumers. Only the tags the request DTOs actually use get a
// dedicated message.
func GetValidationMessage(tag string) string {
	switch tag {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Below minimum length"
	case "max":
		return "Exceeds maximum length"
	case "gt":
		return "Must be greater than minimum value"
	case "gte":
		return "Must be greater than or equal to minimum value"
	case "oneof":
		return "Must be one of the allowed values"
	case "uuid":
		return "Must be a valid UUID"
	default:
		return "Validation failed: " + tag
	}
}
