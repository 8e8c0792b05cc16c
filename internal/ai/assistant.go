package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/tendersuite/tender-api/internal/config"
	"github.com/tendersuite/tender-api/internal/domain"
)

// Assistant wraps the OpenAI chat completion API for the tender-domain
// prompts. All calls run in JSON mode with a low temperature.
type Assistant struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewAssistant builds an Assistant from config. Returns nil when the
// feature is disabled or no API key is configured; callers treat a nil
// assistant as "AI off".
func NewAssistant(cfg config.AIConfig, logger *zap.Logger) *Assistant {
	if !cfg.Enabled || cfg.APIKey == "" {
		return nil
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Assistant{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		logger: logger,
	}
}

// TenderContext carries the tender fields handed to the model
type TenderContext struct {
	Title        string
	Authority    string
	ItemCategory string
	Value        float64
	Currency     string
	Deadline     string
	Description  string
	Notes        string
}

func (t TenderContext) render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", t.Title)
	if t.Authority != "" {
		fmt.Fprintf(&b, "Tendering authority: %s\n", t.Authority)
	}
	if t.ItemCategory != "" {
		fmt.Fprintf(&b, "Item category: %s\n", t.ItemCategory)
	}
	if t.Value > 0 {
		fmt.Fprintf(&b, "Estimated value: %s %.2f\n", t.Currency, t.Value)
	}
	if t.Deadline != "" {
		fmt.Fprintf(&b, "Submission deadline: %s\n", t.Deadline)
	}
	if t.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", t.Description)
	}
	if t.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", t.Notes)
	}
	return b.String()
}

// Analyze produces a summary, strengths, risks and a bid recommendation
func (a *Assistant) Analyze(ctx context.Context, tender TenderContext, extra string) (*domain.TenderAnalysisDTO, error) {
	prompt := fmt.Sprintf(`Analyze this government tender opportunity:

%s
%s
Return JSON with the following structure:
{
  "summary": "2-3 sentence summary of the opportunity",
  "strengths": ["reasons this tender is attractive"],
  "risks": ["risks and red flags"],
  "recommendation": "bid / no-bid recommendation with reasoning",
  "confidenceScore": integer 0-100
}`, tender.render(), extra)

	content, err := a.complete(ctx,
		"You are a bid manager analyzing government tenders for a systems integrator. Be specific and practical.",
		prompt)
	if err != nil {
		return nil, err
	}

	var analysis domain.TenderAnalysisDTO
	if err := json.Unmarshal([]byte(stripFences(content)), &analysis); err != nil {
		a.logger.Error("failed to parse analysis response", zap.Error(err), zap.String("content", content))
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}
	return &analysis, nil
}

// CheckEligibility compares tender criteria against the company profile
func (a *Assistant) CheckEligibility(ctx context.Context, tender TenderContext, criteria, companyProfile string) (*domain.EligibilityResultDTO, error) {
	prompt := fmt.Sprintf(`Evaluate whether our company is eligible for this tender.

Tender:
%s
Eligibility criteria from the tender document:
%s

Our company profile:
%s

Return JSON with the following structure:
{
  "eligible": boolean,
  "checks": [{"criterion": "...", "met": boolean, "comment": "..."}],
  "summary": "one paragraph verdict"
}`, tender.render(), criteria, companyProfile)

	content, err := a.complete(ctx,
		"You are a compliance analyst checking tender eligibility criteria. Evaluate each criterion independently.",
		prompt)
	if err != nil {
		return nil, err
	}

	var result domain.EligibilityResultDTO
	if err := json.Unmarshal([]byte(stripFences(content)), &result); err != nil {
		a.logger.Error("failed to parse eligibility response", zap.Error(err), zap.String("content", content))
		return nil, fmt.Errorf("failed to parse eligibility response: %w", err)
	}
	return &result, nil
}

// ExtractTender pulls structured tender fields out of free document text.
// Dates are requested as DD-MM-YYYY; the caller parses them.
func (a *Assistant) ExtractTender(ctx context.Context, text string) (*domain.ExtractedTenderDTO, error) {
	prompt := fmt.Sprintf(`Extract tender information from this document text:

%s

Return JSON with the following structure:
{
  "title": "tender title",
  "referenceNumber": "tender reference / bid number",
  "authority": "tendering authority name",
  "itemCategory": "category of goods or services",
  "value": float (estimated value, 0 if not stated),
  "emdAmount": float (earnest money deposit, 0 if not stated),
  "tenderFeeAmount": float (tender fee, 0 if not stated),
  "deadline": "DD-MM-YYYY or empty string",
  "openingDate": "DD-MM-YYYY or empty string",
  "description": "short description"
}
Use empty strings for fields not present in the text. Dates must be DD-MM-YYYY.`, text)

	content, err := a.complete(ctx,
		"You extract structured data from Indian government tender documents. Extract only what the text states.",
		prompt)
	if err != nil {
		return nil, err
	}

	var extracted domain.ExtractedTenderDTO
	if err := json.Unmarshal([]byte(stripFences(content)), &extracted); err != nil {
		a.logger.Error("failed to parse extraction response", zap.Error(err), zap.String("content", content))
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}
	return &extracted, nil
}

// GenerateChecklist asks the model for stage-specific checklist items.
// A malformed response degrades to an empty list rather than an error.
func (a *Assistant) GenerateChecklist(ctx context.Context, tender TenderContext, stageName, extra string) ([]string, error) {
	prompt := fmt.Sprintf(`We are working the "%s" stage of this tender:

%s
%s
Return JSON with the following structure:
{"items": ["checklist item", ...]}
Produce 5-10 concrete, actionable checklist items for this stage.`, stageName, tender.render(), extra)

	content, err := a.complete(ctx,
		"You are a bid manager producing stage checklists for tender workflows. Items must be short imperative sentences.",
		prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Items []string `json:"items"`
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &parsed); err != nil {
		a.logger.Warn("checklist response was not valid JSON, returning empty list",
			zap.Error(err), zap.String("content", content))
		return []string{}, nil
	}
	return parsed.Items, nil
}

// GenerateNarrative turns an analytics summary into prose for reports
func (a *Assistant) GenerateNarrative(ctx context.Context, statsSummary string) (string, error) {
	prompt := fmt.Sprintf(`Write a concise performance narrative (3-5 paragraphs) for a tender
management review meeting based on these figures:

%s

Return JSON with the following structure:
{"narrative": "the report text"}`, statsSummary)

	content, err := a.complete(ctx,
		"You are a business analyst writing tender pipeline reviews. Plain language, numbers cited inline.",
		prompt)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Narrative string `json:"narrative"`
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &parsed); err != nil {
		a.logger.Error("failed to parse narrative response", zap.Error(err), zap.String("content", content))
		return "", fmt.Errorf("failed to parse narrative response: %w", err)
	}
	return parsed.Narrative, nil
}

func (a *Assistant) complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		a.logger.Error("chat completion failed", zap.Error(err))
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// stripFences removes a markdown code fence wrapper if the model added one
// despite JSON mode.
func stripFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
