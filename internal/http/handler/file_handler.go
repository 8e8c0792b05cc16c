package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/service"
	"go.uber.org/zap"
)

type FileHandler struct {
	fileService *service.FileService
	maxUploadMB int64
	logger      *zap.Logger
}

func NewFileHandler(fileService *service.FileService, maxUploadMB int64, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		maxUploadMB: maxUploadMB,
		logger:      logger,
	}
}

// @Summary Upload tender document
// @Description Upload a document for a tender, optionally attached to a post-award stage
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Tender ID"
// @Param file formData file true "File to upload"
// @Param stage formData string false "Post-award stage to attach the document to"
// @Success 201 {object} domain.FileDTO
// @Security BearerAuth
// @Router /tenders/{id}/documents [post]
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}

	// Limit request size
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	var stage *domain.PostAwardStage
	if s := r.FormValue("stage"); s != "" {
		st := domain.PostAwardStage(s)
		if !st.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Unknown post-award stage: "+s)
			return
		}
		stage = &st
	}

	fileDTO, err := h.fileService.UploadForTender(r.Context(), tenderID, stage, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to upload file", zap.Error(err), zap.String("tender_id", tenderID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	respondJSON(w, http.StatusCreated, fileDTO)
}

// @Summary List tender documents
// @Tags Files
// @Produce json
// @Param id path string true "Tender ID"
// @Success 200 {array} domain.FileDTO
// @Security BearerAuth
// @Router /tenders/{id}/documents [get]
func (h *FileHandler) ListForTender(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}

	files, err := h.fileService.ListForTender(r.Context(), tenderID)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to list files", zap.Error(err), zap.String("tender_id", tenderID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to list files")
		return
	}

	respondJSON(w, http.StatusOK, files)
}

// @Summary Download file
// @Tags Files
// @Produce application/octet-stream
// @Param id path string true "File ID"
// @Success 200
// @Security BearerAuth
// @Router /files/{id}/download [get]
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file ID: must be a valid UUID")
		return
	}

	meta, reader, err := h.fileService.Download(r.Context(), id)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, "File not found")
			return
		}
		h.logger.Error("failed to download file", zap.Error(err), zap.String("file_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to download file")
		return
	}
	defer reader.Close()

	contentType := meta.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", meta.Filename))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("file download interrupted", zap.Error(err), zap.String("file_id", id.String()))
	}
}

// @Summary Delete file
// @Tags Files
// @Param id path string true "File ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /files/{id} [delete]
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file ID: must be a valid UUID")
		return
	}

	if err := h.fileService.Delete(r.Context(), id); err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to delete file", zap.Error(err), zap.String("file_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
