// Package handler provides HTTP handlers for the API.
package handler

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"

	"resume-parser/internal/domain"
	"resume-parser/internal/service"
	apperrors "resume-parser/pkg/errors"

	"github.com/gorilla/mux"
)

//go:embed web/index.html
var indexPage []byte

// ResumeHandler handles the upload, review and download endpoints
type ResumeHandler struct {
	resumeService domain.ResumeService
	maxBytes      int64
	logger        domain.Logger
}

// NewResumeHandler creates a new resume handler
func NewResumeHandler(resumeService domain.ResumeService, maxBytes int64, logger domain.Logger) *ResumeHandler {
	return &ResumeHandler{
		resumeService: resumeService,
		maxBytes:      maxBytes,
		logger:        logger,
	}
}

// Index serves the upload and edit page
func (h *ResumeHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexPage)
}

// Upload extracts entities from the PDF in the multipart field "file"
func (h *ResumeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeAppError(w, apperrors.NewTooLargeError(service.MsgFileTooLarge, tooLarge.Limit))
		case errors.Is(err, http.ErrMissingFile) && r.MultipartForm != nil && len(r.MultipartForm.Value["file"]) > 0:
			// a file part sent without a filename is parsed as a plain value
			writeError(w, http.StatusBadRequest, service.MsgEmptyFilename)
		default:
			writeError(w, http.StatusBadRequest, service.MsgNoFile)
		}
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	result, err := h.resumeService.Process(r.Context(), header.Filename, file)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SaveEdited promotes a reviewed record to durable storage
func (h *ResumeHandler) SaveEdited(w http.ResponseWriter, r *http.Request) {
	body := io.Reader(r.Body)
	if h.maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	payload, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeAppError(w, apperrors.NewTooLargeError(service.MsgFileTooLarge, tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, service.MsgInvalidSaveData)
		return
	}

	filename, err := h.resumeService.SaveEdited(r.Context(), payload)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":            "success",
		"message":           "Resume data saved successfully",
		"download_filename": filename,
	})
}

// Download serves a saved record as a JSON attachment
func (h *ResumeHandler) Download(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	data, err := h.resumeService.Download(r.Context(), filename)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
