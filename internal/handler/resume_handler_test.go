package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resume-parser/internal/domain"
	"resume-parser/internal/service"
	apperrors "resume-parser/pkg/errors"

	"github.com/gorilla/mux"
)

// Mock implementations for handler testing
type MockResumeService struct {
	result      *domain.ExtractionResult
	processErr  error
	gotFilename string
	gotContent  string

	saveFilename string
	saveErr      error
	gotPayload   []byte

	files map[string][]byte
}

func NewMockResumeService() *MockResumeService {
	return &MockResumeService{files: make(map[string][]byte)}
}

func (m *MockResumeService) Process(ctx context.Context, filename string, file io.Reader) (*domain.ExtractionResult, error) {
	m.gotFilename = filename
	data, _ := io.ReadAll(file)
	m.gotContent = string(data)
	if m.processErr != nil {
		return nil, m.processErr
	}
	return m.result, nil
}

func (m *MockResumeService) SaveEdited(ctx context.Context, payload []byte) (string, error) {
	m.gotPayload = payload
	if m.saveErr != nil {
		return "", m.saveErr
	}
	return m.saveFilename, nil
}

func (m *MockResumeService) Download(ctx context.Context, filename string) ([]byte, error) {
	data, ok := m.files[filename]
	if !ok {
		return nil, apperrors.NewNotFoundError(service.MsgFileNotFound)
	}
	return data, nil
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return body, mw.FormDataContentType()
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON error body, got %q", rr.Body.String())
	}
	return body["error"]
}

func TestResumeHandler_Upload_Success(t *testing.T) {
	svc := NewMockResumeService()
	svc.result = &domain.ExtractionResult{Experience: "5 years", SessionID: "20240301_093000_000001"}
	h := NewResumeHandler(svc, 1<<20, NewMockHandlerLogger())

	body, contentType := multipartBody(t, "file", "cv.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	h.Upload(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if svc.gotFilename != "cv.pdf" || svc.gotContent != "%PDF-1.4" {
		t.Fatalf("unexpected upload passed to service: %q %q", svc.gotFilename, svc.gotContent)
	}
	var got domain.ExtractionResult
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if got.SessionID != "20240301_093000_000001" || got.Experience != "5 years" {
		t.Fatalf("unexpected response %+v", got)
	}
}

func TestResumeHandler_Upload_NoFile(t *testing.T) {
	h := NewResumeHandler(NewMockResumeService(), 1<<20, NewMockHandlerLogger())

	body, contentType := multipartBody(t, "document", "cv.pdf", []byte("x"))
	requests := []*http.Request{
		httptest.NewRequest(http.MethodPost, "/upload", body),
		httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{"file":"cv.pdf"}`)),
	}
	requests[0].Header.Set("Content-Type", contentType)
	requests[1].Header.Set("Content-Type", "application/json")

	for _, req := range requests {
		rr := httptest.NewRecorder()
		h.Upload(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
		}
		if msg := decodeError(t, rr); msg != "No file uploaded" {
			t.Fatalf("unexpected error %q", msg)
		}
	}
}

func TestResumeHandler_Upload_EmptyFilename(t *testing.T) {
	svc := NewMockResumeService()
	h := NewResumeHandler(svc, 1<<20, NewMockHandlerLogger())

	body, contentType := multipartBody(t, "file", "", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	h.Upload(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if msg := decodeError(t, rr); msg != "Empty filename" {
		t.Fatalf("unexpected error %q", msg)
	}
	if svc.gotFilename != "" || svc.gotContent != "" {
		t.Fatalf("service must not be called")
	}
}

func TestResumeHandler_Upload_TooLarge(t *testing.T) {
	h := NewResumeHandler(NewMockResumeService(), 512, NewMockHandlerLogger())

	body, contentType := multipartBody(t, "file", "cv.pdf", bytes.Repeat([]byte("a"), 4096))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	h.Upload(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status %d, got %d: %s", http.StatusRequestEntityTooLarge, rr.Code, rr.Body.String())
	}
	if msg := decodeError(t, rr); msg != "File too large (limit is 512 bytes)" {
		t.Fatalf("unexpected error %q", msg)
	}
}

func TestResumeHandler_SaveEdited_TooLarge(t *testing.T) {
	svc := NewMockResumeService()
	h := NewResumeHandler(svc, 64, NewMockHandlerLogger())

	payload := `{"session_id":"20240301_093000_000001","education":"` + strings.Repeat("x", 256) + `"}`
	rr := httptest.NewRecorder()
	h.SaveEdited(rr, httptest.NewRequest(http.MethodPost, "/save_edited", strings.NewReader(payload)))

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status %d, got %d", http.StatusRequestEntityTooLarge, rr.Code)
	}
	if msg := decodeError(t, rr); msg != "File too large (limit is 64 bytes)" {
		t.Fatalf("unexpected error %q", msg)
	}
	if svc.gotPayload != nil {
		t.Fatalf("service must not be called")
	}
}

func TestResumeHandler_Upload_ServiceErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{apperrors.NewValidationError(service.MsgOnlyPDF), http.StatusBadRequest, "Only PDF files allowed"},
		{apperrors.NewExtractionError(service.MsgProcessingFailed, io.ErrUnexpectedEOF), http.StatusBadRequest, "PDF processing failed: unexpected EOF"},
		{apperrors.NewInternalError(service.MsgServerError, io.ErrShortWrite), http.StatusInternalServerError, "Server error: short write"},
	}
	for _, tc := range cases {
		svc := NewMockResumeService()
		svc.processErr = tc.err
		h := NewResumeHandler(svc, 1<<20, NewMockHandlerLogger())

		body, contentType := multipartBody(t, "file", "cv.txt", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		h.Upload(rr, req)

		if rr.Code != tc.code {
			t.Fatalf("expected status %d, got %d", tc.code, rr.Code)
		}
		if msg := decodeError(t, rr); msg != tc.msg {
			t.Fatalf("expected error %q, got %q", tc.msg, msg)
		}
	}
}

func TestResumeHandler_SaveEdited(t *testing.T) {
	svc := NewMockResumeService()
	svc.saveFilename = "resume_data_20240301_093000_000001.json"
	h := NewResumeHandler(svc, 1<<20, NewMockHandlerLogger())

	payload := `{"session_id":"20240301_093000_000001","experience":"6 years"}`
	req := httptest.NewRequest(http.MethodPost, "/save_edited", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.SaveEdited(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if string(svc.gotPayload) != payload {
		t.Fatalf("payload must reach the service unchanged, got %s", svc.gotPayload)
	}
	var got map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	want := map[string]string{
		"status":            "success",
		"message":           "Resume data saved successfully",
		"download_filename": "resume_data_20240301_093000_000001.json",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("expected %s=%q, got %q", k, v, got[k])
		}
	}
}

func TestResumeHandler_SaveEdited_Errors(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{apperrors.NewValidationError(service.MsgInvalidSaveData), http.StatusBadRequest, "Invalid data or missing session ID"},
		{apperrors.NewNotFoundError(service.MsgSessionNotFound), http.StatusNotFound, "Session expired or invalid session ID"},
		{apperrors.NewInternalError(service.MsgSaveFailed, io.ErrClosedPipe), http.StatusInternalServerError, "Error saving edited data: io: read/write on closed pipe"},
	}
	for _, tc := range cases {
		svc := NewMockResumeService()
		svc.saveErr = tc.err
		h := NewResumeHandler(svc, 1<<20, NewMockHandlerLogger())

		rr := httptest.NewRecorder()
		h.SaveEdited(rr, httptest.NewRequest(http.MethodPost, "/save_edited", strings.NewReader(`{}`)))

		if rr.Code != tc.code {
			t.Fatalf("expected status %d, got %d", tc.code, rr.Code)
		}
		if msg := decodeError(t, rr); msg != tc.msg {
			t.Fatalf("expected error %q, got %q", tc.msg, msg)
		}
	}
}

func TestResumeHandler_Download(t *testing.T) {
	svc := NewMockResumeService()
	svc.files["resume_data_20240301_093000_000001.json"] = []byte("{\n  \"a\": 1\n}")
	h := NewResumeHandler(svc, 1<<20, NewMockHandlerLogger())

	req := httptest.NewRequest(http.MethodGet, "/download/resume_data_20240301_093000_000001.json", nil)
	req = mux.SetURLVars(req, map[string]string{"filename": "resume_data_20240301_093000_000001.json"})
	rr := httptest.NewRecorder()

	h.Download(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content type application/json, got %s", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != `attachment; filename="resume_data_20240301_093000_000001.json"` {
		t.Fatalf("unexpected content disposition %s", cd)
	}
	if rr.Body.String() != "{\n  \"a\": 1\n}" {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
}

func TestResumeHandler_Download_NotFound(t *testing.T) {
	h := NewResumeHandler(NewMockResumeService(), 1<<20, NewMockHandlerLogger())

	req := httptest.NewRequest(http.MethodGet, "/download/missing.json", nil)
	req = mux.SetURLVars(req, map[string]string{"filename": "missing.json"})
	rr := httptest.NewRecorder()

	h.Download(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
	if msg := decodeError(t, rr); msg != "File not found" {
		t.Fatalf("unexpected error %q", msg)
	}
}
