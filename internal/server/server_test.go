package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formassist/internal/answers"
	"formassist/internal/identity"
	"formassist/internal/llm"
	"formassist/internal/ocr"
	"formassist/internal/profile"
	"formassist/internal/questions"
	"formassist/internal/sheets"
	"formassist/pkg/models"
)

const richForm = "Namo:\nMobile:\nEmailid:\nGonder:\nDate of Bich:\nAddeoss:"

type stubOCR struct {
	text string
	err  error
}

func (s stubOCR) ExtractText(context.Context, []byte) (string, error) {
	return s.text, s.err
}

type stubTranscriber struct{ text string }

func (s stubTranscriber) Transcribe(context.Context, []byte) string { return s.text }

type recordingLogger struct {
	subs []sheets.Submission
	err  error
}

func (l *recordingLogger) AppendSubmission(_ context.Context, sub sheets.Submission) error {
	l.subs = append(l.subs, sub)
	return l.err
}

func newTestServer(t *testing.T, svc ocr.OCRService, gen llm.Generator) (*Server, *recordingLogger) {
	t.Helper()
	subs := &recordingLogger{}
	srv := NewServer("127.0.0.1", 0, Dependencies{
		OCR:         svc,
		Detector:    questions.NewDetector(gen),
		Identity:    identity.NewExtractor(svc),
		Validator:   answers.NewValidator(gen),
		Assistant:   answers.NewAssistant(gen),
		Speech:      stubTranscriber{text: "Asha Verma"},
		Profiles:    profile.NewStore(),
		Submissions: subs,
	})
	return srv, subs
}

func uploadRequest(t *testing.T, path string, fields map[string]string, withFile bool) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withFile {
		fw, err := mw.CreateFormFile("file", "form.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(t *testing.T, path string, body interface{}) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(srv *Server, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var body map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
	}
	return rec, body
}

func TestScanForm(t *testing.T) {
	srv, _ := newTestServer(t, stubOCR{text: richForm}, nil)

	rec, body := serve(srv, uploadRequest(t, "/scan-form", nil, true))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, richForm, body["extracted_text"])
	assert.EqualValues(t, 6, body["total_questions"])
	qs := body["questions"].([]interface{})
	require.Len(t, qs, 6)
	first := qs[0].(map[string]interface{})
	assert.EqualValues(t, 1, first["id"])
	assert.Equal(t, "Name", first["question"])
	assert.Equal(t, "text", first["field_type"])
}

func TestScanForm_OCRFailure(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil)

	rec, body := serve(srv, uploadRequest(t, "/scan-form", nil, true))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.True(t, strings.HasPrefix(body["error"].(string), "ERROR:"))
	assert.Equal(t, body["error"], body["extracted_text"])
	assert.Equal(t, []interface{}{}, body["questions"])
}

func TestScanForm_SparseTextFallsBack(t *testing.T) {
	srv, _ := newTestServer(t, stubOCR{text: "Name ____"}, nil)

	_, body := serve(srv, uploadRequest(t, "/scan-form", nil, true))

	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 5, body["total_questions"])
}

func TestScanForm_MissingFile(t *testing.T) {
	srv, _ := newTestServer(t, stubOCR{text: richForm}, nil)

	rec, body := serve(srv, uploadRequest(t, "/scan-form", nil, false))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestAutoFillFromID(t *testing.T) {
	srv, _ := newTestServer(t, stubOCR{text: "INCOME TAX DEPARTMENT\nName: Priya Sharma\nABCDE1234F"}, nil)

	rec, body := serve(srv, uploadRequest(t, "/auto-fill-from-id", nil, true))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Extracted data from PAN Card", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "ABCDE1234F", data["id_number"])
	assert.Equal(t, "Priya Sharma", data["name"])
	assert.Nil(t, data["email"])
}

func TestAutoFillFromID_OCRFailure(t *testing.T) {
	srv, _ := newTestServer(t, stubOCR{err: errors.New("backend down")}, nil)

	_, body := serve(srv, uploadRequest(t, "/auto-fill-from-id", nil, true))

	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "backend down")
	v, ok := body["data"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestUploadDocumentAndSpeech(t *testing.T) {
	srv, _ := newTestServer(t, stubOCR{text: "Voter ID text"}, nil)

	_, body := serve(srv, uploadRequest(t, "/upload-document", map[string]string{"document_type": "voter_id"}, true))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "voter_id", body["document_type"])
	assert.Equal(t, "Voter ID text", body["extracted_text"])
	assert.Equal(t, "form.png", body["filename"])

	_, body = serve(srv, uploadRequest(t, "/speech-to-text", nil, true))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Asha Verma", body["text"])
}

func TestRegisterLoginProfile(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil)
	creds := map[string]string{"email": "asha@example.com", "password": "pw", "name": "Asha"}

	rec, _ := serve(srv, jsonRequest(t, "/register", creds))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := serve(srv, jsonRequest(t, "/register", creds))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", body["detail"])

	rec, _ = serve(srv, jsonRequest(t, "/login", map[string]string{"email": "nobody@example.com", "password": "pw"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = serve(srv, jsonRequest(t, "/login", map[string]string{"email": "asha@example.com", "password": "bad"}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = serve(srv, jsonRequest(t, "/login", map[string]string{"email": "asha@example.com", "password": "pw"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Asha", body["profile"].(map[string]interface{})["name"])

	rec, body = serve(srv, formRequest("/save-profile", url.Values{
		"email":        {"asha@example.com"},
		"profile_data": {`{"name": "Asha Verma", "phone": "9876543210"}`},
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	rec, body = serve(srv, httptest.NewRequest(http.MethodGet, "/get-profile/asha@example.com", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "9876543210", body["profile"].(map[string]interface{})["phone"])

	rec, _ = serve(srv, httptest.NewRequest(http.MethodGet, "/get-profile/ghost@example.com", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveProfile_InvalidJSON(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil)

	_, body := serve(srv, formRequest("/save-profile", url.Values{"email": {"a@b.in"}, "profile_data": {"{"}}))

	assert.Equal(t, false, body["success"])
}

func TestGenerateFilledForm(t *testing.T) {
	srv, subs := newTestServer(t, nil, nil)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	srv.now = func() time.Time { return fixed }
	srv.render = func(req models.FillRequest) ([]byte, error) {
		return []byte("%PDF-fake"), nil
	}

	req := models.FillRequest{
		Answers:     map[string]models.Answer{"1": {Question: "Name", Answer: "Asha"}},
		UserProfile: map[string]interface{}{"email": "asha@example.com"},
	}
	rec, _ := serve(srv, jsonRequest(t, "/generate-filled-form", req))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "filled_form.pdf")
	assert.Equal(t, "%PDF-fake", rec.Body.String())

	require.Len(t, subs.subs, 1)
	assert.Equal(t, fixed, subs.subs[0].SubmittedAt)
	assert.Equal(t, "asha@example.com", subs.subs[0].Email)
}

func TestGenerateFilledForm_RenderFailure(t *testing.T) {
	srv, subs := newTestServer(t, nil, nil)
	srv.render = func(models.FillRequest) ([]byte, error) {
		return nil, errors.New("font missing")
	}

	rec, body := serve(srv, jsonRequest(t, "/generate-filled-form", models.FillRequest{}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "font missing", body["detail"])
	assert.Empty(t, subs.subs)
}

func TestValidateAnswerAndNextQuestion(t *testing.T) {
	gen := llm.GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "User's Answer") {
			return `{"valid": false, "suggestion": "Add the PIN code"}`, nil
		}
		return "", errors.New("unavailable")
	})
	srv, _ := newTestServer(t, nil, gen)

	_, body := serve(srv, formRequest("/validate-answer", url.Values{"question": {"Address"}, "answer": {"Pune"}}))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["is_valid"])
	assert.Equal(t, "Add the PIN code", body["suggestion"])

	_, body = serve(srv, formRequest("/next-question", url.Values{"field": {"address"}, "response": {"Pune"}}))
	assert.Equal(t, "Great! What is your phone number?", body["question"])
}

func TestHealthAndMiddleware(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil)

	rec, body := serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["ocr"])
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	tagged := httptest.NewRequest(http.MethodGet, "/health", nil)
	tagged.Header.Set(requestIDHeader, "req-42")
	rec, _ = serve(srv, tagged)
	assert.Equal(t, "req-42", rec.Header().Get(requestIDHeader))

	get := httptest.NewRequest(http.MethodGet, "/health", nil)
	get.Header.Set("Origin", "http://localhost:3000")
	rec, _ = serve(srv, get)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	preflight := httptest.NewRequest(http.MethodOptions, "/scan-form", nil)
	preflight.Header.Set("Origin", "http://localhost:3000")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec, _ = serve(srv, preflight)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodPost, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestStart_StopsOnCancel(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
