package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"formassist/internal/identity"
	"formassist/internal/logger"
	"formassist/internal/ocr"
	"formassist/internal/profile"
	"formassist/internal/render"
	"formassist/internal/sheets"
	"formassist/pkg/models"
)

var renderPDF = render.Render

func (s *Server) handleScanForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, s.log)

	image, filename, err := readUpload(r)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	log.Info().Str("filename", filename).Int("bytes", len(image)).Msg("Scanning form")

	text := ocr.TextOrMarker(ctx, s.deps.OCR, image)
	if ocr.IsErrorText(text) {
		s.respondJSON(w, r, http.StatusOK, map[string]interface{}{
			"success":        false,
			"error":          text,
			"extracted_text": text,
			"questions":      []models.Question{},
		})
		return
	}

	qs := s.deps.Detector.Detect(ctx, text)
	log.Info().Int("questions", len(qs)).Int("text_length", len(text)).Msg("Form scanned")

	s.respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":         true,
		"extracted_text":  text,
		"questions":       qs,
		"total_questions": len(qs),
	})
}

func (s *Server) handleSpeechToText(w http.ResponseWriter, r *http.Request) {
	audio, _, err := readUpload(r)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if s.deps.Speech == nil {
		s.respondJSON(w, r, http.StatusOK, map[string]interface{}{"success": false, "error": "speech recognition is not configured", "text": ""})
		return
	}

	text := s.deps.Speech.Transcribe(r.Context(), audio)
	s.respondJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "text": text})
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	data, filename, err := readUpload(r)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	docType := strings.TrimSpace(r.FormValue("document_type"))
	if docType == "" {
		s.respondError(w, r, http.StatusBadRequest, "document_type is required")
		return
	}

	text := ocr.TextOrMarker(r.Context(), s.deps.OCR, data)
	s.respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":        true,
		"document_type":  docType,
		"extracted_text": text,
		"filename":       filename,
	})
}

func (s *Server) handleAutoFillFromID(w http.ResponseWriter, r *http.Request) {
	image, _, err := readUpload(r)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	data, err := s.deps.Identity.ExtractFromImage(r.Context(), image)
	if err != nil {
		var extractionErr *identity.ExtractionError
		msg := err.Error()
		if errors.As(err, &extractionErr) {
			msg = extractionErr.Marker
		}
		s.respondJSON(w, r, http.StatusOK, map[string]interface{}{"success": false, "error": msg, "data": nil})
		return
	}

	s.respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
		"message": fmt.Sprintf("Extracted data from %s", data.DocumentType),
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	switch err := s.deps.Profiles.Register(req.Email, req.Password, req.Name); {
	case errors.Is(err, profile.ErrUserExists):
		s.respondError(w, r, http.StatusBadRequest, "User already exists")
	case errors.Is(err, profile.ErrMissingEmail):
		s.respondError(w, r, http.StatusBadRequest, "email is required")
	case err != nil:
		log := logger.FromContext(r.Context(), s.log)
		log.Error().Err(err).Msg("Registration failed")
		s.respondError(w, r, http.StatusInternalServerError, "registration failed")
	default:
		s.respondJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "message": "User registered successfully"})
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := s.deps.Profiles.Authenticate(req.Email, req.Password)
	switch {
	case errors.Is(err, profile.ErrUserNotFound):
		s.respondError(w, r, http.StatusNotFound, "User not found")
	case errors.Is(err, profile.ErrInvalidPassword):
		s.respondError(w, r, http.StatusUnauthorized, "Invalid password")
	case err != nil:
		s.respondError(w, r, http.StatusInternalServerError, err.Error())
	default:
		s.respondJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "profile": p})
	}
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")

	var p models.UserProfile
	if err := json.Unmarshal([]byte(r.FormValue("profile_data")), &p); err != nil {
		s.respondJSON(w, r, http.StatusOK, map[string]interface{}{"success": false, "error": fmt.Sprintf("invalid profile_data: %v", err)})
		return
	}
	if err := s.deps.Profiles.SaveProfile(email, p); err != nil {
		s.respondJSON(w, r, http.StatusOK, map[string]interface{}{"success": false, "error": err.Error()})
		return
	}

	s.respondJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "message": "Profile saved successfully"})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid email")
		return
	}

	p, err := s.deps.Profiles.Profile(email)
	if err != nil {
		s.respondError(w, r, http.StatusNotFound, "Profile not found")
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "profile": p})
}

func (s *Server) handleGenerateFilledForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, s.log)

	var req models.FillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	pdf, err := s.render(req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate PDF")
		s.respondError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	log.Info().Int("answers", len(req.Answers)).Int("documents", len(req.Documents)).Int("bytes", len(pdf)).Msg("PDF generated")

	if s.deps.OutputDir != "" {
		if path, err := render.Save(s.deps.OutputDir, pdf); err != nil {
			log.Warn().Err(err).Msg("Failed to keep a copy of the generated PDF")
		} else {
			log.Debug().Str("path", path).Msg("Generated PDF saved")
		}
	}

	if s.deps.Submissions != nil {
		if err := s.deps.Submissions.AppendSubmission(ctx, sheets.NewSubmission(req, s.now())); err != nil {
			log.Warn().Err(err).Msg("Failed to log submission")
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="filled_form.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Warn().Err(err).Msg("Failed to write PDF response")
	}
}

func (s *Server) handleValidateAnswer(w http.ResponseWriter, r *http.Request) {
	question := r.FormValue("question")
	answer := r.FormValue("answer")

	result := s.deps.Validator.Validate(r.Context(), question, answer)
	s.respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":    true,
		"is_valid":   result.IsValid,
		"suggestion": result.Suggestion,
	})
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	field := r.FormValue("field")
	response := r.FormValue("response")

	next := s.deps.Assistant.NextQuestion(r.Context(), field, response)
	s.respondJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "question": next})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"ocr":         s.deps.OCR != nil,
		"speech":      s.deps.Speech != nil,
		"submissions": s.deps.Submissions != nil,
	})
}
