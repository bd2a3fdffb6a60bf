package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"formassist/internal/logger"
)

var errNoFile = errors.New("file is required")

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log := logger.FromContext(r.Context(), s.log)
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

// respondError reports a request-level failure. The message goes in "detail"
// so existing front ends can show it unchanged.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.respondJSON(w, r, status, map[string]interface{}{"success": false, "detail": msg})
}

// readUpload returns the bytes and name of the multipart "file" field.
func readUpload(r *http.Request) ([]byte, string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", fmt.Errorf("parse upload: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", errNoFile
		}
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	return data, header.Filename, nil
}
