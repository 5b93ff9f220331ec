package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/mikey/inbox-account-scanner/internal/adapters/input"
	"github.com/mikey/inbox-account-scanner/internal/core"
)

const (
	// parseFailureMessage is the only error text shown to users for bad uploads
	parseFailureMessage = "Failed to parse CSV (check file encoding/headers)."
	multipartMemory     = 8 << 20
)

var errTooLarge = errors.New("upload exceeds size limit")

type apiError struct {
	Error string `json:"error"`
}

type apiParseFailure struct {
	Error    string   `json:"error"`
	Accounts []string `json:"accounts"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, indexTemplate, indexPage{})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze serves the HTML form post, accepting an upload or the sample inbox
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	src, format, err := s.openInput(w, r, true)
	if errors.Is(err, core.ErrMissingInput) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		s.logger.Error("Failed to read upload", zap.Error(err))
		s.render(w, http.StatusOK, resultsTemplate, resultsPage{Error: parseFailureMessage})
		return
	}
	defer src.Close()

	result, err := s.service.Analyze(r.Context(), format, src)
	if err != nil {
		s.logger.Error("Failed to analyze upload", zap.String("format", format), zap.Error(err))
		s.render(w, http.StatusOK, resultsTemplate, resultsPage{Error: parseFailureMessage})
		return
	}

	s.render(w, http.StatusOK, resultsTemplate, resultsPage{
		Accounts: result.Accounts,
		Sections: result.Sections,
	})
}

// handleAPIAnalyze serves the JSON API; only uploaded files are accepted
func (s *Server) handleAPIAnalyze(w http.ResponseWriter, r *http.Request) {
	src, format, err := s.openInput(w, r, false)
	switch {
	case errors.Is(err, core.ErrMissingInput):
		writeJSON(w, http.StatusBadRequest, apiError{Error: "no file provided"})
		return
	case errors.Is(err, errTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, apiError{Error: "file too large"})
		return
	case err != nil:
		s.logger.Error("Failed to read upload", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, apiError{Error: "failed to read upload"})
		return
	}
	defer src.Close()

	result, err := s.service.Analyze(r.Context(), format, src)
	switch {
	case errors.Is(err, core.ErrParse):
		s.logger.Error("Failed to parse upload", zap.String("format", format), zap.Error(err))
		writeJSON(w, http.StatusUnprocessableEntity, apiParseFailure{Error: "failed to parse input", Accounts: []string{}})
		return
	case errors.Is(err, core.ErrUnsupportedFormat):
		writeJSON(w, http.StatusBadRequest, apiError{Error: "unsupported format"})
		return
	case err != nil:
		s.logger.Error("Failed to analyze upload", zap.String("format", format), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// openInput returns the uploaded file, or the sample inbox when allowed and
// requested, together with its format. core.ErrMissingInput means neither
// was supplied.
func (s *Server) openInput(w http.ResponseWriter, r *http.Request, allowSample bool) (io.ReadCloser, string, error) {
	if s.cfg.MaxUploadBytes > 0 {
		if r.ContentLength > s.cfg.MaxUploadBytes {
			return nil, "", errTooLarge
		}
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, "", errTooLarge
		}
		return nil, "", fmt.Errorf("failed to parse form: %w", err)
	}

	if allowSample && r.FormValue("use_sample") != "" {
		f, err := os.Open(s.cfg.SamplePath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open sample data: %w", err)
		}
		return f, input.FormatForFilename(s.cfg.SamplePath), nil
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", core.ErrMissingInput
	}

	format := r.FormValue("format")
	if format == "" {
		format = input.FormatForFilename(header.Filename)
	}
	return file, format, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
