package web

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

//go:embed templates/index.html
var indexTemplateHTML string

//go:embed templates/results.html
var resultsTemplateHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexTemplateHTML))
var resultsTemplate = template.Must(template.New("results").Parse(resultsTemplateHTML))

// indexPage represents the data for the upload form
type indexPage struct{}

// resultsPage represents the data for the results page
type resultsPage struct {
	Error    string
	Accounts []string
	Sections map[string][]string
}

func (s *Server) render(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		s.logger.Error("Failed to render template", zap.String("template", tmpl.Name()), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
