package views

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/spf13/viper"
)

// Renderer executes the server-side HTML templates.
type Renderer struct {
	tmpl *template.Template
}

// MustNew parses all templates from the configured glob.
func MustNew() *Renderer {
	pattern := viper.GetString("server.http.templates_glob")
	if pattern == "" {
		pattern = "./web/templates/*.html"
	}

	return &Renderer{
		tmpl: template.Must(template.ParseGlob(pattern)),
	}
}

// Render writes the named template to the response.
func (r *Renderer) Render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("Failed to render template", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
