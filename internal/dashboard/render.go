package dashboard

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/client-dashboard/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var titleCaser = cases.Title(language.English)

// RoleLabel returns the display label for a role ("Client", "Sales Rep").
func RoleLabel(r model.Role) string {
	return titleCaser.String(strings.ReplaceAll(string(r), "_", " "))
}

// TelHref builds a tel: link from a phone number, keeping only digits and a
// leading plus sign.
func TelHref(phone string) template.URL {
	var b strings.Builder
	for i, c := range strings.TrimSpace(phone) {
		if (c >= '0' && c <= '9') || (c == '+' && i == 0) {
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return template.URL("tel:" + b.String())
}

func parseTemplates() *template.Template {
	funcs := template.FuncMap{
		"roleLabel": RoleLabel,
		"telHref":   TelHref,
	}
	return template.Must(template.New("dashboard").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		zap.L().Error("dashboard: render template", zap.String("template", name), zap.Error(err))
	}
}
