// Package assets holds the embedded export templates and renders them,
// preferring a template file from disk when one is configured.
package assets

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templates embed.FS

const studySheetTemplateName = "study-sheet.md.go.tmpl"

var funcMap = template.FuncMap{
	"join": strings.Join,
	"add":  func(a, b int) int { return a + b },
}

// parseTemplateWithFallback parses templatePath when it exists and is valid,
// and the embedded template called name otherwise.
func parseTemplateWithFallback(templatePath string, name string) (*template.Template, error) {
	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(templatePath)).
				Funcs(funcMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Warn("failed to parse template, using the embedded one",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := template.New(name).
		Funcs(funcMap).
		ParseFS(templates, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}
