// Package pdf renders Markdown study sheets to PDF.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

// PathFor returns the PDF path that sits next to markdownPath.
func PathFor(markdownPath string) (string, error) {
	if !strings.HasSuffix(markdownPath, ".md") {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}
	return strings.TrimSuffix(markdownPath, ".md") + ".pdf", nil
}

// ConvertMarkdownToPDF writes a PDF next to markdownPath and returns its
// absolute path.
func ConvertMarkdownToPDF(markdownPath string) (string, error) {
	pdfPath, err := PathFor(markdownPath)
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}
	if err := Render(content, pdfPath); err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}

// Render converts Markdown to an A4 portrait PDF at pdfPath.
func Render(markdown []byte, pdfPath string) error {
	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(markdown); err != nil {
		return fmt.Errorf("renderer.Process() > %w", err)
	}
	return nil
}
