// Package export writes question sets to study sheets and bulk files.
package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prite-study/pritecards/internal/assets"
	"github.com/prite-study/pritecards/internal/importer"
	"github.com/prite-study/pritecards/internal/pdf"
	"github.com/prite-study/pritecards/internal/question"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatPDF, FormatYAML, FormatJSON:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Searcher lists the questions a user can read.
type Searcher interface {
	Search(ctx context.Context, userID string, filter question.SearchFilter) ([]question.Question, error)
}

type Exporter struct {
	questions    Searcher
	outputDir    string
	templatePath string
	now          func() time.Time
}

func NewExporter(questions Searcher, outputDir, templatePath string) *Exporter {
	return &Exporter{
		questions:    questions,
		outputDir:    outputDir,
		templatePath: templatePath,
		now:          time.Now,
	}
}

// Export writes the questions userID can read that match filter to
// outputDir/name in format and returns the written paths. A PDF export also
// keeps the Markdown it was rendered from.
func (e *Exporter) Export(ctx context.Context, userID string, filter question.SearchFilter, name string, format Format) ([]string, error) {
	questions, err := e.questions.Search(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("questions.Search() > %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions match the filter")
	}
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll(%s) > %w", e.outputDir, err)
	}
	base := filepath.Join(e.outputDir, name)

	var paths []string
	switch format {
	case FormatYAML, FormatJSON:
		path := base + "." + string(format)
		if err := importer.WriteFile(path, questions); err != nil {
			return nil, fmt.Errorf("importer.WriteFile() > %w", err)
		}
		paths = append(paths, path)
	case FormatMarkdown, FormatPDF:
		mdPath := base + ".md"
		var buf bytes.Buffer
		if err := assets.WriteStudySheet(&buf, e.templatePath, NewStudySheet(name, e.now(), questions)); err != nil {
			return nil, fmt.Errorf("assets.WriteStudySheet() > %w", err)
		}
		if err := os.WriteFile(mdPath, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("os.WriteFile(%s) > %w", mdPath, err)
		}
		paths = append(paths, mdPath)
		if format == FormatPDF {
			pdfPath, err := pdf.ConvertMarkdownToPDF(mdPath)
			if err != nil {
				return nil, fmt.Errorf("pdf.ConvertMarkdownToPDF() > %w", err)
			}
			paths = append(paths, pdfPath)
		}
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}

	slog.Info("questions exported", "user", userID, "count", len(questions), "format", format, "paths", paths)
	return paths, nil
}

// NewStudySheet builds the template data for questions.
func NewStudySheet(title string, date time.Time, questions []question.Question) assets.StudySheet {
	sheet := assets.StudySheet{
		Title:     title,
		Date:      date,
		Questions: make([]assets.SheetQuestion, len(questions)),
	}
	for i, q := range questions {
		var correct question.LetterSet
		if q.Key != nil {
			correct = q.Key.CorrectLetters()
		}
		sq := assets.SheetQuestion{
			Number:               q.Number,
			Part:                 q.Part,
			Category:             q.Category,
			Year:                 q.Year,
			Tags:                 q.Tags,
			Text:                 q.Text,
			Instructions:         q.Instructions,
			Answer:               correct.String(),
			Explanation:          q.Explanation,
			GeneratedExplanation: q.GeneratedExplanation,
		}
		for _, l := range q.Options.Present() {
			sq.Options = append(sq.Options, assets.SheetOption{
				Letter:  l.String(),
				Text:    q.Options.Get(l),
				Correct: correct.Contains(l),
			})
		}
		sheet.Questions[i] = sq
	}
	return sheet
}
