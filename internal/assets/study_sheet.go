package assets

import (
	"fmt"
	"io"
	"time"
)

// StudySheet is the data passed to the study sheet template.
type StudySheet struct {
	Title     string
	Date      time.Time
	Questions []SheetQuestion
}

type SheetQuestion struct {
	Number               string
	Part                 string
	Category             string
	Year                 string
	Tags                 []string
	Text                 string
	Instructions         string
	Options              []SheetOption
	Answer               string
	Explanation          string
	GeneratedExplanation string
}

type SheetOption struct {
	Letter  string
	Text    string
	Correct bool
}

func WriteStudySheet(output io.Writer, templatePath string, sheet StudySheet) error {
	tmpl, err := parseTemplateWithFallback(templatePath, studySheetTemplateName)
	if err != nil {
		return fmt.Errorf("parseTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, sheet); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
