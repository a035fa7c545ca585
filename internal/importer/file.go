package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/prite-study/pritecards/internal/question"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension; anything that is
// not .json is read as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// File is the document shape with a top-level questions key. A bare list of
// items is accepted as well.
type File struct {
	Questions []Item `json:"questions" yaml:"questions"`
}

func Decode(r io.Reader, format Format) ([]Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll() > %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch format {
	case FormatJSON:
		if trimmed[0] == '[' {
			var items []Item
			if err := json.Unmarshal(trimmed, &items); err != nil {
				return nil, fmt.Errorf("json.Unmarshal() > %w", err)
			}
			return items, nil
		}
		var f File
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return nil, fmt.Errorf("json.Unmarshal() > %w", err)
		}
		return f.Questions, nil
	default:
		var node yaml.Node
		if err := yaml.Unmarshal(trimmed, &node); err != nil {
			return nil, fmt.Errorf("yaml.Unmarshal() > %w", err)
		}
		if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
			var items []Item
			if err := node.Decode(&items); err != nil {
				return nil, fmt.Errorf("node.Decode() > %w", err)
			}
			return items, nil
		}
		var f File
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("node.Decode() > %w", err)
		}
		return f.Questions, nil
	}
}

// ReadFile decodes path and converts each item into a draft question.
func ReadFile(path string, now time.Time) ([]question.Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer f.Close()

	items, err := Decode(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return ToQuestions(items, now)
}

// ToQuestions converts items, reporting the 1-based position of a bad item.
func ToQuestions(items []Item, now time.Time) ([]question.Question, error) {
	questions := make([]question.Question, 0, len(items))
	for i, it := range items {
		q, err := it.ToQuestion(now)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// WriteFile writes questions in the bulk file format of path's extension.
func WriteFile(path string, questions []question.Question) error {
	doc := File{Questions: make([]Item, len(questions))}
	for i, q := range questions {
		doc.Questions[i] = FromQuestion(q)
	}

	var (
		data []byte
		err  error
	)
	if FormatFromPath(path) == FormatJSON {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return nil
}
