package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStruct(t *testing.T) {
	type settings struct {
		Size   int    `json:"questionsPerSession" validate:"min=1,max=500"`
		Name   string `json:"name" validate:"required"`
		Hidden string `json:"-" validate:"max=1"`
		Plain  string `validate:"max=2"`
	}

	tests := []struct {
		name    string
		input   settings
		wantErr string
	}{
		{name: "valid", input: settings{Size: 20, Name: "alice"}},
		{name: "uses json names", input: settings{Size: 0, Name: "alice"}, wantErr: "questionsPerSession must be 1 or greater"},
		{name: "joins messages", input: settings{Size: 501}, wantErr: "questionsPerSession must be 500 or less, name is a required field"},
		{name: "falls back to field name", input: settings{Size: 1, Name: "a", Plain: "abc"}, wantErr: "Plain must be a maximum of 2 characters in length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
