package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func questionSchema() *Schema {
	return &Schema{
		Name:        "test-question",
		Description: "A multiple-choice question",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{"type": "string", "minLength": 1},
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 4,
					"maxItems": 4,
				},
				"correct": map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
				"kind":    map[string]any{"type": "string", "enum": []any{"recall", "concept"}},
			},
			"required": []any{"question", "options", "correct"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "valid",
			raw:  `{"question":"What is 2+2?","options":["3","4","5","6"],"correct":1,"kind":"recall"}`,
		},
		{
			name: "valid without optional",
			raw:  `{"question":"What is H2O?","options":["Water","Salt","Air","Gold"],"correct":0}`,
		},
		{
			name:    "missing required",
			raw:     `{"question":"Orphan?"}`,
			wantErr: true,
		},
		{
			name:    "wrong type",
			raw:     `{"question":"Q","options":["a","b","c","d"],"correct":"B"}`,
			wantErr: true,
		},
		{
			name:    "correct index out of range",
			raw:     `{"question":"Q","options":["a","b","c","d"],"correct":4}`,
			wantErr: true,
		},
		{
			name:    "three options",
			raw:     `{"question":"Q","options":["a","b","c"],"correct":0}`,
			wantErr: true,
		},
		{
			name:    "invalid enum",
			raw:     `{"question":"Q","options":["a","b","c","d"],"correct":0,"kind":"trivia"}`,
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			raw:     `{not json}`,
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     ``,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(questionSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				return
			}
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
			}
			if string(invErr.Content) != tt.raw {
				t.Fatalf("content not preserved: %q", invErr.Content)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	raw := json.RawMessage(`{"anything":"goes"}`)
	if err := validateResponse(nil, raw); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_NestedArrayOfObjects(t *testing.T) {
	schema := &Schema{
		Name: "test-cards",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"cards": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"front": map[string]any{"type": "string"},
							"back":  map[string]any{"type": "string"},
						},
						"required": []any{"front", "back"},
					},
				},
			},
			"required": []any{"cards"},
		},
	}

	valid := json.RawMessage(`{"cards":[{"front":"Mitochondria","back":"Powerhouse of the cell"}]}`)
	if err := validateResponse(schema, valid); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	invalid := json.RawMessage(`{"cards":[{"front":"Mitochondria"}]}`)
	if err := validateResponse(schema, invalid); err == nil {
		t.Fatal("expected error for card without back")
	}
}
