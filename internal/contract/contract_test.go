package contract

import (
	"errors"
	"testing"

	"github.com/desertthunder/heydj/internal/shared"
)

func TestSchemaParse(t *testing.T) {
	schema := NewSchema("search_query")

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain object", raw: `{"search_query":"love"}`, want: "love"},
		{name: "surrounding whitespace", raw: "\n  {\"search_query\": \"love\"}  \n", want: "love"},
		{name: "json fence", raw: "```json\n{\"search_query\":\"love\"}\n```", want: "love"},
		{name: "bare fence", raw: "```\n{\"search_query\":\"love\"}\n```", want: "love"},
		{name: "extra keys ignored", raw: `{"search_query":"love","note":"x"}`, want: "love"},
		{name: "empty string value", raw: `{"search_query":""}`, want: ""},
		{name: "unicode value", raw: `{"search_query":"aşk"}`, want: "aşk"},
		{name: "wrong key", raw: `{"wrong_key":"x"}`, wantErr: true},
		{name: "number value", raw: `{"search_query":42}`, wantErr: true},
		{name: "null value", raw: `{"search_query":null}`, wantErr: true},
		{name: "object value", raw: `{"search_query":{"q":"love"}}`, wantErr: true},
		{name: "array", raw: `["love"]`, wantErr: true},
		{name: "null", raw: `null`, wantErr: true},
		{name: "prose", raw: `Sure! Here is your query: love`, wantErr: true},
		{name: "empty", raw: ``, wantErr: true},
		{name: "one-line json fence", raw: "```json{\"search_query\":\"love\"}```", want: "love"},
		{name: "one-line bare fence", raw: "```{\"search_query\":\"love\"}```", want: "love"},
		{name: "stray closing brace", raw: `{"search_query":"love"}}`, wantErr: true},
		{name: "stray closing bracket", raw: `{"search_query":"love"}]`, wantErr: true},
		{name: "trailing prose", raw: `{"search_query":"love"} thanks`, wantErr: true},
		{name: "trailing object", raw: `{"search_query":"a"}{"search_query":"b"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := schema.Parse("tag_generator", tt.raw)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got output %q", out.Value())
				}
				if !errors.Is(err, shared.ErrSchemaValidation) {
					t.Errorf("expected ErrSchemaValidation, got %v", err)
				}
				var sve *SchemaValidationError
				if !errors.As(err, &sve) {
					t.Fatalf("expected *SchemaValidationError, got %T", err)
				}
				if sve.Step != "tag_generator" || sve.Field != "search_query" || sve.Raw != tt.raw {
					t.Errorf("unexpected error context: %+v", sve)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Field() != "search_query" {
				t.Errorf("Field() = %q, want search_query", out.Field())
			}
			if out.Value() != tt.want {
				t.Errorf("Value() = %q, want %q", out.Value(), tt.want)
			}
		})
	}
}
