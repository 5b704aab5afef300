package formatting_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/steward/pkg/formatting"
)

type sample struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func TestParse(t *testing.T) {
	t.Run("direct JSON", func(t *testing.T) {
		got, err := formatting.Parse[sample](`  {"name":"test","value":42}  `)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Name != "test" || got.Value != 42 {
			t.Errorf("Parse = %+v, want {Name:test Value:42}", got)
		}
	})

	t.Run("markdown fenced JSON", func(t *testing.T) {
		input := "Here you go:\n```json\n{\"name\":\"fenced\",\"value\":7}\n```"
		got, err := formatting.Parse[sample](input)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Name != "fenced" || got.Value != 7 {
			t.Errorf("Parse = %+v, want {Name:fenced Value:7}", got)
		}
	})

	t.Run("unparseable", func(t *testing.T) {
		_, err := formatting.Parse[sample]("I cannot help with that.")
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("err = %v, want ErrParseFailed", err)
		}
	})
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"object with field", `{"lessons":[{"name":"a"},{"name":"b"}]}`, 2, false},
		{"fenced object", "```json\n{\"lessons\":[{\"name\":\"a\"}]}\n```", 1, false},
		{"bare array", `[{"name":"a"},{"name":"b"},{"name":"c"}]`, 3, false},
		{"missing field", `{"questions":[{"name":"a"}]}`, 0, false},
		{"null field", `{"lessons":null}`, 0, false},
		{"field wrong shape", `{"lessons":"none"}`, 0, true},
		{"prose", "no json here", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseList[sample](tt.input, "lessons")
			if tt.wantErr {
				if !errors.Is(err, formatting.ErrParseFailed) {
					t.Fatalf("err = %v, want ErrParseFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseList error: %v", err)
			}
			if got == nil {
				t.Fatal("ParseList returned nil slice")
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"truncated text", 9, "truncated"},
		{"grâce à Dieu", 5, "grâce"},
		{"anything", 0, ""},
	}

	for _, tt := range tests {
		if got := formatting.Truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}

	long := strings.Repeat("x", 500)
	_, err := formatting.Parse[sample](long)
	if err == nil || len(err.Error()) > 300 {
		t.Errorf("parse error should carry a truncated excerpt, got %d bytes", len(err.Error()))
	}
}
