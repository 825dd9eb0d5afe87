package quotes

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Quote
		wantErr error
	}{
		{
			name:  "valid",
			input: `[{"content":"A","author":"B"},{"content":"C"}]`,
			want:  []Quote{{Content: "A", Author: "B"}, {Content: "C"}},
		},
		{name: "empty list", input: `[]`, wantErr: ErrEmpty},
		{name: "not json", input: `{`, wantErr: ErrInvalid},
		{name: "no content", input: `[{"author":"B"}]`, wantErr: ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMemorySource(t *testing.T) {
	got, err := NewMemorySource().Quotes(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(DefaultQuotes) {
		t.Errorf("default source has %d quotes, want %d", len(got), len(DefaultQuotes))
	}

	custom := NewMemorySource(Quote{Content: "x", Author: "y"})
	got, _ = custom.Quotes(context.Background())
	if diff := cmp.Diff([]Quote{{Content: "x", Author: "y"}}, got); diff != "" {
		t.Errorf("Quotes() mismatch (-want +got):\n%s", diff)
	}
}

func TestFileSourceReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.json")
	write := func(content string, mod time.Time) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatal(err)
		}
	}

	base := time.Now().Add(-time.Hour)
	write(`[{"content":"first","author":"a"}]`, base)
	src := NewFileSource(path)

	got, err := src.Quotes(context.Background())
	if err != nil || got[0].Content != "first" {
		t.Fatalf("Quotes() = %v, %v", got, err)
	}

	write(`[{"content":"second","author":"b"}]`, base.Add(time.Minute))
	got, err = src.Quotes(context.Background())
	if err != nil || got[0].Content != "second" {
		t.Fatalf("Quotes() after change = %v, %v", got, err)
	}
	if !strings.HasPrefix(src.Name(), "file:") {
		t.Errorf("Name() = %q", src.Name())
	}
}

func TestFileSourceMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")
	_, err := NewFileSource(path).Quotes(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Quotes() = %v, want ErrNotExist", err)
	}
	if n := strings.Count(err.Error(), path); n != 1 {
		t.Errorf("Quotes() = %q, path appears %d times, want once", err, n)
	}
}
