package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "runtime error",
			code:    "K002",
			wantMsg: "Missing key",
			wantCat: CategoryRuntime,
		},
		{
			name:    "render error",
			code:    "K050",
			wantMsg: "Duplicate key",
			wantCat: CategoryRender,
		},
		{
			name:    "config error",
			code:    "K101",
			wantMsg: "Invalid config file",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "K999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := New("K002").WithDetail(`key "quote"`)
	if got, want := err.Error(), `K002: Missing key: key "quote"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := Newf(CategoryCLI, "bad flag %q", "--port")
	if got, want := plain.Error(), `bad flag "--port"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrapUnwrap(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := New("K001").Wrap(sentinel)

	if !stderrors.Is(err, sentinel) {
		t.Fatal("errors.Is should see the wrapped sentinel")
	}

	var ke *KiteError
	if !stderrors.As(error(err), &ke) || ke.Code != "K001" {
		t.Fatalf("errors.As = %v, want K001", ke)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "K150") != nil {
		t.Error("FromError(nil) should be nil")
	}

	base := stderrors.New("boom")
	wrapped := FromError(base, "K150")
	if wrapped.Code != "K150" || wrapped.Wrapped != base {
		t.Errorf("FromError = %+v", wrapped)
	}

	if again := FromError(wrapped, "K151"); again != wrapped {
		t.Error("FromError should not re-wrap a KiteError")
	}
}

func TestFormat(t *testing.T) {
	out := New("K050").WithDetail(`key "a" appears twice`).Format()
	for _, want := range []string{"ERROR", "K050:", "Duplicate key", `key "a" appears twice`, "Hint:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	out := New("K152").WithDetail("missing author").Wrap(stderrors.New("eof")).FormatJSON()
	for _, want := range []string{`"code":"K152"`, `"category":"source"`, `"detail":"missing author"`, `"cause":"eof"`} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatJSON() missing %s in %s", want, out)
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six seven", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six seven" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}

func TestGetAllCodesSorted(t *testing.T) {
	codes := GetAllCodes()
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
	if _, ok := GetTemplate("K001"); !ok {
		t.Error("K001 should be registered")
	}
}
