package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/meritrack/internal/app/system/htmlsanitize"
)

func TestSanitize_Empty(t *testing.T) {
	result := htmlsanitize.Sanitize("")
	if result != "" {
		t.Errorf("expected empty string, got %q", result)
	}
}

func TestSanitize_PlainText(t *testing.T) {
	result := htmlsanitize.Sanitize("Please attach the certificate of participation.")
	if result != "Please attach the certificate of participation." {
		t.Errorf("expected plain text unchanged, got %q", result)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	input := "<p>Hello</p><script>alert('xss')</script>"
	result := htmlsanitize.Sanitize(input)
	if result != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", result)
	}
}

func TestSanitize_RemovesOnclick(t *testing.T) {
	input := `<button onclick="alert('xss')">Click</button>`
	result := htmlsanitize.Sanitize(input)
	if strings.Contains(result, "onclick") {
		t.Errorf("expected onclick attribute removed, got %q", result)
	}
}

func TestSanitize_RemovesJavascriptHref(t *testing.T) {
	input := `<a href="javascript:alert('xss')">Click</a>`
	result := htmlsanitize.Sanitize(input)
	if strings.Contains(result, "javascript:") {
		t.Errorf("expected javascript: href removed, got %q", result)
	}
}

func TestSanitize_KeepsSafeLinkTarget(t *testing.T) {
	input := `<a href="https://example.com">Link</a>`
	result := htmlsanitize.Sanitize(input)
	if !strings.Contains(result, "https://example.com") {
		t.Errorf("expected safe href preserved, got %q", result)
	}
}

func TestStripAll(t *testing.T) {
	input := "<p><strong>Bold</strong> text</p>"
	result := htmlsanitize.StripAll(input)
	if strings.ContainsAny(result, "<>") {
		t.Errorf("expected all tags removed, got %q", result)
	}
}
