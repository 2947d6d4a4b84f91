package errors

import (
	"strings"
	"testing"
)

func TestValidateResourceName(t *testing.T) {
	tests := []struct {
		input   string
		wantMsg string
	}{
		{"sky.json", ""},
		{"2019/q3/sky.json", ""},
		{"sky.json&theme=dark", ""},

		{"", "empty"},
		{strings.Repeat("a", maxResourceNameLength+1), "too long"},
		{"sky\x00.json", "control"},
		{"sky\n.json", "control"},
		{"/etc/passwd", "relative"},
		{"../secrets.json", ".."},
		{"a/../../b.json", ".."},
		{`a\b.json`, "backslash"},
	}

	for _, tt := range tests {
		err := ValidateResourceName(tt.input)
		if tt.wantMsg == "" {
			if err != nil {
				t.Errorf("ValidateResourceName(%q) = %v, want nil", tt.input, err)
			}
			continue
		}
		if !Is(err, ErrCodeInvalidPath) {
			t.Errorf("ValidateResourceName(%q) = %v, want INVALID_PATH", tt.input, err)
			continue
		}
		if !strings.Contains(UserMessage(err), tt.wantMsg) {
			t.Errorf("ValidateResourceName(%q) message = %q, want it to mention %q", tt.input, UserMessage(err), tt.wantMsg)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"https://raw.githubusercontent.com/gincla/nightsky/master/lib/", true},
		{"http://localhost:8080/", true},

		{"", false},
		{"ftp://example.com/", false},
		{"example.com/lib/", false},
		{"https://", false},
		{"http://[::1", false},
	}

	for _, tt := range tests {
		err := ValidateURL(tt.input)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateURL(%q) = %v, want ok=%v", tt.input, err, tt.ok)
		}
		if err != nil && !Is(err, ErrCodeInvalidInput) {
			t.Errorf("ValidateURL(%q) code = %q", tt.input, GetCode(err))
		}
	}
}
