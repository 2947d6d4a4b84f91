package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// maxResourceNameLength bounds the jsonFile query value.
const maxResourceNameLength = 500

// nameRules are checked in order; the first failing rule names the error.
var nameRules = []struct {
	bad func(string) bool
	msg string
}{
	{func(n string) bool { return n == "" }, "resource name cannot be empty"},
	{func(n string) bool { return len(n) > maxResourceNameLength }, "resource name too long"},
	{func(n string) bool { return strings.IndexFunc(n, unicode.IsControl) >= 0 }, "resource name contains control characters"},
	{func(n string) bool { return strings.HasPrefix(n, "/") }, "resource name must be relative"},
	{func(n string) bool { return strings.Contains(n, "..") }, "resource name cannot contain .."},
	{func(n string) bool { return strings.ContainsRune(n, '\\') }, "resource name cannot contain backslashes"},
}

// ValidateResourceName checks the name of a remote sky document before it is
// appended to the base URL. Nested names ("2019/sky.json") are fine; names
// that could leave the base location are INVALID_PATH.
func ValidateResourceName(name string) error {
	for _, r := range nameRules {
		if r.bad(name) {
			return New(ErrCodeInvalidPath, "%s", r.msg)
		}
	}
	return nil
}

// ValidateURL requires an absolute http or https URL with a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL has no host")
	}
	return nil
}
