// Package validate holds the pure validation rules for account fields and
// snippet language tags.
//
// Everything here is a plain function with no state and no I/O — password
// hashing lives in the auth package, the services compose the two. Keeping
// the rules out of the handlers means every caller (HTTP today, anything
// else tomorrow) enforces the same policy.
package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/codavaulta/snippet-vault/internal/apperror"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9 ]*$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	alphaPattern    = regexp.MustCompile(`^[A-Za-z]+$`)
)

// acceptedLanguages is the fixed set of language tags a snippet may carry,
// keyed by the normalized (lower-case) form. The API layer serves this same
// set at /api/languages, so clients and the service always agree.
var acceptedLanguages = map[string]bool{
	"assembly":   true,
	"bash":       true,
	"c":          true,
	"clojure":    true,
	"cpp":        true,
	"csharp":     true,
	"css":        true,
	"dart":       true,
	"dockerfile": true,
	"elixir":     true,
	"erlang":     true,
	"go":         true,
	"groovy":     true,
	"haskell":    true,
	"html":       true,
	"ini":        true,
	"java":       true,
	"javascript": true,
	"json":       true,
	"julia":      true,
	"kotlin":     true,
	"lua":        true,
	"markdown":   true,
	"matlab":     true,
	"perl":       true,
	"php":        true,
	"powershell": true,
	"python":     true,
	"r":          true,
	"ruby":       true,
	"rust":       true,
	"scala":      true,
	"sql":        true,
	"swift":      true,
	"toml":       true,
	"typescript": true,
	"xml":        true,
	"yaml":       true,
}

// Username checks that a username is non-empty and contains only
// alphanumeric characters and spaces.
func Username(name string) error {
	if name == "" {
		return apperror.ValidationFailed("username", "username cannot be empty")
	}
	if !usernamePattern.MatchString(name) {
		return apperror.ValidationFailed("username",
			"username can only contain alphanumeric characters and spaces")
	}
	return nil
}

// Email checks that an address looks like local@domain.tld with at least a
// two-letter TLD.
func Email(address string) error {
	if !emailPattern.MatchString(address) {
		return apperror.ValidationFailed("email",
			fmt.Sprintf("invalid email address: %s", address))
	}
	return nil
}

// Password checks the password policy: non-empty and at least
// MinPasswordLength characters. Hashing is the PasswordService's job.
func Password(pw string) error {
	if pw == "" {
		return apperror.ValidationFailed("password", "password cannot be empty")
	}
	if len(pw) < MinPasswordLength {
		return apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters long", MinPasswordLength))
	}
	return nil
}

// NormalizeLanguage canonicalizes a free-text language label and checks it
// against the accepted set.
//
// Spaces, '#' and '.' are stripped (so "C#" → "c" and "Node.js" →
// "nodejs"), the remainder must be purely alphabetic, and the result is
// lower-cased before the membership test. "C++" fails validation because
// '+' is neither stripped nor alphabetic.
func NormalizeLanguage(tag string) (string, error) {
	stripped := strings.NewReplacer(" ", "", "#", "", ".", "").Replace(tag)
	if !alphaPattern.MatchString(stripped) {
		return "", apperror.ValidationFailed("language",
			fmt.Sprintf("invalid language tag: %s", tag))
	}

	normalized := strings.ToLower(stripped)
	if !acceptedLanguages[normalized] {
		return "", apperror.Unsupported(
			fmt.Sprintf("language %s is not supported", normalized))
	}
	return normalized, nil
}

// Languages returns the accepted language tags in sorted order.
func Languages() []string {
	tags := make([]string, 0, len(acceptedLanguages))
	for tag := range acceptedLanguages {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
