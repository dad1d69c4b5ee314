package validation

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/authgate/authgate-go/internal/crypto"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}

// IsEmail reports whether s is a syntactically valid email address.
func IsEmail(s string) bool {
	return getValidator().Var(s, "email") == nil
}

// MinLen checks a minimum length in characters.
func MinLen(n int, message string) Step {
	return Check(func(s string) bool { return utf8.RuneCountInString(s) >= n }, message)
}

// MaxLen checks a maximum length in characters.
func MaxLen(n int, message string) Step {
	return Check(func(s string) bool { return utf8.RuneCountInString(s) <= n }, message)
}

// Email checks address syntax.
func Email(message string) Step {
	return Check(IsEmail, message)
}

var (
	Trim      = Transform(strings.TrimSpace)
	LowerCase = Transform(strings.ToLower)
)

// PasswordStrength expands the password policy into one step per rule.
func PasswordStrength() []Step {
	steps := make([]Step, len(crypto.StrengthRules))
	for i, rule := range crypto.StrengthRules {
		steps[i] = Check(rule.Check, rule.Message)
	}
	return steps
}
