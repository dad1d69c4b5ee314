package crypto

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password ValidateStrength accepts.
const MinPasswordLength = 8

// maxBcryptBytes is the longest input bcrypt reads. Longer passwords are cut
// to this length on both Hash and Compare.
const maxBcryptBytes = 72

// StrengthRule is a single password policy check.
type StrengthRule struct {
	Check   func(password string) bool
	Message string
}

// StrengthRules is the password policy, in reporting order.
var StrengthRules = []StrengthRule{
	{
		Check:   func(p string) bool { return utf8.RuneCountInString(p) >= MinPasswordLength },
		Message: "Password must be at least 8 characters long",
	},
	{
		Check:   regexp.MustCompile(`[a-z]`).MatchString,
		Message: "Password must contain at least one lowercase letter",
	},
	{
		Check:   regexp.MustCompile(`[A-Z]`).MatchString,
		Message: "Password must contain at least one uppercase letter",
	},
	{
		Check:   regexp.MustCompile(`\d`).MatchString,
		Message: "Password must contain at least one number",
	},
	{
		Check:   regexp.MustCompile(`[@$!%*?&]`).MatchString,
		Message: "Password must contain at least one special character (@$!%*?&)",
	},
}

// StrengthResult lists every policy rule a password failed.
type StrengthResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ValidateStrength runs all StrengthRules without short-circuiting.
func ValidateStrength(password string) StrengthResult {
	errs := []string{}
	for _, rule := range StrengthRules {
		if !rule.Check(password) {
			errs = append(errs, rule.Message)
		}
	}
	return StrengthResult{IsValid: len(errs) == 0, Errors: errs}
}

// PasswordHasher hashes and verifies passwords with bcrypt at a fixed cost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher. The cost is expected to be
// within bcrypt.MinCost and bcrypt.MaxCost; config.Load enforces that.
func NewPasswordHasher(cost int) *PasswordHasher {
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt encoding of password, salt and cost included. Only
// the first 72 bytes of password contribute to the hash.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Compare reports whether password matches hash. A mismatch is not an error;
// a hash that cannot be parsed is.
func (h *PasswordHasher) Compare(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("comparing password: %w", err)
}

func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) > maxBcryptBytes {
		b = b[:maxBcryptBytes]
	}
	return b
}
