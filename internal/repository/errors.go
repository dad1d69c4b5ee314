package repository

import (
	"errors"
	"slices"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

var ErrUserNotFound = errors.New("user not found")

// Kind is the failure category a write reports to its caller.
type Kind int

const (
	KindUniqueViolation Kind = iota + 1
	KindRecordNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUniqueViolation:
		return "unique constraint violation"
	case KindRecordNotFound:
		return "record to update not found"
	default:
		return "unknown"
	}
}

// Error is a classified write failure. Target names the columns of the
// violated unique key.
type Error struct {
	Kind   Kind
	Target []string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if len(e.Target) > 0 {
		msg += " on (" + strings.Join(e.Target, ", ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Mentions reports whether any target column contains field.
func (e *Error) Mentions(field string) bool {
	return slices.ContainsFunc(e.Target, func(t string) bool {
		return strings.Contains(strings.ToLower(t), field)
	})
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (*Error, bool) {
	var repoErr *Error
	if errors.As(err, &repoErr) {
		return repoErr, true
	}
	return nil, false
}

// classify turns driver errors we know how to name into *Error and leaves
// everything else untouched.
func classify(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return &Error{Kind: KindUniqueViolation, Target: duplicateKeyColumns(myErr.Message), Err: err}
	}
	return err
}

// duplicateKeyColumns extracts the key name from
// "Duplicate entry 'x' for key 'users.email'".
func duplicateKeyColumns(msg string) []string {
	_, key, found := strings.Cut(msg, "for key '")
	if !found {
		return nil
	}
	key, _, _ = strings.Cut(key, "'")
	if i := strings.LastIndex(key, "."); i >= 0 {
		key = key[i+1:]
	}
	if key == "" {
		return nil
	}
	return []string{key}
}
