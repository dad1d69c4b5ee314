package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/authgate/authgate-go/internal/apperror"
	"github.com/authgate/authgate-go/internal/validation"
)

const maxBodyBytes = 1 << 20 // 1MB

// Validate returns middleware that checks the JSON body against schema. On
// success the body is replaced by the normalized object; otherwise a 400 is
// sent through errs and the next handler is not called.
func Validate(schema *validation.Schema, errs ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			normalized, err := validateBody(w, r, schema)
			if err != nil {
				errs.ServeError(w, r, err)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(normalized))
			r.ContentLength = int64(len(normalized))
			next.ServeHTTP(w, r)
		})
	}
}

func validateBody(w http.ResponseWriter, r *http.Request, schema *validation.Schema) ([]byte, error) {
	if r.Body == nil {
		r.Body = http.NoBody
	}
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	input, err := decodeJSON(body)
	if err != nil {
		return nil, apperror.BadRequest("Invalid request data")
	}

	out, err := schema.Parse(input)
	if err != nil {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			return nil, apperror.WithDetails(http.StatusBadRequest, "Validation failed", vErr.Fields)
		}
		return nil, apperror.BadRequest("Invalid request data")
	}

	normalized, err := json.Marshal(out)
	if err != nil {
		return nil, apperror.BadRequest("Invalid request data")
	}
	return normalized, nil
}

// decodeJSON reads exactly one JSON value. An empty body decodes as an empty
// object so that the schema reports each missing field.
func decodeJSON(body io.Reader) (any, error) {
	dec := json.NewDecoder(body)

	var input any
	if err := dec.Decode(&input); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	var trailing json.RawMessage
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON body")
	}
	return input, nil
}
