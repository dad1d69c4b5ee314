package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/authgate/authgate-go/internal/apperror"
	"github.com/authgate/authgate-go/internal/model"
	"github.com/authgate/authgate-go/internal/repository"
)

// Func is an HTTP handler that reports failures by returning them.
type Func func(w http.ResponseWriter, r *http.Request) error

// ErrorHandler is the single place where errors become HTTP responses.
type ErrorHandler struct {
	development bool
	logger      *slog.Logger
}

// NewErrorHandler creates an ErrorHandler. In development mode raw errors are
// logged and stack traces are added to the response body.
func NewErrorHandler(development bool, logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{development: development, logger: logger}
}

// Wrap adapts fn to http.HandlerFunc, forwarding any returned error.
func (h *ErrorHandler) Wrap(fn Func) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.ServeError(w, r, err)
		}
	}
}

// Classification is the outcome of mapping an error onto the response table.
type Classification struct {
	Kind    apperror.Kind
	Status  int
	Message string
	Details any
}

// Classify maps err to a status and client-safe message. Checks run in
// order: explicit API error, unique violation, record-to-update not found,
// anything else.
func Classify(err error) Classification {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return Classification{
			Kind:    apperror.KindOperational,
			Status:  appErr.StatusCode,
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}

	if repoErr, ok := repository.KindOf(err); ok {
		switch repoErr.Kind {
		case repository.KindUniqueViolation:
			msg := "Resource already exists"
			if repoErr.Mentions("email") {
				msg = "Email address is already registered"
			}
			return Classification{Kind: apperror.KindConflict, Status: http.StatusConflict, Message: msg}
		case repository.KindRecordNotFound:
			return Classification{Kind: apperror.KindNotFound, Status: http.StatusNotFound, Message: "Resource not found"}
		}
	}

	return Classification{
		Kind:    apperror.KindUnknown,
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
	}
}

// ServeError writes the JSON envelope for err.
func (h *ErrorHandler) ServeError(w http.ResponseWriter, r *http.Request, err error) {
	c := Classify(err)

	resp := model.APIResponse{
		Success: false,
		Message: c.Message,
	}
	if c.Details != nil {
		resp.Error = c.Details
	}

	if h.development {
		h.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", c.Status,
			"kind", c.Kind.String(),
			"error", err,
		)
		stack, origin := stackOf(err)
		resp.Error = withStack(c.Details, stack, origin)
	} else if c.Kind == apperror.KindUnknown {
		h.logger.Error("unhandled error",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}

	writeJSON(w, c.Status, resp)
}

// NotFound answers requests that matched no route.
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.ServeError(w, r, apperror.NotFound(fmt.Sprintf("Route %s not found", r.URL.RequestURI())))
}

// MethodNotAllowed answers requests whose path matched with another method.
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.ServeError(w, r, apperror.New(http.StatusMethodNotAllowed,
		fmt.Sprintf("Method %s not allowed on %s", r.Method, r.URL.Path)))
}

// Stack origins reported next to a development stack trace. Errors that do not
// record where they were built get the error handler's own stack instead.
const (
	stackFromError   = "error"
	stackFromHandler = "handler"
)

func stackOf(err error) (string, string) {
	var st interface{ Stack() string }
	if errors.As(err, &st) {
		if s := st.Stack(); s != "" {
			return s, stackFromError
		}
	}
	return string(debug.Stack()), stackFromHandler
}

func withStack(details any, stack, origin string) map[string]any {
	out := map[string]any{}
	switch d := details.(type) {
	case nil:
	case map[string]any:
		for k, v := range d {
			out[k] = v
		}
	default:
		out["details"] = d
	}
	out["stack"] = stack
	out["stackOrigin"] = origin
	return out
}
