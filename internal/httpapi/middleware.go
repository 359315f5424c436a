package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
)

type contextKey string

const employeeKey contextKey = "employee"

// maxLoggedData is the width of the activity log data column.
const maxLoggedData = 250

// EmployeeFromContext returns the authenticated employee name.
func EmployeeFromContext(ctx context.Context) string {
	name, _ := ctx.Value(employeeKey).(string)
	return name
}

// WithEmployee stores the employee name in ctx.
func WithEmployee(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, employeeKey, name)
}

// Authenticate validates the HS256 bearer token and stores the employee name from
// the "username" claim, or "sub" when absent.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				sendErrorResponse(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
				return
			}

			claims := jwt.MapClaims{}
			_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
				return secret, nil
			})
			if err != nil {
				sendErrorResponse(w, http.StatusUnauthorized, "Given token not valid.")
				return
			}

			name, _ := claims["username"].(string)
			if name == "" {
				name, _ = claims.GetSubject()
			}
			if name == "" {
				sendErrorResponse(w, http.StatusUnauthorized, "Token has no user identity.")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithEmployee(r.Context(), name)))
		})
	}
}

// RequestID assigns a UUID request ID unless the client sent one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestLogger logs one line per request.
func RequestLogger(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			entry := logger.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
			})
			if ww.Status() >= http.StatusInternalServerError {
				entry.Warn("request completed")
				return
			}
			entry.Info("request completed")
		})
	}
}

// ActivityRecorder persists activity log entries.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, entry *domain.LogEntry) error
}

// Monitor writes one activity log entry per call of the wrapped handler. The entry
// is written after the response; a failed write is logged and does not affect it.
func Monitor(recorder ActivityRecorder, logger logrus.FieldLogger, action domain.Action, handler string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			var body []byte
			if r.Body != nil {
				var err error
				body, err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
				if err != nil {
					if isBodyTooLarge(err) {
						sendErrorResponse(w, http.StatusRequestEntityTooLarge, bodyTooLargeMessage)
						return
					}
					sendErrorResponse(w, http.StatusBadRequest, "Failed to read request body.")
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := domain.LogStatusSuccess
			if ww.Status() >= http.StatusBadRequest {
				status = domain.LogStatusFailed
			}

			entry := &domain.LogEntry{
				Action:   action.String(),
				Function: handler,
				Duration: time.Since(start).Seconds(),
				Data:     truncate(requestData(r, body), maxLoggedData),
				User:     EmployeeFromContext(r.Context()),
				Status:   status,
			}
			if err := recorder.RecordActivity(context.WithoutCancel(r.Context()), entry); err != nil {
				logger.WithError(err).WithFields(logrus.Fields{
					"request_id": middleware.GetReqID(r.Context()),
					"action":     entry.Action,
				}).Error("failed to record activity")
			}
		})
	}
}

// requestData describes the call: the body when present, otherwise the path.
func requestData(r *http.Request, body []byte) string {
	if len(bytes.TrimSpace(body)) > 0 {
		return string(body)
	}
	return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// recoverer converts panics into a 500 response.
func recoverer(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				logger.WithFields(logrus.Fields{
					"request_id": middleware.GetReqID(r.Context()),
					"panic":      rec,
				}).Error("handler panicked")
				sendErrorResponse(w, http.StatusInternalServerError, internalErrorMessage)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
