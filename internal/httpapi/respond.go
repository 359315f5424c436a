package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse is the body of actions that report only a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ListResponse is the body of every paginated listing.
type ListResponse[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

const internalErrorMessage = "An internal error occurred."

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names in validation messages
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// writeJSON sends a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// sendErrorResponse sends an error response in the expected format
func sendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Message: message})
}

// handleDomainError converts domain errors to HTTP responses. Unclassified errors are
// logged and reported with a generic message.
func (h *Handler) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"path":       r.URL.Path,
		}).Error("request failed")
		sendErrorResponse(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	switch {
	case errors.Is(domainErr, domain.ErrValidation), errors.Is(domainErr, domain.ErrReferenced):
		sendErrorResponse(w, http.StatusBadRequest, domainErr.Message)
	case errors.Is(domainErr, domain.ErrNotFound):
		sendErrorResponse(w, http.StatusNotFound, domainErr.Message)
	case errors.Is(domainErr, domain.ErrConfiguration):
		h.logger.WithField("request_id", middleware.GetReqID(r.Context())).Error(domainErr.Message)
		sendErrorResponse(w, http.StatusInternalServerError, domainErr.Message)
	default:
		sendErrorResponse(w, http.StatusInternalServerError, internalErrorMessage)
	}
}

// maxBodyBytes caps the size of every request body.
const maxBodyBytes = 1 << 20

const bodyTooLargeMessage = "Request body too large."

func isBodyTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}

// decodeRequest parses a JSON body into dst and runs its validation tags.
// It writes an error response and returns false on failure.
func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if isBodyTooLarge(err) {
			sendErrorResponse(w, http.StatusRequestEntityTooLarge, bodyTooLargeMessage)
			return false
		}
		sendErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse request body: %v", err))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

// validationMessage renders the first failed validation rule.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: This field is required.", fe.Field())
	case "max":
		return fmt.Sprintf("%s: Ensure this field has no more than %s characters.", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s: Date has wrong format. Use YYYY-MM-DD.", fe.Field())
	case "gt":
		return fmt.Sprintf("%s: Ensure this value is greater than %s.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s: Invalid value.", fe.Field())
	}
}
