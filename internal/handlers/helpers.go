package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/valeriaulyamaeva/smart-reminder/internal/middleware"
	"github.com/valeriaulyamaeva/smart-reminder/models"
)

const msgInvalidJSON = "Invalid JSON body"

// Options carries the clock and time zone used for the "must be in the future" rule.
type Options struct {
	Now      func() time.Time
	Location *time.Location
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// validateID parses a positive integer path parameter.
func validateID(idStr string) (int, error) {
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid reminder ID %q", idStr)
	}
	return id, nil
}

// decodeJSONBody decodes the request body into dst and rejects unknown fields.
// An empty body leaves dst untouched.
func decodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}

// writeBodyError answers a body that could not be decoded. Decoder wording is
// only logged; an unknown field is reported by name.
func writeBodyError(w http.ResponseWriter, r *http.Request, err error) {
	logf(r, "decode body: %v", err)
	if field, ok := unknownField(err); ok {
		writeError(w, http.StatusBadRequest, msgInvalidJSON,
			models.FieldError{Field: field, Message: "unknown field"})
		return
	}
	writeError(w, http.StatusBadRequest, msgInvalidJSON)
}

func unknownField(err error) (string, bool) {
	_, rest, ok := strings.Cut(err.Error(), `unknown field "`)
	if !ok {
		return "", false
	}
	field, _, ok := strings.Cut(rest, `"`)
	return field, ok && field != ""
}

// logf prefixes the line with the request id so it matches the access log.
func logf(r *http.Request, format string, args ...interface{}) {
	log.Printf("request_id=%s "+format, append([]interface{}{middleware.RequestIDFromContext(r.Context())}, args...)...)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, fieldErrors ...models.FieldError) {
	writeJSON(w, status, models.ErrorResponse{Message: message, Errors: fieldErrors})
}
