package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/metrics"
)

const maxBodyBytes = 1 << 20

// errBadRequest marks failures to read the request itself. Its message is
// safe to return to the client.
type errBadRequest struct {
	msg string
}

func (e *errBadRequest) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &errBadRequest{msg: fmt.Sprintf(format, args...)}
}

// decodeJSON reads a single JSON object from the body into dst. Fields dst
// does not declare are ignored, so clients may send back whole views.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)

	err := decoder.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return badRequest("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return badRequest("Request body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			return badRequest("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return badRequest("Request body must not be empty")
		case errors.As(err, &maxBytesError):
			return badRequest("Request body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return fmt.Errorf("decode request body: %w", err)
		}
	}

	if decoder.More() {
		return badRequest("Request body must only contain a single JSON object")
	}
	return nil
}

// pathID parses a positive numeric URL parameter.
func pathID(r *http.Request, name, invalidMsg string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 0)
	if err != nil || id == 0 {
		return 0, badRequest("%s", invalidMsg)
	}
	return uint(id), nil
}

// respondWithFailure renders err. Domain and request errors become 400 with
// their message; anything else is logged and hidden behind a 500.
func (s *Server) respondWithFailure(w http.ResponseWriter, r *http.Request, err error) {
	if de, ok := domain.AsError(err); ok {
		metrics.RecordDomainError(domain.KindName(de))
		respondWithError(w, http.StatusBadRequest, de.Message())
		return
	}

	var br *errBadRequest
	if errors.As(err, &br) {
		metrics.RecordDomainError("bad_request")
		respondWithError(w, http.StatusBadRequest, br.msg)
		return
	}

	s.logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"route", metrics.RoutePattern(r),
		"error", err,
	)
	respondWithError(w, http.StatusInternalServerError, "Internal server error")
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondEmpty writes a 200 with no body.
func respondEmpty(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}
