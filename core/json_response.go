package core

import (
	"encoding/json"
	"errors"
	"net/http"
)

// JSON writes v as a JSON response with the given status code.
// Encoding failures are silently dropped since headers are already sent.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes err as a structured error body. HTTPError values keep
// their status code and structured extras; anything else is masked as an
// internal server error so storage faults never leak details to callers.
func JSONError(w http.ResponseWriter, err error) {
	var httpErr HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = ErrInternal
	}

	body := map[string]any{"error": httpErr.Message}
	for k, v := range httpErr.Extra {
		body[k] = v
	}

	JSON(w, httpErr.Code, body)
}

// DecodeJSON reads the request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}
