// Package httpjson centralizes JSON request decoding and response
// encoding for the API. Every handler speaks the same envelope: list
// and document reads return the value directly; mutations and errors
// return {success, message, ...}.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"
)

// maxBodyBytes caps JSON request bodies. Evidence uploads are multipart
// and have their own limits.
const maxBodyBytes = 1 << 20 // 1 MiB

// Envelope is the {success, message} mutation/error response body.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Decode reads a JSON request body into dst, rejecting unknown garbage
// and oversized bodies.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// A second value means trailing data after the JSON document.
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// Write encodes v as JSON with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with 200.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Success writes a bare {success: true} with 200.
func Success(w http.ResponseWriter) {
	Write(w, http.StatusOK, Envelope{Success: true})
}

// SuccessMessage writes {success: true, message} with 200.
func SuccessMessage(w http.ResponseWriter, message string) {
	Write(w, http.StatusOK, Envelope{Success: true, Message: message})
}

// Error writes {success: false, message} with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, Envelope{Success: false, Message: message})
}

// ServerError writes the generic 500 envelope. Handlers log the real
// error before calling this; the body stays generic.
func ServerError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Server error")
}
