// Package webjson reads request bodies and writes the API's JSON envelopes.
// Success responses are {"message": ..., "<entity>": ...}; failures are
// {"message": ..., "error": ...} with the status chosen from the error kind.
package webjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/convenehq/convene/internal/app/system/apperr"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Read decodes the request body into dst, rejecting unknown fields and
// bodies over 1 MiB. Decode failures come back as Invalid errors.
func Read(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Wrap(apperr.Invalid, "invalid request body", err)
	}
	_, _ = io.Copy(io.Discard, r.Body)
	return nil
}

// Write encodes v as the response with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a 200 envelope with a message plus named payload fields.
func OK(w http.ResponseWriter, message string, fields map[string]any) {
	envelope(w, http.StatusOK, message, fields)
}

// Created writes a 201 envelope with a message plus named payload fields.
func Created(w http.ResponseWriter, message string, fields map[string]any) {
	envelope(w, http.StatusCreated, message, fields)
}

func envelope(w http.ResponseWriter, status int, message string, fields map[string]any) {
	body := make(map[string]any, len(fields)+1)
	body["message"] = message
	for k, v := range fields {
		body[k] = v
	}
	Write(w, status, body)
}

// Error writes the failure envelope for err. Internal errors are logged
// with their cause; the caller sees only a generic message.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	status := apperr.Status(kind)

	body := map[string]any{"message": apperr.MessageOf(err)}
	if kind == apperr.Internal {
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		body["error"] = "internal error"
	} else {
		var e *apperr.Error
		if errors.As(err, &e) && e.Err != nil {
			body["error"] = e.Err.Error()
		}
	}
	Write(w, status, body)
}
