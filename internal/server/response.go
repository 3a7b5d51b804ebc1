package server

import (
	"encoding/json"
	"net/http"

	errs "github.com/matzehuels/skilltree/pkg/errors"
)

// Response is the envelope of every JSON response.
type Response struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError is the error part of a failed response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// writeError answers with the status for err's code.
func writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), Response{
		Error: &APIError{Code: string(code), Message: errs.UserMessage(err)},
	})
}

func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeNotFound, errs.ErrCodeTreeNotFound, errs.ErrCodeSkillNotFound, errs.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errs.ErrCodeInvalidOperation:
		return http.StatusConflict
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidGraph, errs.ErrCodeInvalidCatalog,
		errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidDirection, errs.ErrCodeInvalidPath,
		errs.ErrCodeCyclicGraph:
		return http.StatusBadRequest
	case errs.ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case errs.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}
