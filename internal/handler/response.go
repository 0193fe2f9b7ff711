package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"go-notes-api/internal/model"
	"go-notes-api/pkg/apierror"
)

// maxBodyBytes caps request bodies; note content is the largest payload.
const maxBodyBytes = 1 << 20

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.Is(err, model.ErrValidation) {
		status = http.StatusBadRequest
		body.Code = "VALIDATION_ERROR"
		body.Message = "Invalid input"
	} else if errors.Is(err, model.ErrDuplicateUser) {
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "User already exists"
	} else if errors.Is(err, model.ErrInvalidCredentials) {
		status = http.StatusUnauthorized
		body.Code = "INVALID_CREDENTIALS"
		body.Message = "Invalid credentials"
	} else if errors.Is(err, model.ErrUnauthorized) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Authentication required"
	} else if errors.Is(err, model.ErrForbidden) {
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Access denied"
	} else if errors.Is(err, model.ErrNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Resource not found"
	} else if errors.Is(err, model.ErrUpstream) {
		status = http.StatusBadGateway
		body.Code = "UPSTREAM_ERROR"
		body.Message = "Upstream request failed"
	} else if errors.Is(err, model.ErrNotImplemented) {
		status = http.StatusNotImplemented
		body.Code = "NOT_IMPLEMENTED"
		body.Message = "Not implemented"
	} else {
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	if status == 0 {
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Message: body.Message,
		Error:   body,
	})
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apierror.Wrap(model.ErrValidation, "PAYLOAD_TOO_LARGE", "request body is too large", "", http.StatusRequestEntityTooLarge)
		}
		if errors.Is(err, io.EOF) {
			return apierror.Wrap(model.ErrValidation, "BAD_REQUEST", "request body is required", "", http.StatusBadRequest)
		}
		return apierror.Wrap(model.ErrValidation, "BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest)
	}
	return nil
}

func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, apierror.Wrap(model.ErrNotFound, "NOT_FOUND", "route not found", "", http.StatusNotFound))
}

func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, apierror.New("METHOD_NOT_ALLOWED", "method not allowed", "", http.StatusMethodNotAllowed))
}
