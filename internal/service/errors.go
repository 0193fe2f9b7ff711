package service

import (
	"log/slog"
	"net/http"

	"go-notes-api/internal/model"
	"go-notes-api/pkg/apierror"
)

func validationError(message string, err error) *apierror.APIError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return apierror.Wrap(model.ErrValidation, "VALIDATION_ERROR", message, details, http.StatusBadRequest)
}

func duplicateUserError(username string) *apierror.APIError {
	return apierror.Wrap(model.ErrDuplicateUser, "ALREADY_EXISTS", "username is already in use", username, http.StatusConflict)
}

func invalidCredentialsError() *apierror.APIError {
	return apierror.Wrap(model.ErrInvalidCredentials, "INVALID_CREDENTIALS", "invalid username or password", "", http.StatusUnauthorized)
}

func forbiddenError(message string) *apierror.APIError {
	return apierror.Wrap(model.ErrForbidden, "FORBIDDEN", message, "", http.StatusForbidden)
}

func noteNotFoundError(id string) *apierror.APIError {
	return apierror.Wrap(model.ErrNoteNotFound, "NOT_FOUND", "note not found", id, http.StatusNotFound)
}

func userNotFoundError() *apierror.APIError {
	return apierror.Wrap(model.ErrUserNotFound, "NOT_FOUND", "user not found", "", http.StatusNotFound)
}

// storeUnavailable logs the driver error and hands the client only the
// failing operation.
func storeUnavailable(op string, err error) *apierror.APIError {
	slog.Error("store operation failed", "op", op, "error", err)
	return apierror.Wrap(model.ErrStoreUnavailable, "STORE_UNAVAILABLE", "storage is temporarily unavailable", op, http.StatusInternalServerError)
}
