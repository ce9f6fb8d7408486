package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sagarc03/dropzone"
	"github.com/sagarc03/dropzone/router"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response and finalizes it.
func WriteJSON(res *router.Response, code int, data any) error {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(code)
	defer res.End()
	return json.NewEncoder(res).Encode(data)
}

// WriteError writes a JSON error response
func WriteError(res *router.Response, code int, errCode, message string) {
	if err := WriteJSON(res, code, ErrorResponse{Error: errCode, Message: message}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError answers an upload failure with a plain text message, the
// format the upload page shows to the user.
func HandleError(err error, res *router.Response, req *router.Request, next router.Next) error {
	code, message := uploadErrorText(err)
	if code >= http.StatusInternalServerError {
		slog.Error("request error", "path", req.OriginalPath(), "error", err)
	} else {
		slog.Debug("request rejected", "path", req.OriginalPath(), "error", err)
	}

	res.Text(code, message)
	next(nil)
	return nil
}

func uploadErrorText(err error) (int, string) {
	switch {
	case errors.Is(err, dropzone.ErrFileMissing):
		return http.StatusBadRequest, `File in parameter "file" not attached`
	case errors.Is(err, dropzone.ErrInvalidFolder):
		return http.StatusBadRequest, `"folder" parameter is not valid`
	case errors.Is(err, dropzone.ErrInvalidFilename):
		return http.StatusBadRequest, "Filename is not valid"
	case errors.Is(err, dropzone.ErrAlreadyExists):
		return http.StatusConflict, "File with given name is exists"
	case errors.Is(err, dropzone.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "File is too large"
	case errors.Is(err, dropzone.ErrInvalidInput):
		return http.StatusBadRequest, "Request is not valid"
	default:
		return http.StatusInternalServerError, "[Unexpected error]: " + err.Error()
	}
}

// HandleAPIError writes a JSON error response based on the error type.
func HandleAPIError(err error, res *router.Response, req *router.Request, next router.Next) error {
	slog.Error("request error", "path", req.OriginalPath(), "error", err)

	switch {
	case errors.Is(err, dropzone.ErrNotFound):
		WriteError(res, http.StatusNotFound, "not_found", "Upload not found")
	case errors.Is(err, dropzone.ErrInvalidInput):
		WriteError(res, http.StatusBadRequest, "invalid_input", "Invalid query")
	case errors.Is(err, dropzone.ErrUnauthorized):
		WriteError(res, http.StatusUnauthorized, "unauthorized", "Access denied")
	default:
		WriteError(res, http.StatusInternalServerError, "internal_error", "Internal server error")
	}

	next(nil)
	return nil
}
