package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error kinds surfaced to clients in ErrorBody.Error.
const (
	KindValidation           = "ValidationError"
	KindInvalidCredentials   = "InvalidCredentials"
	KindAdminAlreadyExists   = "AdminAlreadyExists"
	KindEmailTaken           = "EmailTaken"
	KindNoFile               = "NoFile"
	KindUnauthorized         = "Unauthorized"
	KindForbidden            = "Forbidden"
	KindNotFound             = "NotFound"
	KindUserNotFound         = "UserNotFound"
	KindUnsupportedMediaType = "UnsupportedMediaType"
	KindPayloadTooLarge      = "PayloadTooLarge"
	KindUploadFailed         = "UploadFailed"
	KindUpstreamFailure      = "UpstreamFailure"
	KindTooManyRequests      = "TooManyRequests"
	KindInternal             = "InternalError"
)

// AppError represents a structured application error with HTTP status and error kind.
type AppError struct {
	HTTPStatus int    // HTTP status code (e.g. 400, 404, 500)
	Kind       string // One of the Kind* constants
	Message    string // Human-readable, safe to show to clients
	Err        error  // Underlying cause, logged but never serialized
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on kind so callers can compare against the sentinel constructors.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Pre-defined error constructors

func NewValidation(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Kind: KindValidation, Message: msg}
}

func NewInvalidCredentials() *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Kind: KindInvalidCredentials, Message: "Invalid credentials"}
}

func NewAdminAlreadyExists() *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Kind: KindAdminAlreadyExists, Message: "Admin already exists"}
}

func NewEmailTaken() *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Kind: KindEmailTaken, Message: "Email already registered"}
}

func NewNoFile(field string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Kind: KindNoFile, Message: "no file uploaded in field " + field}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Kind: KindUnauthorized, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Kind: KindForbidden, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Kind: KindNotFound, Message: msg}
}

func NewUserNotFound() *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Kind: KindUserNotFound, Message: "User not found"}
}

func NewUnsupportedMediaType(mime string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Kind: KindUnsupportedMediaType, Message: "Invalid file type " + mime + ". Only images are allowed."}
}

func NewPayloadTooLarge(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusRequestEntityTooLarge, Kind: KindPayloadTooLarge, Message: msg}
}

func NewTooManyRequests() *AppError {
	return &AppError{HTTPStatus: http.StatusTooManyRequests, Kind: KindTooManyRequests, Message: "too many requests, please try again later"}
}

func NewUploadFailed(err error) *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Kind: KindUploadFailed, Message: "image upload failed", Err: err}
}

func NewUpstreamFailure(msg string, err error) *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Kind: KindUpstreamFailure, Message: msg, Err: err}
}

// --- Gin response helpers ---

// Success sends a 200 OK response with the bare document.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 Created response with the bare document.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message sends a 200 OK response carrying only a human-readable message.
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// Error sends an error response. If err is an *AppError, its kind and status
// are used; otherwise a generic 500 is returned and the cause is attached to
// the gin context for the request logger.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			_ = c.Error(appErr.Err)
		}
		c.JSON(appErr.HTTPStatus, ErrorBody{
			Error:   appErr.Kind,
			Message: appErr.Message,
		})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorBody{
		Error:   KindInternal,
		Message: "internal server error",
	})
}

// Abort writes the error response and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
