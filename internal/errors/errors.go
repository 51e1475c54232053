package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type ErrorCode string

const (
	CodeInternal   ErrorCode = "INTERNAL_ERROR"
	CodeValidation ErrorCode = "VALIDATION_ERROR"
	CodeBadRequest ErrorCode = "BAD_REQUEST"
	CodeNotFound   ErrorCode = "NOT_FOUND"
	CodeConflict   ErrorCode = "CONFLICT"
	CodeImport     ErrorCode = "IMPORT_ERROR"
	CodeDecode     ErrorCode = "DECODE_ERROR"
	CodeUpstream   ErrorCode = "UPSTREAM_ERROR"
	CodeRateLimit  ErrorCode = "RATE_LIMIT_EXCEEDED"
)

// AppError is the single error type that crosses package boundaries. Detail
// is the user-facing message serialized on the wire; Cause stays server-side.
type AppError struct {
	Code       ErrorCode
	Detail     string
	StatusCode int
	Cause      error
	Timestamp  time.Time
	RequestID  string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, detail string) *AppError {
	return &AppError{
		Code:       code,
		Detail:     detail,
		StatusCode: statusCode(code),
		Timestamp:  time.Now().UTC(),
	}
}

func Wrap(err error, code ErrorCode, detail string) *AppError {
	e := New(code, detail)
	e.Cause = err
	return e
}

func Internal(detail string) *AppError {
	return New(CodeInternal, detail)
}

func InternalWrap(err error, detail string) *AppError {
	return Wrap(err, CodeInternal, detail)
}

func Validation(detail string) *AppError {
	return New(CodeValidation, detail)
}

func ValidationWrap(err error, detail string) *AppError {
	return Wrap(err, CodeValidation, detail)
}

func BadRequest(detail string) *AppError {
	return New(CodeBadRequest, detail)
}

func NotFound(detail string) *AppError {
	return New(CodeNotFound, detail)
}

func Conflict(detail string) *AppError {
	return New(CodeConflict, detail)
}

func Import(detail string) *AppError {
	return New(CodeImport, detail)
}

func ImportWrap(err error, detail string) *AppError {
	return Wrap(err, CodeImport, detail)
}

func Decode(detail string) *AppError {
	return New(CodeDecode, detail)
}

func Upstream(detail string) *AppError {
	return New(CodeUpstream, detail)
}

func UpstreamWrap(err error, detail string) *AppError {
	return Wrap(err, CodeUpstream, detail)
}

func RateLimit(detail string) *AppError {
	return New(CodeRateLimit, detail)
}

func statusCode(code ErrorCode) int {
	switch code {
	case CodeValidation, CodeBadRequest, CodeImport:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeRateLimit:
		return http.StatusTooManyRequests
	case CodeUpstream, CodeDecode:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// detailResponse matches the error body of the original API: a bare detail
// string, nothing else.
type detailResponse struct {
	Detail string `json:"detail"`
}

func WriteError(w http.ResponseWriter, logger *slog.Logger, err error, requestID string) {
	var appErr *AppError

	switch e := err.(type) {
	case *AppError:
		appErr = e
	default:
		appErr = InternalWrap(err, "An unexpected error occurred")
	}

	appErr.RequestID = requestID

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)

	if encodeErr := json.NewEncoder(w).Encode(detailResponse{Detail: appErr.Detail}); encodeErr != nil {
		logger.Error("failed to encode error response",
			"encode_error", encodeErr,
			"original_error", err,
			"request_id", requestID,
		)
		return
	}

	logLevel := slog.LevelError
	if appErr.StatusCode < 500 {
		logLevel = slog.LevelWarn
	}

	logger.Log(context.TODO(), logLevel, "request failed",
		"error_code", appErr.Code,
		"detail", appErr.Detail,
		"status_code", appErr.StatusCode,
		"request_id", requestID,
		"cause", appErr.Cause,
	)
}

// WriteJSON writes a payload as-is. The API serves bare resources, not an
// envelope, to stay wire-compatible with the service it replaced.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func WriteJSONWithHeaders(w http.ResponseWriter, status int, data any, headers map[string]string) {
	for key, value := range headers {
		w.Header().Set(key, value)
	}
	WriteJSON(w, status, data)
}
