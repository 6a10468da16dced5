// Package errors provides structured application errors for the tradepilot
// API. Service- and adapter-layer code returns AppError sentinels so that
// handlers produce consistent JSON responses without leaking internals.
package errors

import "net/http"

// AppError carries an error code, a user-facing message, the HTTP status to
// respond with, and an optional wrapped internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the sentinel's code/message/status and an
// internal cause attached.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with the sentinel's code and status but
// a custom user-facing message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "인증이 필요합니다", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "이메일 또는 비밀번호가 올바르지 않습니다", StatusCode: http.StatusUnauthorized}
	// ErrInvalidRefreshToken covers expired, malformed, and revoked refresh
	// tokens alike so callers cannot probe which case they hit.
	ErrInvalidRefreshToken = &AppError{Code: "INVALID_REFRESH_TOKEN", Message: "다시 로그인해주세요", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Brokerage settings errors.
var (
	// ErrSettingsNotFound is returned when a user has no settings row at all.
	ErrSettingsNotFound = &AppError{Code: "SETTINGS_NOT_FOUND", Message: "증권사 설정이 없습니다. 전략 관리에서 설정해주세요.", StatusCode: http.StatusBadRequest}
	// ErrBrokerageNotConfigured is returned when the settings row exists but
	// lacks required credential fields.
	ErrBrokerageNotConfigured = &AppError{Code: "BROKERAGE_NOT_CONFIGURED", Message: "증권사 API 정보가 설정되지 않았습니다.", StatusCode: http.StatusBadRequest}
	ErrUnsupportedBrokerage   = &AppError{Code: "UNSUPPORTED_BROKERAGE", Message: "지원하지 않는 증권사입니다", StatusCode: http.StatusBadRequest}
)

// Brokerage adapter errors.
var (
	ErrInvalidAccountFormat = &AppError{Code: "INVALID_ACCOUNT_FORMAT", Message: "계좌번호 형식이 올바르지 않습니다. (XXXXXXXX-XX)", StatusCode: http.StatusBadRequest}
	ErrBrokerageToken       = &AppError{Code: "BROKERAGE_TOKEN", Message: "토큰 발급 실패", StatusCode: http.StatusInternalServerError}
	ErrBrokerageQuery       = &AppError{Code: "BROKERAGE_QUERY", Message: "잔고 조회 실패", StatusCode: http.StatusInternalServerError}
	// ErrBrokerageRejected carries the brokerage's own msg1 via WithMessage.
	ErrBrokerageRejected      = &AppError{Code: "BROKERAGE_REJECTED", Message: "API 오류", StatusCode: http.StatusInternalServerError}
	ErrKiwoomNotImplemented   = &AppError{Code: "BROKERAGE_NOT_IMPLEMENTED", Message: "키움증권 API 연동은 현재 준비 중입니다.", StatusCode: http.StatusInternalServerError}
)

// Holdings sync errors.
var (
	ErrHoldingsDelete = &AppError{Code: "HOLDINGS_DELETE_FAILED", Message: "기존 잔고 삭제 실패", StatusCode: http.StatusInternalServerError}
	ErrHoldingsInsert = &AppError{Code: "HOLDINGS_INSERT_FAILED", Message: "잔고 저장 실패", StatusCode: http.StatusInternalServerError}
)

// Strategy errors.
var (
	ErrStrategyNotFound = &AppError{Code: "STRATEGY_NOT_FOUND", Message: "Strategy not found", StatusCode: http.StatusNotFound}
)
