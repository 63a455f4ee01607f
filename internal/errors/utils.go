package errors

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// sanitizes error messages for production
func sanitizeError(err error) string {
	return classifyError(err).sanitized
}

// returns the message safe to show a client, for non-HTTP transports
func Sanitize(err error) string {
	return sanitizeError(err)
}

// returns the category of err, used for log fields
func Category(err error) string {
	return classifyError(err).category
}

// analyzes an error and returns its category and sanitized message
func classifyError(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{CategoryUnknown, ""}
	}

	isProduction := os.Getenv("ENVIRONMENT") == "production"

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ErrorInfo{CategoryDatabase, ternary(isProduction, "database operation failed", err.Error())}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrorInfo{CategoryNotFound, ternary(isProduction, "resource not found", err.Error())}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorInfo{CategoryTimeout, ternary(isProduction, "request timed out", err.Error())}
	}

	if errors.Is(err, context.Canceled) {
		return ErrorInfo{CategoryTimeout, ternary(isProduction, "request canceled", err.Error())}
	}

	errMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline"):
		return ErrorInfo{CategoryTimeout, ternary(isProduction, "request timed out", err.Error())}
	case strings.Contains(errMsg, "not found") || strings.Contains(errMsg, "no rows"):
		return ErrorInfo{CategoryNotFound, ternary(isProduction, "resource not found", err.Error())}
	case strings.Contains(errMsg, "database") || strings.Contains(errMsg, "sql") ||
		strings.Contains(errMsg, "postgres") || strings.Contains(errMsg, "pgx"):
		return ErrorInfo{CategoryDatabase, ternary(isProduction, "database operation failed", err.Error())}
	case strings.Contains(errMsg, "api request failed") || strings.Contains(errMsg, "status code"):
		return ErrorInfo{CategoryUpstream, ternary(isProduction, "upstream service error", err.Error())}
	case strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "network") ||
		strings.Contains(errMsg, "dial"):
		return ErrorInfo{CategoryNetwork, ternary(isProduction, "connection error occurred", err.Error())}
	case strings.Contains(errMsg, "validation") || strings.Contains(errMsg, "binding") ||
		strings.Contains(errMsg, "invalid") || strings.Contains(errMsg, "required"):
		return ErrorInfo{CategoryValidation, ternary(isProduction, "validation failed", err.Error())}
	case strings.Contains(errMsg, "unauthorized") || strings.Contains(errMsg, "forbidden") ||
		strings.Contains(errMsg, "permission") || strings.Contains(errMsg, "token"):
		return ErrorInfo{CategoryAuth, ternary(isProduction, "permission denied", err.Error())}
	}

	return ErrorInfo{CategoryUnknown, ternary(isProduction, "an error occurred", err.Error())}
}

// ternary helper for cleaner conditional assignment
func ternary(condition bool, trueVal, falseVal string) string {
	if condition {
		return trueVal
	}

	return falseVal
}
