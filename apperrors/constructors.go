package apperrors

import (
	"github.com/gofiber/fiber/v2"
)

// Store error helpers

func NewStoreError(operation, bucket string, err error) *AppError {
	return New(ErrCodeStoreError, "Storage operation failed", fiber.StatusInternalServerError).
		WithOperation(operation).
		WithDetails("bucket", bucket).
		WithContext("subsystem", "store").
		WithInternal(err)
}

// Session errors

func NewSessionError(operation, sessionID string, err error) *AppError {
	return New(ErrCodeSessionNotFound, "Session operation failed", fiber.StatusUnauthorized).
		WithOperation(operation).
		WithDetails("session_id", maskSessionID(sessionID)).
		WithContext("subsystem", "sessions").
		WithInternal(err)
}

// Collection errors

func NewAlreadyPresent(message string) *AppError {
	return New(ErrCodeAlreadyPresent, message, fiber.StatusConflict)
}

func NewIndexOutOfRange(index, length int) *AppError {
	return New(ErrCodeIndexOutOfRange, "No such entry", fiber.StatusBadRequest).
		WithDetails("index", index).
		WithDetails("length", length)
}

func NewCancelled(operation string) *AppError {
	return New(ErrCodeCancelled, "Cancelled", fiber.StatusOK).
		WithOperation(operation)
}

// Property image errors

func NewInvalidFileType(allowed []string) *AppError {
	return New(ErrCodeInvalidFileType, "Invalid file type", fiber.StatusBadRequest).
		WithDetails("allowed_types", allowed)
}

func NewFileTooLarge(maxSize int64) *AppError {
	return New(ErrCodeFileTooLarge, "File size exceeds limit", fiber.StatusBadRequest).
		WithDetails("max_size_bytes", maxSize)
}

// Helper functions

func maskSessionID(sessionID string) string {
	if len(sessionID) < 8 {
		return "***"
	}
	return sessionID[:4] + "****" + sessionID[len(sessionID)-4:]
}
