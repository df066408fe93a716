package logger

import (
	"estately/apperrors"
)

// LogAppError logs an AppError with its structured context
func LogAppError(err error, level Level) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		WithFields(appErr.LogFields()).log(level, appErr.Message)
	} else {
		WithError(err).log(level, "Unstructured error occurred")
	}
}
