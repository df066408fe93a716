package utils

import (
	"estately/apperrors"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces a bcrypt hash for storage
func HashPassword(password string) (string, *apperrors.AppError) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.New(apperrors.ErrCodeInternal, "Failed to hash password", 500).WithInternal(err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
