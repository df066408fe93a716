package handlers

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"estately/apperrors"

	_ "golang.org/x/image/webp"
)

const (
	MaxImageSize      = 5 * 1024 * 1024
	MaxImageDimension = 4096
)

// AllowedImageExtensions whitelist for property photos
var AllowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MagicBytes defines the first bytes of valid image formats
var MagicBytes = map[string][]byte{
	"image/jpeg": {0xFF, 0xD8, 0xFF},
	"image/png":  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	"image/gif":  {0x47, 0x49, 0x46, 0x38},
	"image/webp": {0x52, 0x49, 0x46, 0x46}, // RIFF container
}

// ImageInfo describes a validated upload
type ImageInfo struct {
	Format string
	Width  int
	Height int
	Size   int64
}

// ValidateImageUpload checks that the upload is a real, reasonably sized
// image. The content itself is discarded after validation; property photos
// are never stored or displayed.
func ValidateImageUpload(fileHeader *multipart.FileHeader) (*ImageInfo, error) {
	if fileHeader.Size > MaxImageSize {
		return nil, apperrors.NewFileTooLarge(MaxImageSize)
	}
	if fileHeader.Size == 0 {
		return nil, apperrors.NewValidationError("Empty file uploaded")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !AllowedImageExtensions[ext] {
		allowed := make([]string, 0, len(AllowedImageExtensions))
		for e := range AllowedImageExtensions {
			allowed = append(allowed, e)
		}
		return nil, apperrors.NewInvalidFileType(allowed)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to open uploaded file").WithInternal(err)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to read uploaded file").WithInternal(err)
	}

	declaredMIME := fileHeader.Header.Get("Content-Type")
	if !validateMagicBytes(content, declaredMIME) {
		return nil, apperrors.NewValidationError("File content does not match declared type")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return nil, apperrors.NewValidationError("File is not a valid image or is corrupted")
	}

	if cfg.Width > MaxImageDimension || cfg.Height > MaxImageDimension {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("Image dimensions exceed maximum allowed size (%dx%d)",
				MaxImageDimension, MaxImageDimension))
	}

	return &ImageInfo{
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Size:   fileHeader.Size,
	}, nil
}

// validateMagicBytes checks if file content starts with expected magic bytes
func validateMagicBytes(content []byte, mimeType string) bool {
	expected, exists := MagicBytes[mimeType]
	if !exists {
		return false
	}

	if len(content) < len(expected) {
		return false
	}

	// WebP carries its marker at offset 8 inside the RIFF container
	if mimeType == "image/webp" {
		if len(content) < 12 {
			return false
		}
		return bytes.Equal(content[0:4], expected) &&
			bytes.Equal(content[8:12], []byte("WEBP"))
	}

	return bytes.Equal(content[0:len(expected)], expected)
}
