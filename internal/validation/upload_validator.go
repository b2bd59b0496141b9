// Package validation checks uploads before they reach the parsing pipeline,
// so obviously wrong files are rejected with a precise reason instead of a
// generic decode failure.
package validation

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// AllowedExtensions are the workbook formats the importer accepts.
var AllowedExtensions = []string{".xlsx", ".xlsm"}

// zipMagic is the PK header every OOXML workbook starts with.
var zipMagic = []byte{0x50, 0x4B}

// UploadValidator vets uploaded workbook files: name, size, and magic bytes.
type UploadValidator struct {
	maxBytes int64
	logger   *slog.Logger
}

// NewUploadValidator creates a validator enforcing the given size cap.
func NewUploadValidator(maxBytes int64, logger *slog.Logger) *UploadValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadValidator{
		maxBytes: maxBytes,
		logger:   logger.With(slog.String("component", "upload_validator")),
	}
}

// ValidateName checks the upload's filename extension.
func (v *UploadValidator) ValidateName(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	v.logger.Warn("rejected upload by extension",
		slog.String("filename", filename),
		slog.String("extension", ext))
	return fmt.Errorf("unsupported file type %q: expected one of %s", ext, strings.Join(AllowedExtensions, ", "))
}

// ValidateSize checks the declared upload size against the cap. A size of
// zero means unknown and passes; the HTTP layer still enforces the hard
// body limit.
func (v *UploadValidator) ValidateSize(size int64) error {
	if size <= 0 {
		return nil
	}
	if size > v.maxBytes {
		v.logger.Warn("rejected upload by size",
			slog.Int64("size", size),
			slog.Int64("max", v.maxBytes))
		return fmt.Errorf("file too large: %d bytes exceeds the %d byte limit", size, v.maxBytes)
	}
	return nil
}

// ValidateHeader checks the file's leading bytes for the zip signature all
// xlsx workbooks carry. Pass the first bytes of the stream; fewer than two
// bytes always fails.
func (v *UploadValidator) ValidateHeader(head []byte) error {
	if len(head) < len(zipMagic) || !bytes.Equal(head[:len(zipMagic)], zipMagic) {
		v.logger.Warn("rejected upload by signature")
		return fmt.Errorf("not an Excel workbook: missing OOXML signature")
	}
	return nil
}
