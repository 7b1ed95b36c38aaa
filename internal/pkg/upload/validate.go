package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxImageSize is the largest accepted upload per file
const MaxImageSize = 10 << 20

var (
	ErrUnsupportedFormat = errors.New("Upload a valid image. Supported formats: JPG, JPEG, PNG, GIF, WEBP.")
	ErrNotAnImage        = errors.New("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	ErrTooLarge          = fmt.Errorf("Upload a valid image. Files larger than %d MB are not accepted.", MaxImageSize>>20)
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidateImageBySniff checks the filename extension and the first bytes (head)
// against the image whitelist. It returns the detected mime type.
func ValidateImageBySniff(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", ErrUnsupportedFormat
	}

	detected := http.DetectContentType(head)
	// SVG and HTML are scriptable, never accept them whatever the extension says
	if strings.HasPrefix(detected, "text/") || strings.Contains(detected, "xml") {
		return "", ErrNotAnImage
	}
	if allowedMime[detected] {
		return detected, nil
	}
	return "", ErrNotAnImage
}

// ValidateFileHeader opens an uploaded multipart file and sniffs its content
func ValidateFileHeader(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxImageSize {
		return "", ErrTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	return ValidateImageBySniff(fh.Filename, head[:n])
}
