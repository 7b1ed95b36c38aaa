package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"
)

// PNG returns a small valid PNG image.
func PNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(2, 2, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// File is one upload of a multipart form.
type File struct {
	Field    string
	Filename string
	Data     []byte
}

// MultipartBody encodes fields and files as multipart/form-data and returns
// the body with its content type.
func MultipartBody(t *testing.T, fields map[string]string, files ...File) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		require.NoError(t, err)
		_, err = part.Write(f.Data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

// FileHeaders parses files back into headers as a server would see them.
func FileHeaders(t *testing.T, files ...File) map[string][]*multipart.FileHeader {
	t.Helper()
	body, contentType := MultipartBody(t, nil, files...)
	_, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File
}
