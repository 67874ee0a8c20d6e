package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	pdfMagic  = []byte("%PDF-1.7\n")
)

func TestSniffContentType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", jpegMagic, "image/jpeg"},
		{"png", pngMagic, "image/png"},
		{"pdf", pdfMagic, "application/pdf"},
		{"text", []byte("hello world"), "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := bytes.NewReader(tt.data)
			got, err := SniffContentType(reader)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			pos, _ := reader.Seek(0, 1)
			assert.Equal(t, int64(0), pos, "stream should be reset to beginning")
		})
	}
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", ExtensionFor("image/jpeg", "a.jpeg"))
	assert.Equal(t, ".png", ExtensionFor("image/png", "noext"))
	assert.Equal(t, ".webp", ExtensionFor("image/webp; charset=binary", ""))
	assert.Equal(t, ".png", ExtensionFor("image/png", "weird.p$g"))
	assert.Equal(t, "", ExtensionFor("application/x-unknown", ""))
}

func TestIsAllowedMediaType(t *testing.T) {
	assert.True(t, IsAllowedMediaType("image/png"))
	assert.True(t, IsAllowedMediaType("application/pdf"))
	assert.False(t, IsAllowedMediaType("text/plain; charset=utf-8"))
	assert.False(t, IsAllowedMediaType("application/x-msdownload"))
}
