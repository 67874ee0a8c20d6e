package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathGenerator_Generate(t *testing.T) {
	pg := &PathGenerator{newID: func() string { return "abc" }}

	tests := []struct {
		name         string
		category     string
		originalName string
		mimeType     string
		wantFilename string
		wantPath     string
	}{
		{"default category", "", "photo.JPG", "image/jpeg", "abc.jpg", "general/abc.jpg"},
		{"named category", "blogs", "cover.png", "image/png", "abc.png", "blogs/abc.png"},
		{"extension from mime", "brands", "logo", "image/webp", "abc.webp", "brands/abc.webp"},
		{"traversal stripped", "../../etc", "x.gif", "image/gif", "abc.gif", "etc/abc.gif"},
		{"pdf", "Press Kit", "kit.pdf", "application/pdf", "abc.pdf", "press-kit/abc.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pg.Generate(tt.category, tt.originalName, tt.mimeType)
			assert.Equal(t, tt.wantFilename, got.Filename)
			assert.Equal(t, tt.wantPath, got.StoragePath)
		})
	}
}

func TestPathGenerator_UniqueFilenames(t *testing.T) {
	pg := NewPathGenerator()
	a := pg.Generate("general", "a.png", "image/png")
	b := pg.Generate("general", "a.png", "image/png")

	assert.NotEqual(t, a.Filename, b.Filename)
	assert.True(t, strings.HasPrefix(a.StoragePath, "general/"))
}

func TestSanitizeCategory(t *testing.T) {
	assert.Equal(t, "general", SanitizeCategory("   "))
	assert.Equal(t, "general", SanitizeCategory("///"))
	assert.Equal(t, "team_members", SanitizeCategory("Team_Members"))
}
