package references

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromDocument(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "image blocks in order",
			input: `{"blocks":[{"type":"image","data":{"file":{"url":"/uploads/a.png"}}},{"type":"paragraph","data":{"text":"hi"}},{"type":"image","data":{"file":{"url":"/uploads/b.png"}}}]}`,
			want:  []string{"/uploads/a.png", "/uploads/b.png"},
		},
		{
			name:  "duplicates kept",
			input: `{"blocks":[{"type":"image","data":{"file":{"url":"u"}}},{"type":"image","data":{"file":{"url":"u"}}}]}`,
			want:  []string{"u", "u"},
		},
		{
			name:  "image without file",
			input: `{"blocks":[{"type":"image","data":{"caption":"x"}}]}`,
		},
		{
			name:  "non image block with file",
			input: `{"blocks":[{"type":"attaches","data":{"file":{"url":"/uploads/doc.pdf"}}}]}`,
		},
		{
			name:  "nested blocks ignored",
			input: `{"blocks":[{"type":"columns","data":{"blocks":[{"type":"image","data":{"file":{"url":"x"}}}]}}]}`,
		},
		{name: "malformed", input: "{not json"},
		{name: "wrong shape", input: `{"blocks":"nope"}`},
		{name: "plain text", input: "hello world"},
		{name: "empty", input: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, FromDocument(tt.input))
			})
		})
	}
}

func TestExtract(t *testing.T) {
	assert.Equal(t, []string{"/uploads/logo.png"}, Extract(Direct, " /uploads/logo.png "))
	assert.Nil(t, Extract(Direct, ""))
	assert.Equal(t, []string{"x"}, Extract(RichText, `{"blocks":[{"type":"image","data":{"file":{"url":"x"}}}]}`))
}

func TestDistinct(t *testing.T) {
	got := Distinct([]string{"/uploads/a.png", "https://cdn.example.com/uploads/a.png", "/uploads/b.png"}, func(u string) string {
		return u[strings.LastIndex(u, "/")+1:]
	})
	assert.Equal(t, map[string]string{"a.png": "/uploads/a.png", "b.png": "/uploads/b.png"}, got)
	assert.Empty(t, Distinct(nil, strings.ToLower))
}
