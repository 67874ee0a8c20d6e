package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Slug  string `json:"slug" binding:"required,slug"`
	Email string `json:"email" binding:"omitempty,email"`
	Order int    `json:"displayOrder" binding:"gte=0"`
}

func TestSlugRule(t *testing.T) {
	v := Engine()

	require.NoError(t, v.Struct(sample{Slug: "hello-world-2"}))

	err := v.Struct(sample{Slug: "Hello World", Email: "nope", Order: -1})
	require.Error(t, err)

	errs := Errors(err)
	assert.Equal(t, "slug", errs["slug"])
	assert.Equal(t, "email", errs["email"])
	assert.Equal(t, "gte=0", errs["displayOrder"])
}

func TestErrors_NonValidation(t *testing.T) {
	assert.Nil(t, Errors(assert.AnError))
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello, World!":       "hello-world",
		"  Trailing dash -- ": "trailing-dash",
		"2024 Annual Report":  "2024-annual-report",
		"مرحبا":               "",
		"Already-a-slug":      "already-a-slug",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestIsSlug(t *testing.T) {
	assert.True(t, IsSlug("a-b-c"))
	assert.False(t, IsSlug("a--b"))
	assert.False(t, IsSlug("-a"))
	assert.False(t, IsSlug(""))
}
