package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveHref(t *testing.T) {
	c := testConverter()

	tests := []struct {
		name string
		href string
		want string
	}{
		{"product shortcode", "[product_link,id=42]", "https://www.example.com/products/reference-amp"},
		{"product shortcode unknown id", "[product_link,id=999]", "#"},
		{"sitetree shortcode", "[sitetree_link,id=7]", "https://www.example.com/about-us"},
		{"sitetree shortcode unknown id", "[sitetree_link,id=999]", "#"},
		{"sitetree space separator", "[sitetree_link id=7]", "https://www.example.com/about-us"},
		{"relative path", "/brands/marantz", "https://legacy.example.com/brands/marantz"},
		{"relative without slash", "contact", "https://legacy.example.com/contact"},
		{"absolute http", "http://other.example.org/x", "http://other.example.org/x"},
		{"absolute https", "https://other.example.org/x", "https://other.example.org/x"},
		{"mailto", "mailto:info@example.com", "mailto:info@example.com"},
		{"tel", "tel:+6493001234", "tel:+6493001234"},
		{"fragment", "#specs", "#specs"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.resolveHref(tt.href))
		})
	}
}
