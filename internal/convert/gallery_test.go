package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertGallery_ThresholdMet(t *testing.T) {
	c := testConverter()

	slider, ok := c.ConvertGallery([]string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"})
	require.True(t, ok)
	require.NotNil(t, slider)
	assert.Len(t, slider.Images, 4)
	assert.Equal(t, "image-a.jpg", slider.Images[0].Asset.ID)
}

func TestConvertGallery_BelowThresholdDropped(t *testing.T) {
	c := testConverter()

	slider, ok := c.ConvertGallery([]string{"a.jpg", "b.jpg", "c.jpg"})
	assert.False(t, ok)
	assert.Nil(t, slider)
}

func TestConvertGallery_UnresolvedImagesDontCount(t *testing.T) {
	// Five source rows but only three resolve: the whole gallery is
	// dropped rather than emitted short.
	resolved := map[string]string{"a.jpg": "image-a", "b.jpg": "image-b", "c.jpg": "image-c"}
	c := New(Config{ResolveImage: func(src string) string { return resolved[src] }})

	slider, ok := c.ConvertGallery([]string{"a.jpg", "b.jpg", "c.jpg", "x.jpg", "y.jpg"})
	assert.False(t, ok)
	assert.Nil(t, slider)
}

func TestConvertGallery_EmptySourcesSkipped(t *testing.T) {
	c := testConverter()

	slider, ok := c.ConvertGallery([]string{"a.jpg", "", "b.jpg", "c.jpg", "d.jpg"})
	require.True(t, ok)
	assert.Len(t, slider.Images, 4)
}
