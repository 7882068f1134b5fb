package convert

import (
	"github.com/hifiworks/sanity-migrate/internal/core/domain"
	"github.com/hifiworks/sanity-migrate/internal/logger"
)

// ConvertGallery builds an ImageSliderBlock from legacy gallery image
// references. A slider is only emitted when at least
// domain.MinSliderImages images resolve to uploaded assets; otherwise
// the whole gallery is dropped with a logged reason, never degraded to
// a shorter slider.
func (c *Converter) ConvertGallery(sources []string) (*domain.ImageSliderBlock, bool) {
	var images []domain.ImageBlock
	for _, src := range sources {
		if src == "" {
			continue
		}
		assetID := ""
		if c.cfg.ResolveImage != nil {
			assetID = c.cfg.ResolveImage(src)
		}
		if assetID == "" {
			logger.Debug("gallery image unresolved: %s", src)
			continue
		}
		images = append(images, domain.ImageBlock{
			Key:   newKey(),
			Asset: domain.AssetRef{ID: assetID},
		})
	}

	if len(images) < domain.MinSliderImages {
		logger.Warn("gallery dropped: %d of %d images resolved, need %d",
			len(images), len(sources), domain.MinSliderImages)
		return nil, false
	}

	return &domain.ImageSliderBlock{Key: newKey(), Images: images}, true
}
