package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// Register decoders for the formats the legacy site serves.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

// optimizeImage decodes, resizes within the configured bounds and
// re-encodes as JPEG. Images already within bounds that are JPEG
// stay as-is. Resizing never upscales past the source's native
// dimensions. Undecodable content (SVG, corrupt files) is an error;
// the caller falls back to the original bytes.
func (p *Pipeline) optimizeImage(data []byte) ([]byte, error) {
	if p.opts.MaxWidth <= 0 && p.opts.MaxHeight <= 0 {
		return nil, fmt.Errorf("transcoding disabled")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	targetW, targetH := fitWithin(w, h, p.opts.MaxWidth, p.opts.MaxHeight)
	if targetW == w && targetH == h && format == "jpeg" {
		return nil, fmt.Errorf("already within bounds")
	}

	out := img
	if targetW != w || targetH != h {
		scaled := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)
		out = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: p.opts.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin scales (w, h) down to fit inside (maxW, maxH) preserving
// aspect ratio. A zero bound means unbounded on that axis. Never
// scales up.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && float64(h)*scale > float64(maxH) {
		scale = float64(maxH) / float64(h)
	}
	if scale >= 1.0 {
		return w, h
	}
	outW := int(float64(w) * scale)
	outH := int(float64(h) * scale)
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}
	return outW, outH
}
