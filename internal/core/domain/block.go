package domain

import "encoding/json"

// BlockStyle is the visual style of a text block.
type BlockStyle string

// Supported text block styles. The converter never emits headings deeper
// than H3: legacy levels below the floor are capped at H3.
const (
	StyleNormal     BlockStyle = "normal"
	StyleH2         BlockStyle = "h2"
	StyleH3         BlockStyle = "h3"
	StyleBlockquote BlockStyle = "blockquote"
)

// ListItemKind marks a text block as a list item.
type ListItemKind string

// List item kinds. ListNone means the block is not part of a list.
const (
	ListNone   ListItemKind = ""
	ListBullet ListItemKind = "bullet"
	ListNumber ListItemKind = "number"
)

// VideoProvider identifies a supported video embed host.
type VideoProvider string

// Supported video providers.
const (
	ProviderYouTube VideoProvider = "youtube"
	ProviderVimeo   VideoProvider = "vimeo"
)

// ContentBlock is one unit of rich content produced by the converter.
// It is a closed union: TextBlock, ImageBlock, ImageSliderBlock and
// VideoBlock are the only implementations.
type ContentBlock interface {
	// BlockKey returns the locally-unique key used for stable diffing
	// and editing in the target store.
	BlockKey() string

	json.Marshaler
}

// LinkMark is a mark definition attaching a resolved URL to spans.
type LinkMark struct {
	// Key is referenced from Span.Marks.
	Key string

	// Href is the fully resolved target URL. Unresolvable legacy
	// shortcode links carry the sentinel "#".
	Href string
}

// Span is a run of text within a TextBlock.
type Span struct {
	Key   string
	Text  string
	Marks []string
}

// TextBlock is a paragraph, heading, blockquote or list item.
type TextBlock struct {
	Key      string
	Style    BlockStyle
	ListItem ListItemKind
	MarkDefs []LinkMark
	Spans    []Span
}

// PlainText returns the concatenated span text, used for logging
// and for empty-paragraph detection.
func (b *TextBlock) PlainText() string {
	var out string
	for _, s := range b.Spans {
		out += s.Text
	}
	return out
}

// BlockKey implements ContentBlock.
func (b *TextBlock) BlockKey() string { return b.Key }

// MarshalJSON renders the block in the target store's portable text shape.
func (b *TextBlock) MarshalJSON() ([]byte, error) {
	type spanJSON struct {
		Type  string   `json:"_type"`
		Key   string   `json:"_key"`
		Text  string   `json:"text"`
		Marks []string `json:"marks"`
	}
	type markDefJSON struct {
		Key  string `json:"_key"`
		Type string `json:"_type"`
		Href string `json:"href"`
	}
	type blockJSON struct {
		Type     string        `json:"_type"`
		Key      string        `json:"_key"`
		Style    BlockStyle    `json:"style"`
		ListItem ListItemKind  `json:"listItem,omitempty"`
		Level    int           `json:"level,omitempty"`
		MarkDefs []markDefJSON `json:"markDefs"`
		Children []spanJSON    `json:"children"`
	}

	out := blockJSON{
		Type:     "block",
		Key:      b.Key,
		Style:    b.Style,
		ListItem: b.ListItem,
		MarkDefs: make([]markDefJSON, 0, len(b.MarkDefs)),
		Children: make([]spanJSON, 0, len(b.Spans)),
	}
	if b.ListItem != ListNone {
		out.Level = 1
	}
	for _, m := range b.MarkDefs {
		out.MarkDefs = append(out.MarkDefs, markDefJSON{Key: m.Key, Type: "link", Href: m.Href})
	}
	for _, s := range b.Spans {
		marks := s.Marks
		if marks == nil {
			marks = []string{}
		}
		out.Children = append(out.Children, spanJSON{Type: "span", Key: s.Key, Text: s.Text, Marks: marks})
	}
	return json.Marshal(out)
}

// AssetRef points at an uploaded asset in the target store.
type AssetRef struct {
	ID string
}

// MarshalJSON renders the reference in the target store's asset shape.
func (r AssetRef) MarshalJSON() ([]byte, error) {
	type refJSON struct {
		Type string `json:"_type"`
		Ref  string `json:"_ref"`
	}
	return json.Marshal(struct {
		Type  string  `json:"_type"`
		Asset refJSON `json:"asset"`
	}{Type: "image", Asset: refJSON{Type: "reference", Ref: r.ID}})
}

// ImageBlock is a single inline image.
type ImageBlock struct {
	Key       string
	Asset     AssetRef
	Layout    string
	AutoWidth bool
}

// BlockKey implements ContentBlock.
func (b *ImageBlock) BlockKey() string { return b.Key }

// MarshalJSON implements ContentBlock.
func (b *ImageBlock) MarshalJSON() ([]byte, error) {
	type refJSON struct {
		Type string `json:"_type"`
		Ref  string `json:"_ref"`
	}
	return json.Marshal(struct {
		Type      string  `json:"_type"`
		Key       string  `json:"_key"`
		Asset     refJSON `json:"asset"`
		Layout    string  `json:"layout,omitempty"`
		AutoWidth bool    `json:"autoWidth,omitempty"`
	}{
		Type:      "image",
		Key:       b.Key,
		Asset:     refJSON{Type: "reference", Ref: b.Asset.ID},
		Layout:    b.Layout,
		AutoWidth: b.AutoWidth,
	})
}

// ImageSliderBlock is a gallery of at least MinSliderImages images.
// Galleries that resolve fewer images are dropped entirely by the
// converter, never emitted partially.
type ImageSliderBlock struct {
	Key    string
	Images []ImageBlock
}

// MinSliderImages is the minimum resolved image count for a slider.
const MinSliderImages = 4

// BlockKey implements ContentBlock.
func (b *ImageSliderBlock) BlockKey() string { return b.Key }

// MarshalJSON implements ContentBlock.
func (b *ImageSliderBlock) MarshalJSON() ([]byte, error) {
	type refJSON struct {
		Type string `json:"_type"`
		Ref  string `json:"_ref"`
	}
	type imageJSON struct {
		Type  string  `json:"_type"`
		Key   string  `json:"_key"`
		Asset refJSON `json:"asset"`
	}
	images := make([]imageJSON, 0, len(b.Images))
	for _, img := range b.Images {
		images = append(images, imageJSON{
			Type:  "image",
			Key:   img.Key,
			Asset: refJSON{Type: "reference", Ref: img.Asset.ID},
		})
	}
	return json.Marshal(struct {
		Type   string      `json:"_type"`
		Key    string      `json:"_key"`
		Images []imageJSON `json:"images"`
	}{Type: "imageSlider", Key: b.Key, Images: images})
}

// VideoBlock is an embedded YouTube or Vimeo video.
type VideoBlock struct {
	Key      string
	Provider VideoProvider
	VideoID  string
}

// BlockKey implements ContentBlock.
func (b *VideoBlock) BlockKey() string { return b.Key }

// MarshalJSON implements ContentBlock.
func (b *VideoBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string        `json:"_type"`
		Key      string        `json:"_key"`
		Provider VideoProvider `json:"provider"`
		VideoID  string        `json:"videoId"`
	}{Type: "videoEmbed", Key: b.Key, Provider: b.Provider, VideoID: b.VideoID})
}
