// Package convert transforms legacy CMS HTML fragments into ordered
// sequences of typed content blocks for the target store.
//
// The legacy site's content was authored in a WYSIWYG editor and is
// only ever semi-structured, so the converter scans tags with regular
// expressions rather than building a DOM. That fragility stays an
// implementation detail behind the single Convert entry point: callers
// see only the block-sequence contract.
//
// Conversion order:
//
//  1. Strip HTML comments and pagebreak markers.
//  2. Extract image shortcodes and video iframes, recording offsets,
//     and blank them out of the text stream.
//  3. Extract headings, paragraphs, lists and blockquotes with offsets.
//  4. Merge everything into one sequence ordered by source offset.
//  5. Normalise the heading hierarchy and promote the lead heading.
//  6. Parse inline content into spans with link marks.
//
// Inline <strong> and <em> emphasis is stripped, not converted to
// decorator marks. That is a deliberate, uniform policy: the legacy
// editor sprayed emphasis tags inconsistently enough that carrying
// them over does more harm than losing them.
package convert
