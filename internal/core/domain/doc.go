// Package domain defines the core entities of the migration pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ContentBlock and its variants: one unit of rich content
//   - TargetDocument: a fully composed document ready for upsert
//   - ReferenceIndex: legacy parent key -> ordered child keys
//   - MigrationReport: per-record outcomes for one run
//   - SourceRow structs: typed views over parsed legacy rows
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
