// Package services contains the application core: the per-entity
// document transformers and the migration orchestrator that drives an
// end-to-end run against the target store.
//
// The orchestrator reaches infrastructure through the driven ports;
// transformers additionally use the HTML converter and the asset
// pipeline. Shared run state (the existing-ID set, reference indexes,
// the converter and asset pipeline) travels in an explicit
// TransformContext instead of package-level caches, so every
// function's dependencies are visible in its signature.
package services
