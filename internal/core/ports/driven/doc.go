// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - TargetStore: document upsert, batched transaction commit,
//     prefix query and binary asset upload against the target store
//   - AssetCache: persisted sourceURL -> asset ID mapping, the
//     resumability contract between runs
//   - Fetcher: binary download from the legacy host
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or reader package
package driven
