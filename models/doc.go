// Package models provides shared data structures for the gridcfg project.
//
// This package contains the data models used across the console server,
// client SDK, and CLI. By keeping models in a separate package, they can be
// imported and reused by any component without creating circular dependencies.
//
// The models in this package represent:
//   - Clusters: Named compute-cluster definitions and their caches
//   - Metadata: Key/value type mappings backing POJO stores
//   - Bundles: Export payloads and the audit records of produced archives
//   - Summary: The selection and tab state of the summary screen
//
// All structs include JSON tags for API serialization and documentation comments
// explaining the purpose and constraints of each field.
package models
