package models

import "time"

// ExportPayload is the side payload of a bundle export.
//
// It is normally derived from the cluster by the default generators, but API
// clients may supply their own to override the Dockerfile or POJO sources.
type ExportPayload struct {
	// Docker is the Dockerfile body
	Docker string `json:"docker"`

	// Metadatas are the generated key/value classes, in archive order
	Metadatas []PojoMetadata `json:"metadatas,omitempty"`
}

// ExportRecord is the audit row written for every produced archive.
type ExportRecord struct {
	// ID is the auto-incremented record identifier
	ID int64 `json:"id" db:"id"`

	// SessionID is the session that requested the export (empty for direct exports)
	SessionID string `json:"session_id,omitempty" db:"session_id"`

	// ClusterName is the exported cluster
	ClusterName string `json:"cluster_name" db:"cluster_name"`

	// FileName is the archive file name offered to the user
	FileName string `json:"file_name" db:"file_name"`

	// Entries is the number of files in the archive
	Entries int `json:"entries" db:"entries"`

	// SizeBytes is the size of the serialized archive
	SizeBytes int64 `json:"size_bytes" db:"size_bytes"`

	// CreatedAt is the timestamp of the export
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ExportHistoryResponse represents the response for listing recent exports.
type ExportHistoryResponse struct {
	// Exports is the list of export records, newest first
	Exports []ExportRecord `json:"exports"`
}
