package sdk

import "gridcfg.io/console/models"

// The wire types are shared with the server.
type (
	// Cluster is a cluster definition of the catalogue.
	Cluster = models.Cluster

	// SummaryState is the selection and tab state of a session.
	SummaryState = models.SummaryState

	// ExportPayload overrides the derived Dockerfile and POJO classes of an export.
	ExportPayload = models.ExportPayload

	// ExportRecord is one entry of the export history.
	ExportRecord = models.ExportRecord
)

// Tab groups accepted by SetTab.
const (
	TabGroupServer = models.TabGroupServer
	TabGroupClient = models.TabGroupClient
)

// ImportResult summarizes a catalogue import.
type ImportResult struct {
	// Created is the number of clusters that did not exist before
	Created int `json:"created"`

	// Updated is the number of existing clusters whose definition was replaced
	Updated int `json:"updated"`
}

// Bundle is a downloaded configuration archive.
type Bundle struct {
	// FileName is the suggested file name, "<cluster>-configuration.zip"
	FileName string

	// ETag identifies the archive content
	ETag string

	// Data is the zip archive
	Data []byte
}

// ValidationResult is the server verdict on an uploaded archive.
type ValidationResult struct {
	Valid bool     `json:"valid"`
	Error string   `json:"error,omitempty"`
	Files []string `json:"files,omitempty"`
	Size  int64    `json:"size"`
}

// HealthStatus is the readiness report of one console instance.
type HealthStatus = models.HealthResponse

// apiError is the error envelope returned by the server.
type apiError = models.ErrorResponse
