// Package ui implements the interactive summary screen of the gridcfg CLI.
package ui

import (
	"context"

	"gridcfg.io/console/models"
	"gridcfg.io/console/sdk"
)

// Console is the summary session the screen drives. *sdk.Client implements
// it against a server; the CLI also provides a local, catalogue backed one.
type Console interface {
	Summary(ctx context.Context) (*models.SummaryState, error)
	SelectIndex(ctx context.Context, index int) (*models.SummaryState, error)
	ClearSelection(ctx context.Context) (*models.SummaryState, error)
	SetTab(ctx context.Context, group string, index int) (*models.SummaryState, error)
	DownloadBundle(ctx context.Context) (*sdk.Bundle, error)
}

var _ Console = (*sdk.Client)(nil)
