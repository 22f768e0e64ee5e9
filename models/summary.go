package models

// Tab groups of the summary screen.
const (
	// TabGroupServer is the tab group of the server configuration views.
	TabGroupServer = "server"

	// TabGroupClient is the tab group of the client configuration views.
	TabGroupClient = "client"
)

// TabState tracks the active tab of one tab group.
type TabState struct {
	// ActiveTab is the zero-based index of the active tab
	ActiveTab int `json:"activeTab"`
}

// SummaryState is the externally visible state of the summary screen.
type SummaryState struct {
	// Clusters is the ordered list of known cluster names
	Clusters []string `json:"clusters"`

	// SelectedIndex is the position of the selection in Clusters, -1 if none
	SelectedIndex int `json:"selected_index"`

	// Cluster is the selected cluster, nil if none
	Cluster *Cluster `json:"cluster,omitempty"`

	// HasPojo reports whether the selected cluster has a POJO store
	HasPojo bool `json:"has_pojo"`

	// TabsServer is the state of the server tab group
	TabsServer TabState `json:"tabs_server"`

	// TabsClient is the state of the client tab group
	TabsClient TabState `json:"tabs_client"`
}

// SelectRequest is the body of a selection change.
// An empty body (no name, no index) clears the selection.
type SelectRequest struct {
	// Name selects the cluster with this name
	Name string `json:"name,omitempty"`

	// Index selects the cluster at this position
	Index *int `json:"index,omitempty"`
}

// TabRequest is the body of a tab change.
type TabRequest struct {
	// ActiveTab is the requested tab index
	ActiveTab *int `json:"active_tab" binding:"required"`
}
