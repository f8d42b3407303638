package tui

import (
	"time"
)

// Config holds TUI configuration
type Config struct {
	ServerURL       string
	RefreshInterval time.Duration
	User            string
	Password        string
}

// Model represents the TUI state
type Model struct {
	config Config

	// Data from API
	status   *StatusData
	settings []SettingData

	// UI state
	width       int
	height      int
	loading     bool
	err         error
	lastUpdated time.Time

	tableOffset int
}

// StatusData represents controller status from the /status endpoint.
type StatusData struct {
	Anomaly struct {
		Latest float64 `json:"latest"`
		Recent float64 `json:"recent"`
	} `json:"anomaly"`
	CPUPercent float64 `json:"cpu_percent"`
	MemPercent float64 `json:"mem_percent"`
	TickCount  int64   `json:"tick_count"`
}

// SettingData represents one setting from the /settings endpoint.
type SettingData struct {
	ID            string    `json:"id"`
	Options       []float64 `json:"option_values"`
	ChoiceDefault int       `json:"choice_default"`
	Choice        *int      `json:"choice,omitempty"`
}

// NewModel creates a new TUI model
func NewModel(cfg Config) Model {
	return Model{
		config:  cfg,
		loading: true,
	}
}
