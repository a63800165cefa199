package models

import "fmt"

// UniverseRecord is one row of the reference universe file.
type UniverseRecord struct {
	Ticker     string `json:"Ticker"`
	Symbol     string `json:"Symbol"`
	Name       string `json:"Name,omitempty"`
	Sector     string `json:"Sector"`
	AssetClass string `json:"AssetClass"`
}

// Objective selects the optimization target.
type Objective string

const (
	ObjectiveSharpe      Objective = "sharpe"
	ObjectiveMinVol      Objective = "vol"
	ObjectiveMinDrawdown Objective = "mdd"
)

// Universe size bounds for an optimization request.
const (
	MinUniverseSize = 2
	MaxUniverseSize = 50
)

// UniverseFilter describes the candidate universe for an optimization
// request. Field names are the wire contract.
type UniverseFilter struct {
	Sectors      []string  `json:"sectors"`
	AssetClasses []string  `json:"asset_classes"`
	NumStocks    int       `json:"num_stocks"`
	Objective    Objective `json:"objective"`
}

// Validate rejects structurally invalid filters. It performs no I/O so
// the check always runs before any data is fetched.
func (f UniverseFilter) Validate() error {
	if len(f.Sectors) == 0 {
		return &InvalidFilterError{Reason: "at least one sector is required"}
	}
	if len(f.AssetClasses) == 0 {
		return &InvalidFilterError{Reason: "at least one asset class is required"}
	}
	if f.NumStocks < MinUniverseSize || f.NumStocks > MaxUniverseSize {
		return &InvalidFilterError{Reason: fmt.Sprintf("num_stocks must be between %d and %d, got %d",
			MinUniverseSize, MaxUniverseSize, f.NumStocks)}
	}
	switch f.Objective {
	case ObjectiveSharpe, ObjectiveMinVol, ObjectiveMinDrawdown:
	default:
		return &InvalidFilterError{Reason: fmt.Sprintf("unsupported objective %q", f.Objective)}
	}
	return nil
}
