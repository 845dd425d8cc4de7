package atlas

import (
	"fmt"
	"math"
)

// Kind identifies a measurement layer published by the data pipeline.
type Kind string

const (
	// KindTEC is the ionospheric total electron content layer.
	KindTEC Kind = "tec"
	// KindNO2 is the nitrogen dioxide column layer.
	KindNO2 Kind = "no2"
)

// Kinds lists the supported layers in display order.
var Kinds = []Kind{KindTEC, KindNO2}

// ParseKind validates a layer identifier coming from config or the API.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if s == string(k) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown layer kind %q", s)
}

// DatePointer is the latest.json payload: the most recent date for which
// the pipeline is known to have published data.
type DatePointer struct {
	Date string `json:"date"` // YYYYMMDD
}

// CellSize describes the span of one grid cell in degrees.
type CellSize struct {
	DLat float64 `json:"dlat"`
	DLon float64 `json:"dlon"`
}

// ValueRange is the display range for a layer's scalar values.
type ValueRange struct {
	VMin float64 `json:"vmin"`
	VMax float64 `json:"vmax"`
}

// Defaults applied when index.json omits the optional fields. The resolver
// fills these in at parse time so callers never special-case them.
var (
	DefaultCellSize   = CellSize{DLat: 2.0, DLon: 2.0}
	DefaultValueRange = ValueRange{VMin: 0, VMax: 1}
)

// LayerIndex is the per-(date, kind) metadata: which timestamps exist and how
// to draw them. Times is the only field driving the time slider; an empty
// Times is a valid "no data for this slice yet" state, not an error.
type LayerIndex struct {
	Date       string     `json:"date"`
	Kind       Kind       `json:"kind"`
	Times      []string   `json:"times_utc"` // "HHMM", chronological
	Cell       CellSize   `json:"cell"`
	Range      ValueRange `json:"range"`
	Unit       string     `json:"unit"`
	UpdatedUTC string     `json:"updated_utc"` // provenance, display only
}

// Cell is one axis-aligned grid rectangle; (Lat, Lon) is the lower-left
// corner. Val is nil when the producer had no measurement for the cell.
type Cell struct {
	Lat float64  `json:"lat"`
	Lon float64  `json:"lon"`
	Val *float64 `json:"val"`
}

// Value returns the cell's scalar, or NaN when the measurement is missing.
func (c Cell) Value() float64 {
	if c.Val == nil {
		return math.NaN()
	}
	return *c.Val
}

// GridSnapshot is the grid of values for one concrete timestamp. Cell spans
// are derived from the owning LayerIndex's CellSize, not stored per cell.
type GridSnapshot struct {
	TimeUTC string `json:"time_utc"`
	Cells   []Cell `json:"cells"`
}
