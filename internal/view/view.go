package view

// timePlaceholder is shown whenever no concrete timestamp is selected.
const timePlaceholder = "--:--"

// Rect is one colored grid rectangle, ready for the map surface to draw.
type Rect struct {
	LatMin  float64 `json:"latMin"`
	LonMin  float64 `json:"lonMin"`
	LatMax  float64 `json:"latMax"`
	LonMax  float64 `json:"lonMax"`
	Color   string  `json:"color"` // rgba() expression
	Tooltip string  `json:"tooltip"`
}

// Legend describes the displayed slice for the legend widget.
type Legend struct {
	Kind      string `json:"kind"`
	Date      string `json:"date"` // ISO form
	TimeLabel string `json:"timeLabel"`
	RangeText string `json:"rangeText"` // "vmin – vmax unit", or a placeholder
}

// View is everything the map surface needs for one complete redraw. An empty
// Rects slice means "clear the grid". Status is the human-readable outcome
// narrative of the render run that produced this view.
type View struct {
	Rects     []Rect `json:"rects"`
	Legend    Legend `json:"legend"`
	TimeLabel string `json:"timeLabel"`
	Status    string `json:"status"`
	RunID     string `json:"runId,omitempty"`
}

// Cleared builds an empty view carrying only a status narrative. Every
// failure path commits one of these: a failed resolution must never leave a
// previous grid displayed under a label it no longer matches.
func Cleared(status, timeLabel string) View {
	return View{
		Legend:    Legend{RangeText: "data missing", TimeLabel: timeLabel},
		TimeLabel: timeLabel,
		Status:    status,
	}
}

// TimePlaceholder exposes the placeholder label for callers building views.
func TimePlaceholder() string { return timePlaceholder }
