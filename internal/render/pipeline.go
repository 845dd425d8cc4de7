package render

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/atlas"
	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/colormap"
	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/view"
)

// Resolver is the slice of the data fetcher the pipeline needs.
type Resolver interface {
	LatestDate(ctx context.Context) (atlas.DatePointer, error)
	LayerIndex(ctx context.Context, date string, kind atlas.Kind) (atlas.LayerIndex, error)
	GridSnapshot(ctx context.Context, date string, kind atlas.Kind, hhmm string) (atlas.GridSnapshot, error)
}

// Pipeline turns the live selection into the displayed view: it resolves the
// layer index and grid snapshot for the selection, colors the cells, and
// narrates the outcome through the view's status. All failures terminate
// here as a cleared view plus a human-readable status; none escape.
type Pipeline struct {
	state    *view.State
	resolver Resolver

	mu sync.Mutex
	// fallbackDate is non-empty while the selection still sits on the
	// wall-clock date Boot fell back to because the latest-date pointer was
	// unreachable. Refresh keeps re-attempting the pointer until it resolves
	// or the user moves the selection elsewhere.
	fallbackDate string
}

// New creates a Pipeline over the shared selection state.
func New(state *view.State, resolver Resolver) *Pipeline {
	return &Pipeline{state: state, resolver: resolver}
}

// Run executes one resolution pass for the current selection. Each run is
// tagged with the selection generation it was launched for; results whose
// generation has been superseded are discarded, so a slow old run can never
// overwrite the render of a newer selection.
func (p *Pipeline) Run(ctx context.Context) view.View {
	sel, gen := p.state.Snapshot()
	if sel.Date == "" {
		// Nothing selected yet; boot has not resolved a date.
		return p.state.View()
	}
	runID := uuid.NewString()

	v := p.resolve(ctx, sel, gen, runID)
	v.RunID = runID
	if !p.state.CommitView(v, gen) {
		log.Printf("DEBUG: run %s: selection changed mid-flight, result discarded", runID)
		return p.state.View()
	}
	return v
}

func (p *Pipeline) resolve(ctx context.Context, sel view.Selection, gen uint64, runID string) view.View {
	isoDate, err := atlas.FolderToISO(sel.Date)
	if err != nil {
		isoDate = sel.Date
	}

	idx, err := p.resolver.LayerIndex(ctx, sel.Date, sel.Kind)
	if err != nil {
		// The expected, recoverable gap: data for this day/kind may simply
		// not exist yet. Clear everything so no stale grid survives.
		log.Printf("run %s: index %s/%s: %v", runID, sel.Date, sel.Kind, err)
		v := view.Cleared(fmt.Sprintf("Error: no index for %s %s (%v)", sel.Kind, isoDate, err), view.TimePlaceholder())
		v.Legend.Kind = string(sel.Kind)
		v.Legend.Date = isoDate
		return v
	}

	sel, ok := p.state.ApplyTimes(idx.Times, gen)
	if !ok {
		// Selection moved on; Run's commit will be rejected anyway.
		return view.Cleared("superseded", view.TimePlaceholder())
	}

	if len(idx.Times) == 0 {
		// Valid empty state, not an error: the pipeline has published the
		// index but no timestamps for it yet.
		v := view.Cleared(fmt.Sprintf("no times available for %s %s", sel.Kind, isoDate), view.TimePlaceholder())
		v.Legend = view.Legend{
			Kind:      string(sel.Kind),
			Date:      isoDate,
			TimeLabel: view.TimePlaceholder(),
			RangeText: "no data yet",
		}
		return v
	}

	hhmm := idx.Times[sel.TimeIndex]
	label := atlas.TimeLabel(hhmm)

	snap, err := p.resolver.GridSnapshot(ctx, sel.Date, sel.Kind, hhmm)
	if err != nil {
		log.Printf("run %s: snapshot %s/%s/%s: %v", runID, sel.Date, sel.Kind, hhmm, err)
		v := view.Cleared(fmt.Sprintf("Error: no grid for %s %s %s (%v)", sel.Kind, isoDate, label, err), label)
		v.Legend.Kind = string(sel.Kind)
		v.Legend.Date = isoDate
		return v
	}

	rects := make([]view.Rect, 0, len(snap.Cells))
	for _, c := range snap.Cells {
		val := c.Value()
		rects = append(rects, view.Rect{
			LatMin:  c.Lat,
			LonMin:  c.Lon,
			LatMax:  c.Lat + idx.Cell.DLat,
			LonMax:  c.Lon + idx.Cell.DLon,
			Color:   colormap.CSS(colormap.ColorFor(val, idx.Range.VMin, idx.Range.VMax)),
			Tooltip: colormap.Tooltip(val, idx.Unit),
		})
	}

	rangeText := fmt.Sprintf("%.1f – %.1f", idx.Range.VMin, idx.Range.VMax)
	if idx.Unit != "" {
		rangeText += " " + idx.Unit
	}

	status := fmt.Sprintf("%s %s %s: %d cells", sel.Kind, isoDate, label, len(rects))
	if idx.UpdatedUTC != "" {
		status += " (updated " + idx.UpdatedUTC + ")"
	}

	return view.View{
		Rects: rects,
		Legend: view.Legend{
			Kind:      string(sel.Kind),
			Date:      isoDate,
			TimeLabel: label,
			RangeText: rangeText,
		},
		TimeLabel: label,
		Status:    status,
	}
}

// JumpToLatest resolves the latest-date pointer ("today" action), selects
// that date, and renders it.
func (p *Pipeline) JumpToLatest(ctx context.Context) (view.View, error) {
	ptr, err := p.resolver.LatestDate(ctx)
	if err != nil {
		return view.View{}, err
	}
	p.setFallback("")
	p.state.SetDate(ptr.Date)
	return p.Run(ctx), nil
}

// Boot establishes the initial selection. When the latest-date pointer is
// unreachable it falls back to the current UTC calendar day rather than
// failing startup; Refresh keeps re-attempting resolution on the scheduler's
// behalf.
func (p *Pipeline) Boot(ctx context.Context) view.View {
	v, err := p.JumpToLatest(ctx)
	if err == nil {
		return v
	}
	log.Printf("INFO: latest-date pointer unavailable (%v); falling back to today", err)
	today := atlas.TodayFolder()
	p.setFallback(today)
	p.state.SetDate(today)
	return p.Run(ctx)
}

// Refresh is the scheduler's entry point. Normally it re-renders the live
// selection so the view tracks data published out-of-band. While the
// selection still sits on a boot fallback date it first re-attempts the
// latest-date pointer, so a viewer booted during a producer outage converges
// on the real latest date without user intervention. A user action that moves
// the selection off the fallback date cancels the pending re-attempt.
func (p *Pipeline) Refresh(ctx context.Context) view.View {
	if date := p.fallback(); date != "" {
		if p.state.Selection().Date != date {
			p.setFallback("")
		} else if v, err := p.JumpToLatest(ctx); err == nil {
			return v
		}
		// Pointer still unavailable; re-render the fallback slice below.
	}
	return p.Run(ctx)
}

func (p *Pipeline) fallback() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fallbackDate
}

func (p *Pipeline) setFallback(date string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fallbackDate = date
}
