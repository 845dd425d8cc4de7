package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/atlas"
	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/render"
	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/view"
)

type fakeResolver struct {
	latest   atlas.DatePointer
	index    atlas.LayerIndex
	snapshot atlas.GridSnapshot

	latestErr error
}

func (f *fakeResolver) LatestDate(context.Context) (atlas.DatePointer, error) {
	return f.latest, f.latestErr
}

func (f *fakeResolver) LayerIndex(context.Context, string, atlas.Kind) (atlas.LayerIndex, error) {
	return f.index, nil
}

func (f *fakeResolver) GridSnapshot(context.Context, string, atlas.Kind, string) (atlas.GridSnapshot, error) {
	return f.snapshot, nil
}

func fval(v float64) *float64 { return &v }

// TestRefreshJobCommitsView drives the job body directly: one tick must
// re-resolve the live selection and commit the fresh render.
func TestRefreshJobCommitsView(t *testing.T) {
	res := &fakeResolver{
		index: atlas.LayerIndex{
			Times: []string{"0000"},
			Cell:  atlas.CellSize{DLat: 2, DLon: 2},
			Range: atlas.ValueRange{VMin: 0, VMax: 10},
		},
		snapshot: atlas.GridSnapshot{Cells: []atlas.Cell{{Lat: 0, Lon: 0, Val: fval(4)}}},
	}
	state := view.NewState(atlas.KindTEC)
	state.SetDate("20250829")
	pipeline := render.New(state, res)

	s := New(pipeline, 15*time.Minute, 5*time.Second)
	s.refresh()

	if got := state.View(); len(got.Rects) != 1 {
		t.Fatalf("tick committed %d rects, want 1", len(got.Rects))
	}

	// The producer backfills a second timestamp; the next tick picks it up.
	res.index.Times = []string{"0000", "1200"}
	res.snapshot = atlas.GridSnapshot{Cells: []atlas.Cell{
		{Lat: 0, Lon: 0, Val: fval(4)},
		{Lat: 2, Lon: 0, Val: fval(6)},
	}}
	s.refresh()

	if got := state.View(); len(got.Rects) != 2 {
		t.Fatalf("tick after backfill committed %d rects, want 2", len(got.Rects))
	}
}

// TestRefreshJobRecoversLatest verifies the tick re-attempts the latest-date
// pointer while the selection sits on a boot fallback date.
func TestRefreshJobRecoversLatest(t *testing.T) {
	res := &fakeResolver{latestErr: atlas.ErrNetwork}
	state := view.NewState(atlas.KindTEC)
	pipeline := render.New(state, res)
	pipeline.Boot(context.Background())

	res.latestErr = nil
	res.latest = atlas.DatePointer{Date: "20250828"}
	res.index = atlas.LayerIndex{Times: []string{"0000"}, Cell: atlas.DefaultCellSize, Range: atlas.DefaultValueRange}

	s := New(pipeline, 15*time.Minute, 5*time.Second)
	s.refresh()

	if got := state.Selection().Date; got != "20250828" {
		t.Fatalf("tick left selection on %q, want the recovered latest date", got)
	}
}

func TestStartStop(t *testing.T) {
	state := view.NewState(atlas.KindTEC)
	pipeline := render.New(state, &fakeResolver{latestErr: atlas.ErrNetwork})

	s := New(pipeline, time.Minute, time.Second)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}
