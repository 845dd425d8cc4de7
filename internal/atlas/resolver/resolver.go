package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/atlas"
)

// Resolver fetches the static JSON resource hierarchy published by the data
// pipeline: the latest-date pointer, per-(date, kind) layer indexes, and
// per-timestamp grid snapshots. It holds no state beyond its HTTP plumbing.
//
// There is deliberately no retry loop: a failed resolution is reported as-is
// and the next user action (or scheduler tick) re-attempts it. The circuit
// breaker only shields the remote host from hammering while it is down.
type Resolver struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// New creates a Resolver rooted at baseURL (the directory containing
// latest.json, without a trailing slash).
func New(client *http.Client, baseURL string) *Resolver {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "atlas-data",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Resolver{
		baseURL: baseURL,
		client:  client,
		circuit: cb,
	}
}

// LatestDate resolves the latest-date pointer. Per the data contract a
// missing or malformed pointer is reported as atlas.ErrNotFound: either way
// there is no usable latest date.
func (r *Resolver) LatestDate(ctx context.Context) (atlas.DatePointer, error) {
	var ptr atlas.DatePointer
	if err := r.getJSON(ctx, r.baseURL+"/latest.json", &ptr); err != nil {
		if errors.Is(err, atlas.ErrMalformed) {
			return atlas.DatePointer{}, fmt.Errorf("%w: latest.json unreadable", atlas.ErrNotFound)
		}
		return atlas.DatePointer{}, err
	}
	if _, err := atlas.FolderToISO(ptr.Date); err != nil {
		return atlas.DatePointer{}, fmt.Errorf("%w: latest.json has no usable date", atlas.ErrNotFound)
	}
	return ptr, nil
}

// LayerIndex resolves the metadata for one (date, kind) slice. Missing
// optional fields receive the documented defaults here, at parse time, so no
// caller ever special-cases them. An index with empty times is a valid
// result: it means the pipeline has published nothing for that slice yet.
func (r *Resolver) LayerIndex(ctx context.Context, date string, kind atlas.Kind) (atlas.LayerIndex, error) {
	// Raw payload with pointers so absence is distinguishable from zero.
	var raw struct {
		Date       string            `json:"date"`
		Kind       atlas.Kind        `json:"kind"`
		Times      []string          `json:"times_utc"`
		Cell       *atlas.CellSize   `json:"cell"`
		Range      *atlas.ValueRange `json:"range"`
		Unit       string            `json:"unit"`
		UpdatedUTC string            `json:"updated_utc"`
	}

	url := fmt.Sprintf("%s/%s/%s/index.json", r.baseURL, date, kind)
	if err := r.getJSON(ctx, url, &raw); err != nil {
		return atlas.LayerIndex{}, err
	}
	if raw.Times == nil {
		return atlas.LayerIndex{}, fmt.Errorf("%w: index for %s/%s lacks times_utc", atlas.ErrMalformed, date, kind)
	}

	idx := atlas.LayerIndex{
		Date:       date,
		Kind:       kind,
		Times:      raw.Times,
		Cell:       atlas.DefaultCellSize,
		Range:      atlas.DefaultValueRange,
		Unit:       raw.Unit,
		UpdatedUTC: raw.UpdatedUTC,
	}
	if raw.Cell != nil {
		idx.Cell = *raw.Cell
	}
	if raw.Range != nil {
		idx.Range = *raw.Range
	}
	return idx, nil
}

// GridSnapshot resolves the grid for one concrete "HHMM" timestamp. An empty
// cell list is valid.
func (r *Resolver) GridSnapshot(ctx context.Context, date string, kind atlas.Kind, hhmm string) (atlas.GridSnapshot, error) {
	var snap atlas.GridSnapshot
	url := fmt.Sprintf("%s/%s/%s/%s.json", r.baseURL, date, kind, hhmm)
	if err := r.getJSON(ctx, url, &snap); err != nil {
		return atlas.GridSnapshot{}, err
	}
	return snap, nil
}

// getJSON performs one GET through the circuit breaker and decodes the body,
// classifying every failure into the atlas error taxonomy. The no-cache
// request header matters: the pipeline rewrites these files out-of-band, and
// an intermediate cache must never mask a fresher grid.
func (r *Resolver) getJSON(ctx context.Context, url string, out any) error {
	result, err := r.circuit.Execute(func() (interface{}, error) {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if reqErr != nil {
			return nil, reqErr
		}
		req.Header.Set("Cache-Control", "no-cache")

		resp, doErr := r.client.Do(req)
		if doErr != nil {
			return nil, fmt.Errorf("%w: %v", atlas.ErrNetwork, doErr)
		}

		// Server-side failures count against the breaker; a plain 404 is
		// an expected data gap and must not trip it.
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: GET %s returned %d", atlas.ErrNetwork, url, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: circuit open for %s", atlas.ErrNetwork, r.baseURL)
		}
		return err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return fmt.Errorf("%w: unexpected result type from circuit breaker", atlas.ErrNetwork)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: GET %s returned %d", atlas.ErrNotFound, url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", atlas.ErrMalformed, url, err)
	}
	return nil
}
