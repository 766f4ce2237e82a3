/*
 * Copyright 2026 Li Chakyin
 * SPDX-License-Identifier: Apache-2.0
 */
package refdata

import (
	"errors"
	"math"
)

var (
	// ErrEmptyTable is returned when an estimate is requested against a
	// table with no usable rows. The loader never produces one, so hitting
	// this outside the CLI path is a programmer error.
	ErrEmptyTable = errors.New("refdata: reference table has no rows")

	// ErrNotFinite is returned when the observed age or length is NaN or
	// infinite.
	ErrNotFinite = errors.New("refdata: observed age and axial length must be finite")
)

// Estimate is the nearest-match result for a single observation.
type Estimate struct {
	NearestAge      float64
	PercentileLabel string
	PercentileValue float64
}

// Estimate selects the row whose tabulated age is closest to observedAge,
// then the percentile column in that row whose value is closest to
// observedLength. Ties resolve to the first candidate in table order; the
// scan updates best-so-far only on strictly smaller distance to keep that
// deterministic.
func (t *Table) Estimate(observedAge, observedLength float64) (Estimate, error) {
	if t == nil || len(t.Rows) == 0 {
		return Estimate{}, ErrEmptyTable
	}
	if !isFinite(observedAge) || !isFinite(observedLength) {
		return Estimate{}, ErrNotFinite
	}

	best := 0
	bestDiff := math.Abs(t.Rows[0].Age - observedAge)
	for i := 1; i < len(t.Rows); i++ {
		if diff := math.Abs(t.Rows[i].Age - observedAge); diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}

	row := t.Rows[best]
	if len(row.Values) == 0 {
		return Estimate{}, ErrEmptyTable
	}

	bestCol := 0
	bestColDiff := math.Abs(row.Values[0] - observedLength)
	for i := 1; i < len(row.Values); i++ {
		if diff := math.Abs(row.Values[i] - observedLength); diff < bestColDiff {
			bestCol = i
			bestColDiff = diff
		}
	}

	return Estimate{
		NearestAge:      row.Age,
		PercentileLabel: row.Labels[bestCol],
		PercentileValue: row.Values[bestCol],
	}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
