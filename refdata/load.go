/*
 * Copyright 2026 Li Chakyin
 * SPDX-License-Identifier: Apache-2.0
 */
package refdata

import (
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lichakyin/axial-length/logging"
)

// Embedded normative tables (Chinese population data), one file per gender.
//
//go:embed boys.csv girls.csv
var defaultTables embed.FS

var (
	// ErrUnknownGender is returned when a table is requested for a gender
	// with no associated file.
	ErrUnknownGender = errors.New("refdata: unknown gender")

	// ErrNoAgeColumn is returned when the header row has no Age column.
	ErrNoAgeColumn = errors.New("refdata: table header has no Age column")

	// ErrNoPercentileColumns is returned when the header row has no
	// percentile columns besides Age.
	ErrNoPercentileColumns = errors.New("refdata: table header has no percentile columns")

	// ErrNoRows is returned when no data row survives normalization.
	ErrNoRows = errors.New("refdata: no usable rows after normalization")
)

var logger = logging.Logger(logging.SourceRefData)

// Filename maps a gender to its fixed reference table file name.
func Filename(gender Gender) (string, error) {
	switch gender {
	case GenderMale:
		return "boys.csv", nil
	case GenderFemale:
		return "girls.csv", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGender, gender)
}

// Default returns the embedded reference table for the given gender.
func Default(gender Gender) (*Table, error) {
	name, err := Filename(gender)
	if err != nil {
		return nil, err
	}

	f, err := defaultTables.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded table %s: %w", name, err)
	}
	defer f.Close()

	return Load(f, gender)
}

// LoadDir loads the reference table for the given gender from its fixed file
// name inside dir. There is no fallback: a missing or unreadable file is an
// error for that gender.
func LoadDir(dir string, gender Gender) (*Table, error) {
	name, err := Filename(gender)
	if err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(dir, name), gender)
}

// LoadFile loads a reference table from a CSV file on disk.
func LoadFile(path string, gender Gender) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference table: %w", err)
	}
	defer f.Close()

	table, err := Load(f, gender)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference table %s: %w", path, err)
	}
	return table, nil
}

// Load reads and normalizes a gender's reference table from CSV. The header
// must carry an Age column plus percentile columns; percentile headers are
// tolerant to a UTF-8 BOM, surrounding whitespace and ordinal suffixes
// ("3rd", "95th"). Data rows whose age cell is empty or non-numeric are
// dropped, as are later duplicates of an already-seen age.
func Load(r io.Reader, gender Gender) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoRows
	}

	header := records[0]
	ageCol := -1
	type column struct {
		index int
		label string
	}
	var percentiles []column
	for i, cell := range header {
		cell = stripBOM(strings.TrimSpace(cell))
		if strings.EqualFold(cell, "age") {
			if ageCol == -1 {
				ageCol = i
			}
			continue
		}
		label := normalizeLabel(cell)
		if label == "" {
			continue
		}
		percentiles = append(percentiles, column{index: i, label: label})
	}
	if ageCol == -1 {
		return nil, ErrNoAgeColumn
	}
	if len(percentiles) == 0 {
		return nil, ErrNoPercentileColumns
	}

	// Canonical labels first, in canonical order; anything else keeps its
	// source order after them.
	ordered := make([]column, 0, len(percentiles))
	taken := make(map[int]bool)
	for _, canonical := range CanonicalLabels {
		for _, col := range percentiles {
			if col.label == canonical && !taken[col.index] {
				ordered = append(ordered, col)
				taken[col.index] = true
			}
		}
	}
	for _, col := range percentiles {
		if !taken[col.index] {
			ordered = append(ordered, col)
		}
	}

	table := &Table{Gender: gender}
	seenAges := make(map[float64]bool)
	for _, record := range records[1:] {
		if ageCol >= len(record) {
			continue
		}
		ageCell := stripBOM(strings.TrimSpace(record[ageCol]))
		age, err := strconv.ParseFloat(ageCell, 64)
		if err != nil {
			logger.Debug("dropping row with non-numeric age", "gender", gender, "age", ageCell)
			continue
		}
		if seenAges[age] {
			logger.Debug("dropping row with duplicate age", "gender", gender, "age", age)
			continue
		}

		row := Row{Age: age}
		for _, col := range ordered {
			if col.index >= len(record) {
				continue
			}
			value, err := strconv.ParseFloat(strings.TrimSpace(record[col.index]), 64)
			if err != nil {
				continue
			}
			row.Labels = append(row.Labels, col.label)
			row.Values = append(row.Values, value)
		}
		if len(row.Values) == 0 {
			continue
		}

		seenAges[age] = true
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return nil, ErrNoRows
	}
	return table, nil
}

// normalizeLabel reduces a percentile header cell to its bare numeric label,
// stripping an ordinal suffix ("3rd" -> "3"). Returns "" for cells that are
// not percentile-like.
func normalizeLabel(cell string) string {
	cell = strings.TrimSpace(stripBOM(cell))
	lower := strings.ToLower(cell)
	for _, suffix := range []string{"th", "st", "nd", "rd"} {
		if trimmed, ok := strings.CutSuffix(lower, suffix); ok {
			if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
				return trimmed
			}
		}
	}
	if _, err := strconv.ParseFloat(lower, 64); err == nil {
		return lower
	}
	return ""
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
