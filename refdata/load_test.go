// SPDX-FileCopyrightText: 2026 Li Chakyin
// SPDX-License-Identifier: Apache-2.0

package refdata

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestLoadNormalizesHeaders(t *testing.T) {
	t.Parallel()

	// BOM on the first cell, ordinal suffixes and stray whitespace on the
	// percentile columns.
	csv := "\ufeffAge, 3rd ,5th,10th,25th,50th,75th,90th, 95th\n" +
		"6,21.60,21.75,21.99,22.44,22.95,23.50,24.06,24.42\n"

	table, err := Load(strings.NewReader(csv), GenderMale)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(table.Rows))
	}

	want := []string{"3", "5", "10", "25", "50", "75", "90", "95"}
	if !reflect.DeepEqual(table.Rows[0].Labels, want) {
		t.Fatalf("expected labels %v, got %v", want, table.Rows[0].Labels)
	}

	if v, ok := table.Rows[0].Value("50"); !ok || v != 22.95 {
		t.Fatalf("expected 50th value 22.95, got %v (ok=%v)", v, ok)
	}
}

func TestLoadReordersShuffledCanonicalColumns(t *testing.T) {
	t.Parallel()

	csv := "50,Age,3,95\n" +
		"23.20,7,21.84,24.71\n"

	table, err := Load(strings.NewReader(csv), GenderMale)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"3", "50", "95"}
	if !reflect.DeepEqual(table.Rows[0].Labels, want) {
		t.Fatalf("expected canonical label order %v, got %v", want, table.Rows[0].Labels)
	}
}

func TestLoadKeepsNonCanonicalLabelsAfterCanonical(t *testing.T) {
	t.Parallel()

	csv := "Age,97th,3rd,50th\n" +
		"8,25.10,22.07,23.45\n"

	table, err := Load(strings.NewReader(csv), GenderFemale)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"3", "50", "97"}
	if !reflect.DeepEqual(table.Rows[0].Labels, want) {
		t.Fatalf("expected %v, got %v", want, table.Rows[0].Labels)
	}
}

func TestLoadDropsRowsWithNonNumericAge(t *testing.T) {
	t.Parallel()

	csv := "Age,50th\n" +
		"6,22.95\n" +
		"n/a,23.20\n" +
		",23.30\n" +
		"8,23.45\n"

	table, err := Load(strings.NewReader(csv), GenderMale)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows after dropping bad ages, got %d", len(table.Rows))
	}
	if table.Rows[0].Age != 6 || table.Rows[1].Age != 8 {
		t.Fatalf("unexpected surviving ages: %v", table.Ages())
	}
}

func TestLoadDropsDuplicateAges(t *testing.T) {
	t.Parallel()

	csv := "Age,50th\n" +
		"6,22.95\n" +
		"6,99.99\n"

	table, err := Load(strings.NewReader(csv), GenderMale)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(table.Rows))
	}
	if v, _ := table.Rows[0].Value("50"); v != 22.95 {
		t.Fatalf("expected first occurrence to win, got %v", v)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		csv  string
		want error
	}{
		{"no age column", "Name,50th\nfoo,23.0\n", ErrNoAgeColumn},
		{"no percentile columns", "Age,Notes\n6,hello\n", ErrNoPercentileColumns},
		{"all rows dropped", "Age,50th\nn/a,23.0\n", ErrNoRows},
		{"empty input", "", ErrNoRows},
	}

	for _, tc := range cases {
		if _, err := Load(strings.NewReader(tc.csv), GenderMale); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestDefaultTables(t *testing.T) {
	t.Parallel()

	for _, gender := range []Gender{GenderMale, GenderFemale} {
		table, err := Default(gender)
		if err != nil {
			t.Fatalf("Default(%s) failed: %v", gender, err)
		}
		if len(table.Rows) == 0 {
			t.Fatalf("Default(%s) returned empty table", gender)
		}
		if !reflect.DeepEqual(table.Labels(), CanonicalLabels) {
			t.Fatalf("Default(%s) labels %v, want %v", gender, table.Labels(), CanonicalLabels)
		}

		seen := make(map[float64]bool)
		for _, row := range table.Rows {
			if seen[row.Age] {
				t.Fatalf("Default(%s) has duplicate age %v", gender, row.Age)
			}
			seen[row.Age] = true
		}
	}

	if _, err := Default(Gender("Other")); !errors.Is(err, ErrUnknownGender) {
		t.Fatalf("expected ErrUnknownGender, got %v", err)
	}
}
