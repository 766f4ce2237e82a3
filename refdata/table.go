/*
 * Copyright 2026 Li Chakyin
 * SPDX-License-Identifier: Apache-2.0
 */
package refdata

// Gender selects which normative reference table applies.
type Gender string

// Gender values
const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Valid reports whether g is one of the known gender values.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// CanonicalLabels is the ordered percentile column set of the normative
// tables. Labels outside this set are kept but sorted after it.
var CanonicalLabels = []string{"3", "5", "10", "25", "50", "75", "90", "95"}

// Row is one tabulated age with its percentile values. Labels and Values are
// parallel slices in display order: canonical labels first, extras after.
type Row struct {
	Age    float64
	Labels []string
	Values []float64
}

// Value returns the axial length stored under the given percentile label.
func (r Row) Value(label string) (float64, bool) {
	for i, l := range r.Labels {
		if l == label {
			return r.Values[i], true
		}
	}
	return 0, false
}

// Table holds the normalized reference rows for one gender, in source order.
// Tables are built once at load time and never mutated.
type Table struct {
	Gender Gender
	Rows   []Row
}

// Ages returns the tabulated ages in table order.
func (t *Table) Ages() []float64 {
	ages := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		ages[i] = row.Age
	}
	return ages
}

// Labels returns the union of percentile labels across all rows, in the
// display order of the first row that carries each label.
func (t *Table) Labels() []string {
	var labels []string
	seen := make(map[string]bool)
	for _, row := range t.Rows {
		for _, l := range row.Labels {
			if !seen[l] {
				seen[l] = true
				labels = append(labels, l)
			}
		}
	}
	return labels
}
