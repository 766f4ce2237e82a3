/*
 * Copyright 2026 Li Chakyin
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/lichakyin/axial-length/refdata"
	"github.com/lichakyin/axial-length/visits"
)

// growthChart renders the percentile-curve overlay chart as an HTML
// fragment: one smooth line per percentile label and one line-with-points
// series per eye from the session's visits. Both axes are value axes so
// visit ages land between tabulated ages instead of snapping to them.
func growthChart(table *refdata.Table, records []visits.Record, yMin, yMax float64) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Axial length for age (%s)", table.Gender),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "Age (years)",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: "Axial length (mm)",
			Min:  yMin,
			Max:  yMax,
		}),
	)

	for _, label := range table.Labels() {
		data := make([]opts.LineData, 0, len(table.Rows))
		for _, row := range table.Rows {
			if v, ok := row.Value(label); ok {
				data = append(data, opts.LineData{Value: []interface{}{row.Age, v}})
			}
		}
		line.AddSeries(Ordinal(label), data,
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:     opts.Bool(true),
				ShowSymbol: opts.Bool(false),
			}),
		)
	}

	for _, eye := range []visits.Eye{visits.EyeOD, visits.EyeOS} {
		var eyeRecords []visits.Record
		for _, r := range records {
			if r.Eye == eye {
				eyeRecords = append(eyeRecords, r)
			}
		}
		if len(eyeRecords) == 0 {
			continue
		}
		sort.SliceStable(eyeRecords, func(i, j int) bool {
			return eyeRecords[i].AgeYears < eyeRecords[j].AgeYears
		})

		data := make([]opts.LineData, 0, len(eyeRecords))
		for _, r := range eyeRecords {
			data = append(data, opts.LineData{Value: []interface{}{r.AgeYears, r.AxialLength}})
		}
		line.AddSeries(string(eye), data,
			charts.WithLineChartOpts(opts.LineChart{
				ShowSymbol: opts.Bool(true),
			}),
		)
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Ordinal turns a bare percentile label into its display form ("3" -> "3rd",
// "50" -> "50th"). Non-numeric labels pass through unchanged.
func Ordinal(label string) string {
	if len(label) == 0 {
		return label
	}
	if len(label) >= 2 {
		switch label[len(label)-2:] {
		case "11", "12", "13":
			return label + "th"
		}
	}
	switch label[len(label)-1] {
	case '1':
		return label + "st"
	case '2':
		return label + "nd"
	case '3':
		return label + "rd"
	case '0', '4', '5', '6', '7', '8', '9':
		return label + "th"
	}
	return label
}
