/*
 * Copyright 2026 Li Chakyin
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	"fmt"
	htmltemplate "html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/lichakyin/axial-length/logging"
	"github.com/lichakyin/axial-length/refdata"
	"github.com/lichakyin/axial-length/visits"
)

var webLogger = logging.Logger(logging.SourceWeb)

const sessionGenderKey = "gender"

// TableSource returns the reference table for a gender.
type TableSource func(refdata.Gender) (*refdata.Table, error)

// App carries the state the growth handlers operate on. The visit store and
// table source are passed in explicitly so handlers stay testable without
// ambient globals.
type App struct {
	Tables TableSource
	Visits *visits.Store

	// Fixed y-axis domain of the growth chart, in millimetres.
	ChartYMin float64
	ChartYMax float64
}

// NewApp returns an App with the default chart bounds.
func NewApp(tables TableSource, store *visits.Store) *App {
	return &App{
		Tables:    tables,
		Visits:    store,
		ChartYMin: 21,
		ChartYMax: 28,
	}
}

// activeGender reads the session's current gender view, defaulting to Male.
func activeGender(s session.Session) refdata.Gender {
	if v, ok := s.Get(sessionGenderKey).(string); ok {
		if g := refdata.Gender(v); g.Valid() {
			return g
		}
	}
	return refdata.GenderMale
}

// GrowthPage renders the growth curves for the active gender with the
// session's visits overlaid, plus the per-eye percentile estimate for the
// last-added measurement.
func (a *App) GrowthPage(c flamego.Context, s session.Session, fl session.Flash, t template.Template, data template.Data) {
	gender := activeGender(s)
	data["PageTitle"] = "Axial Length Growth Curves"
	data["Gender"] = string(gender)
	data["Genders"] = []string{string(refdata.GenderMale), string(refdata.GenderFemale)}
	data["Today"] = time.Now().Format("2006-01-02")

	if msg, ok := fl.(FlashMessage); ok {
		data["Flash"] = msg
	}

	table, err := a.Tables(gender)
	if err != nil {
		// No fallback table exists: the other gender's curves must never
		// substitute for a missing one.
		webLogger.Error("failed to load reference table", "gender", gender, "error", err)
		data["Error"] = fmt.Sprintf("Reference table for %s is unavailable", gender)
		t.HTML(http.StatusInternalServerError, "error")
		return
	}

	log := a.Visits.Get(s.ID())
	records := log.ForGender(gender)
	data["Records"] = records

	chart, err := growthChart(table, records, a.ChartYMin, a.ChartYMax)
	if err != nil {
		webLogger.Error("failed to render growth chart", "gender", gender, "error", err)
		data["Error"] = "Failed to render growth chart"
	} else {
		data["Chart"] = htmltemplate.HTML(chart)
	}

	var estimates []string
	latest := log.LatestPerEye(gender)
	for _, eye := range []visits.Eye{visits.EyeOD, visits.EyeOS} {
		record, ok := latest[eye]
		if !ok {
			continue
		}
		est, err := table.Estimate(record.AgeYears, record.AxialLength)
		if err != nil {
			webLogger.Error("percentile estimate failed", "eye", eye, "error", err)
			continue
		}
		estimates = append(estimates, FormatEstimate(record, est))
	}
	data["Estimates"] = estimates

	t.HTML(http.StatusOK, "home")
}

// FormatEstimate renders the one-line percentile summary for a record.
func FormatEstimate(r visits.Record, est refdata.Estimate) string {
	return fmt.Sprintf(
		"Gender %s, DOB %s, visit %s on %s, eye %s: age %.2f years (nearest table age %.0f), axial length %.2f mm ≈ %s percentile (curve value %.2f mm).",
		r.Gender,
		r.DateOfBirth.Format("2006-01-02"),
		r.Label,
		r.VisitDate.Format("2006-01-02"),
		r.Eye,
		r.AgeYears,
		est.NearestAge,
		r.AxialLength,
		Ordinal(est.PercentileLabel),
		est.PercentileValue,
	)
}

// AddVisit handles the visit form. One submission appends two records, right
// eye then left eye, sharing the same patient fields.
func (a *App) AddVisit(c flamego.Context, s session.Session) {
	if err := c.Request().ParseForm(); err != nil {
		webLogger.Warn("failed to parse visit form", "error", err)
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect("/", http.StatusSeeOther)
		return
	}
	form := c.Request().Form

	gender := refdata.Gender(strings.TrimSpace(form.Get("gender")))

	dob, err := time.Parse("2006-01-02", strings.TrimSpace(form.Get("date_of_birth")))
	if err != nil {
		SetErrorFlash(s, "Invalid date of birth")
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	visitDate, err := time.Parse("2006-01-02", strings.TrimSpace(form.Get("visit_date")))
	if err != nil {
		SetErrorFlash(s, "Invalid visit date")
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	label := strings.TrimSpace(form.Get("visit_label"))

	odLength, err := strconv.ParseFloat(strings.TrimSpace(form.Get("od_length")), 64)
	if err != nil {
		SetErrorFlash(s, "Invalid right eye axial length")
		c.Redirect("/", http.StatusSeeOther)
		return
	}
	osLength, err := strconv.ParseFloat(strings.TrimSpace(form.Get("os_length")), 64)
	if err != nil {
		SetErrorFlash(s, "Invalid left eye axial length")
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	od, os, err := visits.NewRecordPair(gender, dob, label, visitDate, odLength, osLength)
	if err != nil {
		webLogger.Warn("rejected visit submission", "error", err)
		SetErrorFlash(s, visitErrorMessage(err))
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	a.Visits.Get(s.ID()).Append(od, os)
	s.Set(sessionGenderKey, string(gender))

	webLogger.Info("visit recorded",
		"gender", gender, "label", label, "age_years", od.AgeYears)
	SetSuccessFlash(s, "Visit recorded")
	c.Redirect("/", http.StatusSeeOther)
}

// SetGender switches the active gender view for the session.
func (a *App) SetGender(c flamego.Context, s session.Session) {
	if err := c.Request().ParseForm(); err != nil {
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	gender := refdata.Gender(strings.TrimSpace(c.Request().Form.Get("gender")))
	if !gender.Valid() {
		SetErrorFlash(s, "Unknown gender")
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	s.Set(sessionGenderKey, string(gender))
	c.Redirect("/", http.StatusSeeOther)
}

func visitErrorMessage(err error) string {
	switch {
	case errors.Is(err, visits.ErrInvalidGender):
		return "Select a gender"
	case errors.Is(err, visits.ErrDOBOutOfRange):
		return "Date of birth is out of range"
	case errors.Is(err, visits.ErrVisitBeforeBirth):
		return "Visit date is before date of birth"
	case errors.Is(err, visits.ErrVisitInFuture):
		return "Visit date is in the future"
	case errors.Is(err, visits.ErrAxialLengthOutOfRange):
		return fmt.Sprintf("Axial length must be between %.1f and %.1f mm",
			visits.MinAxialLength, visits.MaxAxialLength)
	}
	return "Failed to record visit"
}
