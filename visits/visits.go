/*
 * Copyright 2026 Li Chakyin
 * SPDX-License-Identifier: Apache-2.0
 */
package visits

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lichakyin/axial-length/refdata"
)

// Eye identifies which eye a measurement belongs to.
type Eye string

// Standard ophthalmic eye designations.
const (
	EyeOD Eye = "OD" // right eye
	EyeOS Eye = "OS" // left eye
)

// Axial length measurement bounds in millimetres.
const (
	MinAxialLength = 18.0
	MaxAxialLength = 30.0
)

// Earliest accepted date of birth. Keeps obvious typos (year 190 instead of
// 1990) out of the log.
var earliestDOB = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

var (
	ErrInvalidGender         = errors.New("visits: gender must be Male or Female")
	ErrDOBOutOfRange         = errors.New("visits: date of birth is outside the accepted range")
	ErrVisitBeforeBirth      = errors.New("visits: visit date is before date of birth")
	ErrVisitInFuture         = errors.New("visits: visit date is in the future")
	ErrAxialLengthOutOfRange = fmt.Errorf("visits: axial length must be between %.1f and %.1f mm", MinAxialLength, MaxAxialLength)
)

// Record is a single per-eye measurement taken at one visit. Records are
// append-only: the log offers no edit or delete.
type Record struct {
	ID          uuid.UUID
	Gender      refdata.Gender
	DateOfBirth time.Time
	Label       string
	VisitDate   time.Time
	AgeYears    float64
	Eye         Eye
	AxialLength float64
}

// AgeYears computes the patient age at the visit in years, using the mean
// Julian year (365.25 days) and rounding to two decimals.
func AgeYears(dob, visit time.Time) float64 {
	days := visit.Sub(dob).Hours() / 24
	return math.Round(days/365.25*100) / 100
}

// NewRecordPair validates one form submission and returns the two records it
// produces, right eye first. Both share the same gender, date of birth,
// label, visit date and computed age.
func NewRecordPair(gender refdata.Gender, dob time.Time, label string, visitDate time.Time, odLength, osLength float64) (od, os Record, err error) {
	now := time.Now()

	switch {
	case !gender.Valid():
		err = ErrInvalidGender
	case dob.Before(earliestDOB) || dob.After(now):
		err = ErrDOBOutOfRange
	case visitDate.Before(dob):
		err = ErrVisitBeforeBirth
	case visitDate.After(now):
		err = ErrVisitInFuture
	case odLength < MinAxialLength || odLength > MaxAxialLength,
		osLength < MinAxialLength || osLength > MaxAxialLength:
		err = ErrAxialLengthOutOfRange
	}
	if err != nil {
		return Record{}, Record{}, err
	}

	age := AgeYears(dob, visitDate)
	od = Record{
		ID:          uuid.New(),
		Gender:      gender,
		DateOfBirth: dob,
		Label:       label,
		VisitDate:   visitDate,
		AgeYears:    age,
		Eye:         EyeOD,
		AxialLength: odLength,
	}
	os = od
	os.ID = uuid.New()
	os.Eye = EyeOS
	os.AxialLength = osLength

	return od, os, nil
}

// Log is an append-only, in-memory collection of visit records owned by a
// single session. It does not survive a restart; that is deliberate.
type Log struct {
	records []Record
}

// Append adds records to the log in order.
func (l *Log) Append(records ...Record) {
	l.records = append(l.records, records...)
}

// Len returns the number of stored records.
func (l *Log) Len() int {
	return len(l.records)
}

// ForGender returns the records logged under the given gender, in insertion
// order. Records never leak across genders.
func (l *Log) ForGender(gender refdata.Gender) []Record {
	var out []Record
	for _, r := range l.records {
		if r.Gender == gender {
			out = append(out, r)
		}
	}
	return out
}

// LatestPerEye returns the last-added record per eye for the given gender.
// Note this is insertion order, not visit-date order: if visits are logged
// out of chronological order the reported record may not be the most recent
// by date.
func (l *Log) LatestPerEye(gender refdata.Gender) map[Eye]Record {
	out := make(map[Eye]Record)
	for _, r := range l.records {
		if r.Gender == gender {
			out[r.Eye] = r
		}
	}
	return out
}

// Store hands out per-session visit logs. Each log is owned by exactly one
// session; the store only guards the lookup map.
type Store struct {
	mu   sync.Mutex
	logs map[string]*Log
}

// NewStore returns an empty session log registry.
func NewStore() *Store {
	return &Store{logs: make(map[string]*Log)}
}

// Get returns the log for the given session ID, creating it on first use.
func (s *Store) Get(sessionID string) *Log {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.logs[sessionID]
	if !ok {
		l = &Log{}
		s.logs[sessionID] = l
	}
	return l
}
