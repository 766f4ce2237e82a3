// SPDX-FileCopyrightText: 2026 Li Chakyin
// SPDX-License-Identifier: Apache-2.0

package visits

import (
	"errors"
	"testing"
	"time"

	"github.com/lichakyin/axial-length/refdata"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeYears(t *testing.T) {
	t.Parallel()

	cases := []struct {
		dob   time.Time
		visit time.Time
		want  float64
	}{
		// Six calendar years spanning leap years 2016 and 2020: 2192 days,
		// 2192/365.25 = 6.0014, rounds to 6.00.
		{date(2015, time.January, 1), date(2021, time.January, 1), 6.0},
		{date(2015, time.January, 1), date(2015, time.January, 1), 0},
		{date(2010, time.June, 15), date(2020, time.June, 15), 10.0},
		{date(2014, time.March, 10), date(2021, time.September, 28), 7.55},
	}

	for _, tc := range cases {
		if got := AgeYears(tc.dob, tc.visit); got != tc.want {
			t.Fatalf("AgeYears(%s, %s) = %v, want %v",
				tc.dob.Format("2006-01-02"), tc.visit.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestNewRecordPairSharesVisitFields(t *testing.T) {
	t.Parallel()

	dob := date(2015, time.March, 2)
	visit := date(2023, time.May, 10)

	od, os, err := NewRecordPair(refdata.GenderMale, dob, "baseline", visit, 23.1, 23.4)
	if err != nil {
		t.Fatalf("NewRecordPair failed: %v", err)
	}

	if od.Eye != EyeOD || os.Eye != EyeOS {
		t.Fatalf("expected OD then OS, got %s then %s", od.Eye, os.Eye)
	}
	if od.ID == os.ID {
		t.Fatal("expected distinct record IDs")
	}
	if od.AxialLength != 23.1 || os.AxialLength != 23.4 {
		t.Fatalf("unexpected lengths: %v, %v", od.AxialLength, os.AxialLength)
	}
	if od.AgeYears != os.AgeYears || od.AgeYears == 0 {
		t.Fatalf("expected shared non-zero age, got %v and %v", od.AgeYears, os.AgeYears)
	}
	if od.Gender != os.Gender || od.Label != os.Label || !od.VisitDate.Equal(os.VisitDate) {
		t.Fatal("expected shared visit fields across the pair")
	}
}

func TestNewRecordPairValidation(t *testing.T) {
	t.Parallel()

	dob := date(2015, time.March, 2)
	visit := date(2023, time.May, 10)
	future := time.Now().AddDate(1, 0, 0)

	cases := []struct {
		name   string
		gender refdata.Gender
		dob    time.Time
		visit  time.Time
		od, os float64
		want   error
	}{
		{"bad gender", refdata.Gender("Unknown"), dob, visit, 23, 23, ErrInvalidGender},
		{"dob too old", refdata.GenderMale, date(1850, time.January, 1), visit, 23, 23, ErrDOBOutOfRange},
		{"dob in future", refdata.GenderMale, future, future, 23, 23, ErrDOBOutOfRange},
		{"visit before birth", refdata.GenderMale, dob, date(2014, time.May, 10), 23, 23, ErrVisitBeforeBirth},
		{"visit in future", refdata.GenderMale, dob, future, 23, 23, ErrVisitInFuture},
		{"od too short", refdata.GenderMale, dob, visit, 17.9, 23, ErrAxialLengthOutOfRange},
		{"os too long", refdata.GenderMale, dob, visit, 23, 30.1, ErrAxialLengthOutOfRange},
	}

	for _, tc := range cases {
		if _, _, err := NewRecordPair(tc.gender, tc.dob, "v", tc.visit, tc.od, tc.os); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestLogGenderFiltering(t *testing.T) {
	t.Parallel()

	var l Log
	od, os, err := NewRecordPair(refdata.GenderMale, date(2015, time.March, 2), "v1", date(2023, time.May, 10), 23.1, 23.4)
	if err != nil {
		t.Fatalf("NewRecordPair failed: %v", err)
	}
	l.Append(od, os)

	if got := len(l.ForGender(refdata.GenderMale)); got != 2 {
		t.Fatalf("expected 2 male records, got %d", got)
	}
	if got := len(l.ForGender(refdata.GenderFemale)); got != 0 {
		t.Fatalf("expected no female records before any are added, got %d", got)
	}

	fod, fos, err := NewRecordPair(refdata.GenderFemale, date(2016, time.June, 1), "v1", date(2023, time.May, 10), 22.5, 22.6)
	if err != nil {
		t.Fatalf("NewRecordPair failed: %v", err)
	}
	l.Append(fod, fos)

	if got := len(l.ForGender(refdata.GenderFemale)); got != 2 {
		t.Fatalf("expected 2 female records, got %d", got)
	}
	for _, r := range l.ForGender(refdata.GenderMale) {
		if r.Gender != refdata.GenderMale {
			t.Fatalf("male view leaked a %s record", r.Gender)
		}
	}
}

func TestLatestPerEyeUsesInsertionOrder(t *testing.T) {
	t.Parallel()

	var l Log
	dob := date(2015, time.March, 2)

	// Later visit date added first, earlier visit date added second. The
	// report follows insertion order, so the second pair wins.
	first, _, err := NewRecordPair(refdata.GenderMale, dob, "later", date(2023, time.May, 10), 23.5, 23.6)
	if err != nil {
		t.Fatalf("NewRecordPair failed: %v", err)
	}
	second, secondOS, err := NewRecordPair(refdata.GenderMale, dob, "earlier", date(2022, time.May, 10), 23.1, 23.2)
	if err != nil {
		t.Fatalf("NewRecordPair failed: %v", err)
	}
	l.Append(first)
	l.Append(second, secondOS)

	latest := l.LatestPerEye(refdata.GenderMale)
	if latest[EyeOD].Label != "earlier" {
		t.Fatalf("expected last-added OD record, got %q", latest[EyeOD].Label)
	}
	if latest[EyeOS].Label != "earlier" {
		t.Fatalf("expected last-added OS record, got %q", latest[EyeOS].Label)
	}
}

func TestStoreIsolatesSessions(t *testing.T) {
	t.Parallel()

	store := NewStore()
	a := store.Get("session-a")
	b := store.Get("session-b")
	if a == b {
		t.Fatal("expected distinct logs per session")
	}

	od, os, err := NewRecordPair(refdata.GenderMale, date(2015, time.March, 2), "v", date(2023, time.May, 10), 23.1, 23.4)
	if err != nil {
		t.Fatalf("NewRecordPair failed: %v", err)
	}
	a.Append(od, os)

	if store.Get("session-a").Len() != 2 {
		t.Fatal("expected session-a log to persist across Get calls")
	}
	if store.Get("session-b").Len() != 0 {
		t.Fatal("expected session-b log to stay empty")
	}
}
