/*
 * Copyright 2026 Li Chakyin
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/lichakyin/axial-length/refdata"
	"github.com/lichakyin/axial-length/routes"
	"github.com/lichakyin/axial-length/visits"
)

var CmdEstimate = &cli.Command{
	Name:  "estimate",
	Usage: "Print the percentile estimate for a single measurement",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "gender",
			Value: string(refdata.GenderMale),
			Usage: "patient gender (Male or Female)",
		},
		&cli.FloatFlag{
			Name:  "age",
			Value: -1,
			Usage: "age at measurement in years",
		},
		&cli.StringFlag{
			Name:  "dob",
			Usage: "date of birth (YYYY-MM-DD), alternative to --age",
		},
		&cli.StringFlag{
			Name:  "visit-date",
			Usage: "visit date (YYYY-MM-DD), used with --dob",
		},
		&cli.FloatFlag{
			Name:     "length",
			Usage:    "measured axial length in mm",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "table",
			Usage: "reference table CSV (default: embedded table for the gender)",
		},
	},
	Action: estimate,
}

func estimate(ctx context.Context, cmd *cli.Command) error {
	gender := refdata.Gender(cmd.String("gender"))
	if !gender.Valid() {
		return errInvalidGender
	}

	var table *refdata.Table
	var err error
	if path := cmd.String("table"); path != "" {
		table, err = refdata.LoadFile(path, gender)
	} else {
		table, err = refdata.Default(gender)
	}
	if err != nil {
		return err
	}

	age := cmd.Float("age")
	if dobStr, visitStr := cmd.String("dob"), cmd.String("visit-date"); dobStr != "" && visitStr != "" {
		dob, err := time.Parse("2006-01-02", dobStr)
		if err != nil {
			return fmt.Errorf("invalid --dob: %w", err)
		}
		visitDate, err := time.Parse("2006-01-02", visitStr)
		if err != nil {
			return fmt.Errorf("invalid --visit-date: %w", err)
		}
		age = visits.AgeYears(dob, visitDate)
	}
	if age < 0 {
		return errMissingObservation
	}

	length := cmd.Float("length")
	est, err := table.Estimate(age, length)
	if err != nil {
		return err
	}

	fmt.Printf("Gender %s: age %.2f years (nearest table age %.0f), axial length %.2f mm ≈ %s percentile (curve value %.2f mm).\n",
		gender, age, est.NearestAge, length, routes.Ordinal(est.PercentileLabel), est.PercentileValue)

	return nil
}
