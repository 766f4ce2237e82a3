/*
 * Copyright 2026 Li Chakyin
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "errors"

var (
	errInvalidChartBounds = errors.New("chart y_min must be less than y_max")
	errInvalidGender      = errors.New("gender must be Male or Female")
	errMissingObservation = errors.New("either --age or both --dob and --visit-date are required")
)
