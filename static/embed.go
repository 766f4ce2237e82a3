/*
 * Copyright 2026 Li Chakyin
 * SPDX-License-Identifier: Apache-2.0
 */
package static

import "embed"

// Static contains embedded files from the static directory.
//
//go:embed *.css
var Static embed.FS
