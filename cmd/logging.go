/*
 * Copyright 2026 Li Chakyin
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "github.com/lichakyin/axial-length/logging"

var appLogger = logging.Logger(logging.SourceApp)
