/*
 * Copyright 2026 Li Chakyin
 * SPDX-License-Identifier: Apache-2.0
 */
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lichakyin/axial-length/cmd"
)

func main() {
	app := &cli.Command{
		Name:  "axial-length",
		Usage: "Axial length growth curves and visit tracking",
		Commands: []*cli.Command{
			cmd.CmdStart,
			cmd.CmdEstimate,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
