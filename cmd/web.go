/*
 * Copyright 2026 Li Chakyin
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/urfave/cli/v3"

	"github.com/lichakyin/axial-length/logging"
	"github.com/lichakyin/axial-length/refdata"
	"github.com/lichakyin/axial-length/routes"
	"github.com/lichakyin/axial-length/static"
	"github.com/lichakyin/axial-length/templates"
	"github.com/lichakyin/axial-length/visits"
)

var CmdStart = &cli.Command{
	Name:    "start",
	Aliases: []string{"run"},
	Usage:   "Start the web server",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "addr",
			Usage: "the web server listen address",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to a YAML configuration file",
		},
		&cli.StringFlag{
			Name:  "tables-dir",
			Usage: "directory with boys.csv and girls.csv reference tables (default: embedded tables)",
		},
		&cli.BoolFlag{
			Name:  "dev",
			Value: false,
			Usage: "enables development mode (for templates)",
		},
	},
	Action: start,
}

func start(ctx context.Context, cmd *cli.Command) error {
	logging.Init()

	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	if addr := cmd.String("addr"); addr != "" {
		cfg.Addr = addr
	}
	if dir := cmd.String("tables-dir"); dir != "" {
		cfg.TablesDir = dir
	}
	if cmd.Bool("dev") {
		flamego.SetEnv(flamego.EnvTypeDev)
	}

	tables, err := buildTableSource(cfg.TablesDir)
	if err != nil {
		return fmt.Errorf("failed to load reference tables: %w", err)
	}

	app := routes.NewApp(tables, visits.NewStore())
	app.ChartYMin = cfg.Chart.YMin
	app.ChartYMax = cfg.Chart.YMax

	f := flamego.New()

	fs, err := template.EmbedFS(templates.Templates, ".", []string{".html"})
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	f.Use(flamego.Recovery())
	f.Use(session.Sessioner())
	f.Use(csrf.Csrfer())
	f.Use(template.Templater(template.Options{
		FileSystem: fs,
	}))
	f.Use(flamego.Static(flamego.StaticOptions{
		FileSystem: http.FS(static.Static),
	}))
	f.Use(routes.RequestLogger)
	f.Use(routes.NoCacheHeaders())
	f.Use(routes.CSRFInjector())

	f.Get("/", app.GrowthPage)
	f.Post("/visits", csrf.Validate, app.AddVisit)
	f.Post("/gender", csrf.Validate, app.SetGender)

	appLogger.Info("starting web server", "addr", cfg.Addr)
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      f,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return srv.ListenAndServe()
}

// buildTableSource preloads both genders' tables so a missing or malformed
// file surfaces at startup rather than on first page view. With no override
// directory the embedded tables are used.
func buildTableSource(dir string) (routes.TableSource, error) {
	if dir == "" {
		return refdata.Default, nil
	}

	cache := make(map[refdata.Gender]*refdata.Table)
	for _, gender := range []refdata.Gender{refdata.GenderMale, refdata.GenderFemale} {
		table, err := refdata.LoadDir(dir, gender)
		if err != nil {
			return nil, err
		}
		cache[gender] = table
	}

	return func(gender refdata.Gender) (*refdata.Table, error) {
		table, ok := cache[gender]
		if !ok {
			return nil, fmt.Errorf("%w: %q", refdata.ErrUnknownGender, gender)
		}
		return table, nil
	}, nil
}
