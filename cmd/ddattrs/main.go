package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli"

	"github.com/mchurichi/ddattrs/internal/config"
	"github.com/mchurichi/ddattrs/internal/logging"
	"github.com/mchurichi/ddattrs/pkg/attrs"
	"github.com/mchurichi/ddattrs/pkg/parser"
	"github.com/mchurichi/ddattrs/pkg/query"
)

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		if _, ok := err.(cli.ExitCoder); !ok {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "ddattrs"
	app.Usage = "Check and normalize logs against the Datadog reserved attributes"
	app.UsageText = "ddattrs [global options] [command] [FILE...]"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.HideVersion = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to config file",
			Value: config.DefaultPath(),
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Log format: auto, json, logfmt",
		},
		&cli.StringFlag{
			Name:  "filter",
			Usage: "Only handle records matching this Lucene-style query",
		},
		&cli.BoolFlag{
			Name:  "no-remap",
			Usage: "Keep level/msg style keys as extra attributes",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "Output format: json, yaml, none",
		},
		&cli.StringFlag{
			Name:   "log-level",
			Usage:  "Log level: trace, debug, info, warn, error, disabled",
			EnvVar: "DDATTRS_LOG_LEVEL",
		},
	}
	app.Action = checkAction
	app.Commands = []cli.Command{
		{
			Name:      "check",
			Usage:     "Validate every line; exits with status 1 if any line has a shape violation",
			ArgsUsage: "[FILE...]",
			Action:    checkAction,
		},
		{
			Name:      "normalize",
			Usage:     "Decode, remap and re-emit every record in canonical form",
			ArgsUsage: "[FILE...]",
			Action:    normalizeAction,
		},
		{
			Name:   "fields",
			Usage:  "List the reserved attributes and their kinds",
			Action: fieldsAction,
		},
		{
			Name:   "statuses",
			Usage:  "List the accepted status values by syslog severity",
			Action: statusesAction,
		},
	}
	return app
}

// settings is the merged result of the config file and the global flags
type settings struct {
	cfg      *config.Config
	filter   *query.Query
	detector *parser.Detector
	logger   zerolog.Logger
}

// globals returns the context holding the global flags
func globals(c *cli.Context) *cli.Context {
	if p := c.Parent(); p != nil {
		return p
	}
	return c
}

func loadSettings(c *cli.Context) (*settings, error) {
	g := globals(c)

	cfg, err := config.Load(g.String("config"))
	if err != nil {
		return nil, err
	}

	// Override config with CLI flags
	if v := g.String("format"); v != "" {
		cfg.Parsing.Format = v
	}
	if g.Bool("no-remap") {
		cfg.Parsing.Remap = false
	}
	if v := g.String("output"); v != "" {
		cfg.Output.Format = v
	}
	if v := g.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log, c.App.ErrWriter)
	if err != nil {
		return nil, err
	}

	filter, err := query.Parse(g.String("filter"))
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	checker := attrs.NewChecker(attrs.AllowBooleans(cfg.Validation.AllowBooleans))
	return &settings{
		cfg:      cfg,
		filter:   filter,
		detector: parser.NewDetector(parser.Options{Checker: checker, Remap: cfg.Parsing.Remap}),
		logger:   logger,
	}, nil
}
