package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"

	"github.com/mchurichi/ddattrs/internal/input"
	"github.com/mchurichi/ddattrs/internal/logging"
	"github.com/mchurichi/ddattrs/pkg/attrs"
)

// lineResult is what check prints for one input line
type lineResult struct {
	Source     string            `json:"source" yaml:"source"`
	Line       int               `json:"line" yaml:"line"`
	Valid      bool              `json:"valid" yaml:"valid"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
	Violations []violationResult `json:"violations,omitempty" yaml:"violations,omitempty"`
	Unknown    []string          `json:"unknown,omitempty" yaml:"unknown,omitempty"`
}

type violationResult struct {
	Field  string `json:"field" yaml:"field"`
	Value  any    `json:"value" yaml:"value"`
	Reason string `json:"reason" yaml:"reason"`
}

func checkAction(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}

	enc := newEncoder(s.cfg.Output.Format, c.App.Writer)
	total, invalid := 0, 0

	err = eachLine(c.Args(), func(source string, n int, line string) error {
		res := lineResult{Source: source, Line: n, Valid: true}

		m, report, err := s.detector.ParseWithFormat(line, s.cfg.Parsing.Format)
		if err != nil {
			s.logger.Warn().Err(err).Str("source", source).Int("line", n).Msg("failed to parse line")
			res.Valid = false
			res.Error = err.Error()
		} else {
			if !s.filter.Match(m) {
				return nil
			}
			logging.Violations(s.logger, n, report)
			logging.Unknown(s.logger, n, report)

			res.Valid = report.OK()
			for _, v := range report.Violations {
				res.Violations = append(res.Violations, violationResult{Field: v.Field, Value: v.Value, Reason: v.Reason})
			}
			if s.cfg.Validation.ReportUnknown {
				for _, u := range report.Unknown {
					res.Unknown = append(res.Unknown, u.Field)
				}
			}
		}

		total++
		if !res.Valid {
			invalid++
		} else if s.cfg.Output.OnlyInvalid {
			return nil
		}
		return enc.Encode(res)
	})
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	s.logger.Info().Int("lines", total).Int("invalid", invalid).Msg("check complete")
	if invalid > 0 {
		return cli.NewExitError(fmt.Sprintf("%d of %d lines have shape violations", invalid, total), 1)
	}
	return nil
}

func normalizeAction(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}

	enc := newEncoder(s.cfg.Output.Format, c.App.Writer)
	count, skipped := 0, 0

	err = eachLine(c.Args(), func(source string, n int, line string) error {
		m, report, err := s.detector.ParseWithFormat(line, s.cfg.Parsing.Format)
		if err != nil {
			s.logger.Warn().Err(err).Str("source", source).Int("line", n).Msg("failed to parse line")
			skipped++
			return nil
		}
		if !s.filter.Match(m) {
			return nil
		}
		logging.Violations(s.logger, n, report)
		logging.Unknown(s.logger, n, report)

		if s.cfg.Output.OnlyInvalid && report.OK() {
			return nil
		}
		count++
		return enc.Encode(m)
	})
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	s.logger.Info().Int("records", count).Int("skipped", skipped).Msg("normalize complete")
	return nil
}

func fieldsAction(c *cli.Context) error {
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tKIND")
	for _, f := range attrs.Fields() {
		fmt.Fprintf(w, "%s\t%s\n", f.Path, f.Kind)
	}
	return w.Flush()
}

func statusesAction(c *cli.Context) error {
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEVERITY\tSTATUS")
	for n := int64(0); ; n++ {
		status, ok := attrs.StatusFromSyslogSeverity(n)
		if !ok {
			break
		}
		fmt.Fprintf(w, "%d\t%s\n", n, status)
	}
	return w.Flush()
}

// eachLine calls fn for every non-empty line of the given files, or of stdin
// when there are none. Line numbers count from 1 per source.
func eachLine(paths []string, fn func(source string, n int, line string) error) error {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	for _, path := range paths {
		if err := scanSource(path, fn); err != nil {
			return err
		}
	}
	return nil
}

func scanSource(path string, fn func(source string, n int, line string) error) error {
	src, err := input.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	scanner := input.NewScanner(src)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Text()
		if line == "" {
			continue
		}
		if err := fn(src.Name, n, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading %s: %w", src.Name, err)
	}
	return nil
}

type encoder interface {
	Encode(v any) error
	Close() error
}

type jsonEncoder struct {
	*json.Encoder
}

func (jsonEncoder) Close() error { return nil }

type nopEncoder struct{}

func (nopEncoder) Encode(any) error { return nil }
func (nopEncoder) Close() error     { return nil }

// newEncoder writes one JSON object per line, or a stream of YAML documents
func newEncoder(format string, w io.Writer) encoder {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return enc
	case "none":
		return nopEncoder{}
	default:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		return jsonEncoder{enc}
	}
}
