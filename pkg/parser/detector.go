package parser

import (
	"fmt"

	"github.com/mchurichi/ddattrs/pkg/attrs"
)

// Options configures a Detector
type Options struct {
	Checker *attrs.Checker
	// Remap applies Remap to every parsed record.
	Remap bool
}

// Detector auto-detects and parses log formats
type Detector struct {
	parsers []Parser
	json    *JSONParser
	logfmt  *LogfmtParser
	checker *attrs.Checker
	remap   bool
}

// NewDetector creates a new format detector
func NewDetector(opts Options) *Detector {
	checker := opts.Checker
	if checker == nil {
		checker = attrs.NewChecker()
	}
	jp := NewJSONParser(checker)
	lp := NewLogfmtParser(checker)
	return &Detector{
		parsers: []Parser{
			jp, // Try JSON first, it only claims complete objects
			lp, // Then logfmt (key=value)
		},
		json:    jp,
		logfmt:  lp,
		checker: checker,
		remap:   opts.Remap,
	}
}

// Parse attempts to parse a line with auto-detection
func (d *Detector) Parse(line string) (*attrs.LogMetadata, *attrs.Report, error) {
	for _, parser := range d.parsers {
		if parser.CanParse(line) {
			return d.finish(parser.Parse(line))
		}
	}

	// If no parser worked, the whole line is the message
	m := &attrs.LogMetadata{Message: line}
	return d.finish(m, d.checker.Validate(m), nil)
}

// ParseWithFormat parses a line with a specific format
func (d *Detector) ParseWithFormat(line, format string) (*attrs.LogMetadata, *attrs.Report, error) {
	var parser Parser

	switch format {
	case "json":
		parser = d.json
	case "logfmt":
		parser = d.logfmt
	case "auto", "":
		return d.Parse(line)
	default:
		return nil, nil, fmt.Errorf("unknown format: %s", format)
	}

	if !parser.CanParse(line) {
		return nil, nil, fmt.Errorf("line does not match format %s", format)
	}

	return d.finish(parser.Parse(line))
}

func (d *Detector) finish(m *attrs.LogMetadata, r *attrs.Report, err error) (*attrs.LogMetadata, *attrs.Report, error) {
	if err != nil || !d.remap {
		return m, r, err
	}
	dropUnknown(r, Remap(m))
	return m, r, nil
}
