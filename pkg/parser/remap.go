package parser

import (
	"slices"

	"github.com/mchurichi/ddattrs/pkg/attrs"
)

var (
	statusKeys  = []string{"level", "severity", "lvl", "loglevel"}
	messageKeys = []string{"msg"}
)

// Remap fills empty reserved attributes from common alternatives:
// level-like extras and syslog.severity become status, msg becomes message,
// syslog.appname and syslog.hostname become service and host.
// It returns the extra keys that were consumed.
func Remap(m *attrs.LogMetadata) []string {
	if m == nil {
		return nil
	}
	var consumed []string

	if m.Status == "" {
		for _, key := range statusKeys {
			level, ok := m.Extra[key].(string)
			if !ok {
				continue
			}
			if st, ok := attrs.NormalizeStatus(level); ok {
				m.Status = st
				delete(m.Extra, key)
				consumed = append(consumed, key)
				break
			}
		}
	}
	if m.Status == "" && m.Syslog != nil && m.Syslog.Severity != nil {
		if st, ok := attrs.StatusFromSyslogSeverity(*m.Syslog.Severity); ok {
			m.Status = st
		}
	}

	if m.Message == "" {
		for _, key := range messageKeys {
			if msg, ok := m.Extra[key].(string); ok {
				m.Message = msg
				delete(m.Extra, key)
				consumed = append(consumed, key)
				break
			}
		}
	}

	if m.Syslog != nil {
		if m.Service == "" {
			m.Service = m.Syslog.Appname
		}
		if m.Host == "" {
			m.Host = m.Syslog.Hostname
		}
	}

	if len(m.Extra) == 0 {
		m.Extra = nil
	}
	return consumed
}

// dropUnknown removes consumed keys from the report's unknown list.
func dropUnknown(r *attrs.Report, consumed []string) {
	if r == nil || len(consumed) == 0 {
		return
	}
	kept := r.Unknown[:0]
	for _, u := range r.Unknown {
		if !slices.Contains(consumed, u.Field) {
			kept = append(kept, u)
		}
	}
	r.Unknown = kept
}
