package attrs

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the severity of a log entry.
type Status string

// Severity levels, most severe first.
const (
	StatusEmergency Status = "emerg"
	StatusAlert     Status = "alert"
	StatusCritical  Status = "crit"
	StatusError     Status = "err"
	StatusWarning   Status = "warning"
	StatusNotice    Status = "notice"
	StatusInfo      Status = "info"
	StatusDebug     Status = "debug"
)

// ErrUnknownStatus is returned when a string is not one of the severity literals.
var ErrUnknownStatus = errors.New("unknown status")

var statuses = []Status{
	StatusEmergency,
	StatusAlert,
	StatusCritical,
	StatusError,
	StatusWarning,
	StatusNotice,
	StatusInfo,
	StatusDebug,
}

// Statuses returns every severity level in descending severity order
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// Valid reports whether s is one of the severity literals
func (s Status) Valid() bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus returns the Status for an exact severity literal
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// NormalizeStatus maps common level spellings onto a severity level
func NormalizeStatus(level string) (Status, bool) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "EMERG", "EMERGENCY", "PANIC":
		return StatusEmergency, true
	case "ALERT":
		return StatusAlert, true
	case "CRIT", "CRITICAL", "FATAL":
		return StatusCritical, true
	case "ERR", "ERROR":
		return StatusError, true
	case "WARN", "WARNING":
		return StatusWarning, true
	case "NOTICE":
		return StatusNotice, true
	case "INFO", "INFORMATION", "INFORMATIONAL":
		return StatusInfo, true
	case "DEBUG", "DBG", "TRACE", "TRC":
		return StatusDebug, true
	default:
		return "", false
	}
}

// StatusFromSyslogSeverity maps an RFC 5424 severity (0-7) onto a severity level
func StatusFromSyslogSeverity(n int64) (Status, bool) {
	if n < 0 || n >= int64(len(statuses)) {
		return "", false
	}
	return statuses[n], true
}
