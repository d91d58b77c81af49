package parser

import (
	"testing"

	"github.com/mchurichi/ddattrs/pkg/attrs"
)

func TestRemap(t *testing.T) {
	tests := []struct {
		name         string
		meta         *attrs.LogMetadata
		wantStatus   attrs.Status
		wantMessage  string
		wantService  string
		wantHost     string
		wantConsumed int
	}{
		{
			name:         "level becomes status",
			meta:         &attrs.LogMetadata{Extra: map[string]any{"level": "WARN"}},
			wantStatus:   attrs.StatusWarning,
			wantConsumed: 1,
		},
		{
			name:         "severity becomes status",
			meta:         &attrs.LogMetadata{Extra: map[string]any{"severity": "fatal"}},
			wantStatus:   attrs.StatusCritical,
			wantConsumed: 1,
		},
		{
			name:       "unrecognized level is left alone",
			meta:       &attrs.LogMetadata{Extra: map[string]any{"level": "verbose"}},
			wantStatus: "",
		},
		{
			name:       "existing status wins",
			meta:       &attrs.LogMetadata{Status: attrs.StatusInfo, Extra: map[string]any{"level": "error"}},
			wantStatus: attrs.StatusInfo,
		},
		{
			name:       "syslog severity becomes status",
			meta:       &attrs.LogMetadata{Syslog: &attrs.Syslog{Severity: attrs.Int64(0)}},
			wantStatus: attrs.StatusEmergency,
		},
		{
			name:         "msg becomes message",
			meta:         &attrs.LogMetadata{Extra: map[string]any{"msg": "hello"}},
			wantMessage:  "hello",
			wantConsumed: 1,
		},
		{
			name:        "syslog appname and hostname",
			meta:        &attrs.LogMetadata{Syslog: &attrs.Syslog{Appname: "nginx", Hostname: "edge-1"}},
			wantService: "nginx",
			wantHost:    "edge-1",
		},
		{
			name:        "existing service and host win",
			meta:        &attrs.LogMetadata{Service: "api", Host: "web-01", Syslog: &attrs.Syslog{Appname: "nginx", Hostname: "edge-1"}},
			wantService: "api",
			wantHost:    "web-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			consumed := Remap(tt.meta)
			if len(consumed) != tt.wantConsumed {
				t.Errorf("Remap() consumed = %v, want %d keys", consumed, tt.wantConsumed)
			}
			if tt.meta.Status != tt.wantStatus {
				t.Errorf("Remap() Status = %v, want %v", tt.meta.Status, tt.wantStatus)
			}
			if tt.meta.Message != tt.wantMessage {
				t.Errorf("Remap() Message = %v, want %v", tt.meta.Message, tt.wantMessage)
			}
			if tt.meta.Service != tt.wantService {
				t.Errorf("Remap() Service = %v, want %v", tt.meta.Service, tt.wantService)
			}
			if tt.meta.Host != tt.wantHost {
				t.Errorf("Remap() Host = %v, want %v", tt.meta.Host, tt.wantHost)
			}
			for _, key := range consumed {
				if _, ok := tt.meta.Extra[key]; ok {
					t.Errorf("Remap() left consumed key %v in Extra", key)
				}
			}
		})
	}

	if got := Remap(nil); got != nil {
		t.Errorf("Remap(nil) = %v, want nil", got)
	}
}
