package attrs

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// sameJSON compares two encoded documents value by value, numbers textually.
func sameJSON(t *testing.T, a, b []byte) bool {
	t.Helper()
	decode := func(data []byte) any {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			t.Fatalf("invalid JSON %s: %v", data, err)
		}
		return v
	}
	return reflect.DeepEqual(decode(a), decode(b))
}

func TestRoundTrip_UnknownKeyOnly(t *testing.T) {
	input := `{"custom_tag":"x"}`

	m, report, err := Decode([]byte(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !report.OK() {
		t.Errorf("Decode() violations = %v, want none", report.Violations)
	}
	if m.Extra["custom_tag"] != "x" {
		t.Errorf("Decode() Extra[custom_tag] = %v, want x", m.Extra["custom_tag"])
	}

	out, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != input {
		t.Errorf("Marshal() = %s, want %s", out, input)
	}
}

func TestRoundTrip_Nested(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "http request",
			input: `{"host":"web-01","status":"err","http":{"method":"GET","status_code":500,"url_details":{"host":"api.example.com","port":443,"path":"/v1/orders","scheme":"https"}}}`,
		},
		{
			name:  "geoip depth",
			input: `{"network":{"client":{"ip":"1.2.3.4","port":51234,"geoip":{"country":{"name":"France","iso_code":"FR"},"continent":{"code":"EU","name":"Europe"},"subdivision":{"name":"Sarthe","iso_code":"SA"},"city":{"name":"Le Mans"}}},"destination":{"ip":"10.0.0.2","port":8080},"bytes_read":1024,"bytes_written":2048}}`,
		},
		{
			name:  "dns and event",
			input: `{"dns":{"id":"42","question":{"name":"example.com","type":"A","class":"IN","size":29},"answer":{"name":"93.184.216.34","type":"A","class":"IN","size":45},"flags":{"rcode":"NOERROR"}},"evt":{"name":"authentication","outcome":"success"}}`,
		},
		{
			name:  "error logger db usr syslog",
			input: `{"error":{"message":"boom","stack":"at main()","kind":"OSError"},"logger":{"name":"app","thread_name":"main","method_name":"run","version":"1.4.2"},"db":{"instance":"customers","statement":"SELECT 1","operation":"query","user":"admin"},"usr":{"id":"u1","name":"Ada","email":"ada@example.com"},"syslog":{"hostname":"h","appname":"a","severity":3,"timestamp":"2024-01-15T10:30:00Z","env":"prod"}}`,
		},
		{
			name:  "useragent details and query string",
			input: `{"http":{"url":"https://x.test/?a=1","useragent":"curl/8.0","version":"1.1","referer":"https://ref.test","request_id":"r-1","useragent_details":{"os":{"family":"Linux"},"browser":{"family":"curl"},"device":{"family":"Other"}},"url_details":{"queryString":{"a":"1","b":["x","y"]}}}}`,
		},
		{
			name:  "numeric logger version and extras",
			input: `{"service":"api","logger":{"version":3},"team":"core","ratio":0.25,"ctx":{"deep":{"k":[1,2,3]}},"none":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, report, err := Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !report.OK() {
				t.Errorf("Decode() violations = %v, want none", report.Violations)
			}

			out, err := Marshal(m)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if !sameJSON(t, []byte(tt.input), out) {
				t.Errorf("round trip mismatch\n got: %s\nwant: %s", out, tt.input)
			}

			var again LogMetadata
			if err := json.Unmarshal(out, &again); err != nil {
				t.Fatalf("json.Unmarshal() error = %v", err)
			}
			if !reflect.DeepEqual(m, &again) {
				t.Errorf("second decode = %+v, want %+v", again, *m)
			}
		})
	}
}

func TestRoundTrip_NumbersNotCoerced(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"duration beyond float precision", `{"duration":9007199254740993}`},
		{"syslog severity", `{"syslog":{"severity":7}}`},
		{"syslog emergency severity", `{"syslog":{"severity":0}}`},
		{"client port", `{"network":{"client":{"port":65535}}}`},
		{"byte counters", `{"network":{"bytes_read":4294967296,"bytes_written":1}}`},
		{"dns size", `{"dns":{"question":{"size":512}}}`},
		{"extra big integer", `{"counter":123456789012345678901234567890}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, report, err := Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !report.OK() {
				t.Errorf("Decode() violations = %v, want none", report.Violations)
			}
			out, err := Marshal(m)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(out) != tt.input {
				t.Errorf("Marshal() = %s, want %s", out, tt.input)
			}
		})
	}

	m, _, err := Decode([]byte(`{"duration":9007199254740993}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if m.Duration != 9007199254740993 {
		t.Errorf("Decode() Duration = %d, want 9007199254740993", m.Duration)
	}
}

func TestMarshal_ReservedWinsOverExtra(t *testing.T) {
	m := &LogMetadata{Host: "web-01", Extra: map[string]any{"host": "shadow", "zone": "eu"}}

	out, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"host":"web-01","zone":"eu"}`
	if string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}

func TestUnmarshal_ReservedNamesAreCaseSensitive(t *testing.T) {
	var m LogMetadata
	if err := json.Unmarshal([]byte(`{"HOST":"a","host":"b"}`), &m); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if m.Host != "b" {
		t.Errorf("Host = %v, want b", m.Host)
	}
	if m.Extra["HOST"] != "a" {
		t.Errorf("Extra[HOST] = %v, want a", m.Extra["HOST"])
	}
}

func TestVersion(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantNum  bool
		wantText string
	}{
		{"text", `"1.2.3"`, false, "1.2.3"},
		{"integer", `2`, true, "2"},
		{"float", `2.5`, true, "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Version
			if err := json.Unmarshal([]byte(tt.input), &v); err != nil {
				t.Fatalf("json.Unmarshal() error = %v", err)
			}
			if v.IsNumber() != tt.wantNum {
				t.Errorf("IsNumber() = %v, want %v", v.IsNumber(), tt.wantNum)
			}
			if v.String() != tt.wantText {
				t.Errorf("String() = %v, want %v", v.String(), tt.wantText)
			}
			out, err := json.Marshal(v)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			if string(out) != tt.input {
				t.Errorf("json.Marshal() = %s, want %s", out, tt.input)
			}
		})
	}

	var v Version
	if err := json.Unmarshal([]byte(`{"a":1}`), &v); err == nil {
		t.Error("json.Unmarshal() of object into Version succeeded, want error")
	}
	if _, err := json.Marshal(Version{Number: "abc"}); err == nil {
		t.Error("json.Marshal() of invalid numeric version succeeded, want error")
	}
}

func TestLookup(t *testing.T) {
	m := &LogMetadata{
		Status: StatusError,
		HTTP: &HTTP{
			Method:     MethodGet,
			URLDetails: &URLDetails{Host: "api.example.com", Port: 443},
		},
		Extra: map[string]any{"custom_tag": "x", "k8s.pod": "web-1"},
	}

	tests := []struct {
		path   string
		want   any
		wantOK bool
	}{
		{"status", "err", true},
		{"http.method", "GET", true},
		{"http.url_details.port", json.Number("443"), true},
		{"custom_tag", "x", true},
		{"k8s.pod", "web-1", true},
		{"http.url_details.path", nil, false},
		{"host", nil, false},
		{"status.x", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := Lookup(m, tt.path)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lookup(%q) = %#v, want %#v", tt.path, got, tt.want)
			}
		})
	}
}

func TestMarshalYAML(t *testing.T) {
	m := &LogMetadata{
		Status: StatusError,
		HTTP:   &HTTP{URLDetails: &URLDetails{Port: 443}},
		Extra:  map[string]any{"ratio": json.Number("0.5")},
	}

	out, err := yaml.Marshal(m)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	for _, want := range []string{"status: err", "port: 443", "ratio: 0.5"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("yaml.Marshal() = %s, want it to contain %q", out, want)
		}
	}
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	m := &LogMetadata{
		Message: "a<b & c>d",
		Logger:  &Logger{Version: TextVersion("<v1>")},
		Extra:   map[string]any{"query": "x=<1>&y=2"},
	}

	out, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{`"a<b & c>d"`, `"<v1>"`, `"x=<1>&y=2"`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("Marshal() = %s, want it to contain %s", out, want)
		}
	}

	// An encoder that does not escape keeps the text as is
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if strings.Contains(buf.String(), `\u003c`) {
		t.Errorf("Encode() = %s, want no \\u003c escapes", buf.String())
	}
}

func TestMarshalYAML_LargeIntegers(t *testing.T) {
	m := &LogMetadata{
		Extra: map[string]any{
			"big":      json.Number("18446744073709551617"),
			"negative": json.Number("-92233720368547758080"),
			"max":      json.Number("9223372036854775807"),
		},
	}

	out, err := yaml.Marshal(m)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	for _, want := range []string{"18446744073709551617", "-92233720368547758080", "max: 9223372036854775807"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("yaml.Marshal() = %s, want it to contain %q", out, want)
		}
	}
	if strings.Contains(string(out), "e+") {
		t.Errorf("yaml.Marshal() = %s, want no float notation", out)
	}
}
