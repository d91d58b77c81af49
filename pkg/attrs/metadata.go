// Package attrs declares the reserved attributes of a Datadog log entry.
package attrs

// LogMetadata holds the reserved attributes of a structured log entry.
// Every field is optional. Keys outside the reserved set are kept in Extra
// and encoded at the top level next to the known fields.
type LogMetadata struct {
	// Host is the name of the originating host as defined in metrics.
	Host string `json:"host,omitempty"`
	// Source is the integration name, the technology the log originated from (nginx, postgresql).
	Source string `json:"source,omitempty"`
	// Status is the level/severity of the log.
	Status Status `json:"status,omitempty" validate:"omitempty,ddstatus"`
	// Service is the name of the application or service generating the log events.
	Service string `json:"service,omitempty"`
	// Message is the body of the log entry, indexed for full text search.
	Message string `json:"message,omitempty"`

	Error  *Error  `json:"error,omitempty"`
	Logger *Logger `json:"logger,omitempty"`

	// Duration of any kind in nanoseconds: response time, query time, latency.
	Duration int64 `json:"duration,omitempty" validate:"gte=0"`

	DB      *DB      `json:"db,omitempty"`
	Usr     *User    `json:"usr,omitempty"`
	Syslog  *Syslog  `json:"syslog,omitempty"`
	DNS     *DNS     `json:"dns,omitempty"`
	Evt     *Event   `json:"evt,omitempty"`
	Network *Network `json:"network,omitempty"`
	HTTP    *HTTP    `json:"http,omitempty"`

	// Extra holds every non-reserved attribute. Values are nil, string,
	// a number (json.Number after decoding), or a map/slice.
	Extra map[string]any `json:"-" validate:"-"`
}

// Error describes an error attached to the log.
type Error struct {
	// Message is a concise, one-line explanation of the event.
	Message string `json:"message,omitempty"`
	// Stack is the stack trace or complementary information about the error.
	Stack string `json:"stack,omitempty"`
	// Kind is the type of the error ("Exception", "OSError").
	Kind string `json:"kind,omitempty"`
}

// Logger describes the logging call site.
type Logger struct {
	Name       string   `json:"name,omitempty"`
	ThreadName string   `json:"thread_name,omitempty"`
	MethodName string   `json:"method_name,omitempty"`
	Version    *Version `json:"version,omitempty"`
}

// DB holds database related attributes.
type DB struct {
	// Instance is the database instance name, "customers" for jdbc:mysql://127.0.0.1:3306/customers.
	Instance  string `json:"instance,omitempty"`
	Statement string `json:"statement,omitempty"`
	// Operation performed ("query", "update", "delete").
	Operation string `json:"operation,omitempty"`
	User      string `json:"user,omitempty"`
}

// User identifies the acting end user.
type User struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Syslog holds attributes added by a syslog or log-shipper agent.
type Syslog struct {
	Hostname string `json:"hostname,omitempty"`
	// Appname is generally remapped to the service attribute.
	Appname string `json:"appname,omitempty"`
	// Severity is the RFC 5424 severity, generally remapped to the status
	// attribute. nil when unspecified since 0 means emergency.
	Severity  *int64 `json:"severity,omitempty" validate:"omitempty,gte=0"`
	Timestamp string `json:"timestamp,omitempty"`
	Env       string `json:"env,omitempty"`
}

// DNS holds attributes of a DNS query and its answer.
type DNS struct {
	ID       string     `json:"id,omitempty"`
	Question *DNSRecord `json:"question,omitempty"`
	Answer   *DNSRecord `json:"answer,omitempty"`
	Flags    *DNSFlags  `json:"flags,omitempty"`
}

// DNSRecord is the shape shared by a DNS question and a DNS answer.
type DNSRecord struct {
	// Name is the queried domain for a question and the answered IP for an answer.
	Name  string `json:"name,omitempty"`
	Type  string `json:"type,omitempty"`
	Class string `json:"class,omitempty"`
	// Size in bytes.
	Size int64 `json:"size,omitempty" validate:"gte=0"`
}

type DNSFlags struct {
	RCode string `json:"rcode,omitempty"`
}

// Event is a generic named event outcome.
type Event struct {
	// Name is shared across events generated by the same activity (authentication).
	Name string `json:"name,omitempty"`
	// Outcome is the result of the event (success, failure).
	Outcome string `json:"outcome,omitempty"`
}

// Network holds attributes of the underlying network communication.
type Network struct {
	Client      *Client      `json:"client,omitempty"`
	Destination *Destination `json:"destination,omitempty"`
	// BytesRead is the number of bytes sent from the client to the server.
	BytesRead int64 `json:"bytes_read,omitempty" validate:"gte=0"`
	// BytesWritten is the number of bytes sent from the server to the client.
	BytesWritten int64 `json:"bytes_written,omitempty" validate:"gte=0"`
}

type Client struct {
	IP    string `json:"ip,omitempty"`
	Port  int64  `json:"port,omitempty" validate:"gte=0,lte=65535"`
	GeoIP *GeoIP `json:"geoip,omitempty"`
}

type Destination struct {
	IP   string `json:"ip,omitempty"`
	Port int64  `json:"port,omitempty" validate:"gte=0,lte=65535"`
}

// GeoIP holds the geolocation of a client IP address.
type GeoIP struct {
	Country     *Country     `json:"country,omitempty"`
	Continent   *Continent   `json:"continent,omitempty"`
	Subdivision *Subdivision `json:"subdivision,omitempty"`
	City        *City        `json:"city,omitempty"`
}

type Country struct {
	Name    string `json:"name,omitempty"`
	ISOCode string `json:"iso_code,omitempty"`
}

type Continent struct {
	// Code is one of EU, AS, NA, AF, AN, SA, OC.
	Code string `json:"code,omitempty"`
	Name string `json:"name,omitempty"`
}

// Subdivision is the first subdivision level of a country (California, Sarthe).
type Subdivision struct {
	Name    string `json:"name,omitempty"`
	ISOCode string `json:"iso_code,omitempty"`
}

type City struct {
	Name string `json:"name,omitempty"`
}

// HTTP holds attributes of an HTTP request and its response.
type HTTP struct {
	URL              string            `json:"url,omitempty"`
	StatusCode       int64             `json:"status_code,omitempty" validate:"gte=0"`
	Method           HTTPMethod        `json:"method,omitempty" validate:"omitempty,httpmethod"`
	Referer          string            `json:"referer,omitempty"`
	RequestID        string            `json:"request_id,omitempty"`
	UserAgent        string            `json:"useragent,omitempty"`
	Version          string            `json:"version,omitempty"`
	URLDetails       *URLDetails       `json:"url_details,omitempty"`
	UserAgentDetails *UserAgentDetails `json:"useragent_details,omitempty"`
}

// URLDetails holds the parsed parts of the request URL.
type URLDetails struct {
	Host string `json:"host,omitempty"`
	Port int64  `json:"port,omitempty" validate:"gte=0,lte=65535"`
	Path string `json:"path,omitempty"`
	// QueryString holds the query parameters as key/value attributes.
	QueryString map[string]any `json:"queryString,omitempty"`
	Scheme      string         `json:"scheme,omitempty"`
}

// UserAgentDetails holds the parsed parts of the User-Agent header.
type UserAgentDetails struct {
	OS      *Family `json:"os,omitempty"`
	Browser *Family `json:"browser,omitempty"`
	Device  *Family `json:"device,omitempty"`
}

type Family struct {
	Family string `json:"family,omitempty"`
}

// Int64 returns a pointer to v, for optional numeric attributes
func Int64(v int64) *int64 {
	return &v
}
