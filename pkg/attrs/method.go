package attrs

// HTTPMethod is the request verb of an HTTP access.
type HTTPMethod string

const (
	MethodGet     HTTPMethod = "GET"
	MethodHead    HTTPMethod = "HEAD"
	MethodPost    HTTPMethod = "POST"
	MethodPut     HTTPMethod = "PUT"
	MethodDelete  HTTPMethod = "DELETE"
	MethodConnect HTTPMethod = "CONNECT"
	MethodOptions HTTPMethod = "OPTIONS"
	MethodTrace   HTTPMethod = "TRACE"
	MethodPatch   HTTPMethod = "PATCH"
)

var httpMethods = []HTTPMethod{
	MethodGet,
	MethodHead,
	MethodPost,
	MethodPut,
	MethodDelete,
	MethodConnect,
	MethodOptions,
	MethodTrace,
	MethodPatch,
}

// HTTPMethods returns every recognized HTTP verb
func HTTPMethods() []HTTPMethod {
	out := make([]HTTPMethod, len(httpMethods))
	copy(out, httpMethods)
	return out
}

// Valid reports whether m is one of the recognized verbs. Matching is case-sensitive.
func (m HTTPMethod) Valid() bool {
	for _, v := range httpMethods {
		if m == v {
			return true
		}
	}
	return false
}
