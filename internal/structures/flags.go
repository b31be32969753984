package structures

import "net/http"

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Method  string
	Url     string
	Handler http.Handler
}

// Pattern is the ServeMux pattern of the route, e.g. "GET /data.js".
func (r Route) Pattern() string {
	return r.Method + " " + r.Url
}
