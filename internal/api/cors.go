package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// CORSConfig describes the cross-origin policy the API answers with.
type CORSConfig struct {
	AllowOrigin  string
	AllowMethods []string
	AllowHeaders []string
	MaxAge       int
}

// DefaultCORSConfig allows any origin so fleet dashboards and operator
// tooling served elsewhere can call the node directly.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigin:  "*",
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization", "Accept", "Origin"},
		MaxAge:       86400,
	}
}

// corsHeaders is the precomputed header set for a CORSConfig.
type corsHeaders struct {
	origin  string
	methods string
	headers string
	maxAge  string
}

func (c CORSConfig) compile() corsHeaders {
	return corsHeaders{
		origin:  c.AllowOrigin,
		methods: strings.Join(c.AllowMethods, ", "),
		headers: strings.Join(c.AllowHeaders, ", "),
		maxAge:  strconv.Itoa(c.MaxAge),
	}
}

func (h corsHeaders) apply(set func(key, value string)) {
	set("Access-Control-Allow-Origin", h.origin)
	set("Access-Control-Allow-Methods", h.methods)
	set("Access-Control-Allow-Headers", h.headers)
	set("Access-Control-Max-Age", h.maxAge)
}

// NewCORSMiddleware stamps the policy headers onto every response and
// short-circuits preflight requests.
func NewCORSMiddleware(config CORSConfig) func(huma.Context, func(huma.Context)) {
	compiled := config.compile()

	return func(ctx huma.Context, next func(huma.Context)) {
		compiled.apply(ctx.SetHeader)

		if ctx.Method() == http.MethodOptions {
			ctx.SetStatus(http.StatusNoContent)
			return
		}

		next(ctx)
	}
}

// AddCORSHandler registers a preflight handler on the mux. Huma middleware
// never sees OPTIONS requests for unregistered method/path pairs, so the
// mux answers them directly.
func AddCORSHandler(mux *http.ServeMux, config CORSConfig) {
	compiled := config.compile()

	mux.HandleFunc("OPTIONS /", func(w http.ResponseWriter, r *http.Request) {
		compiled.apply(w.Header().Set)
		w.WriteHeader(http.StatusNoContent)
	})
}
