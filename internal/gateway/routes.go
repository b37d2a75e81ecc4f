package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrRouteNotMapped is returned by Lookup for paths that were never migrated.
var ErrRouteNotMapped = errors.New("route not mapped")

// Route maps one legacy endpoint onto its canonical destination.
type Route struct {
	LegacyPath    string
	Method        string
	CanonicalPath string
}

// RouteTable is the immutable legacy -> canonical mapping. Build it once with
// NewRouteTable and share it; nothing mutates it afterwards.
type RouteTable struct {
	byPath map[string]Route
}

// NewRouteTable validates routes and indexes them by legacy path. Every legacy
// path must appear exactly once.
func NewRouteTable(routes []Route) (*RouteTable, error) {
	byPath := make(map[string]Route, len(routes))
	for i, r := range routes {
		r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
		r.LegacyPath = strings.TrimSpace(r.LegacyPath)
		r.CanonicalPath = strings.TrimSpace(r.CanonicalPath)

		if r.LegacyPath == "" || r.CanonicalPath == "" || r.Method == "" {
			return nil, fmt.Errorf("route %d: legacy path, method and canonical path are required", i)
		}
		if !strings.HasPrefix(r.LegacyPath, "/") || !strings.HasPrefix(r.CanonicalPath, "/") {
			return nil, fmt.Errorf("route %d: paths must be absolute", i)
		}
		if strings.ContainsAny(r.LegacyPath, "?*") {
			return nil, fmt.Errorf("route %d: legacy path %q must be a literal path", i, r.LegacyPath)
		}
		if !validMethod(r.Method) {
			return nil, fmt.Errorf("route %d: unsupported method %q", i, r.Method)
		}
		if prev, dup := byPath[r.LegacyPath]; dup {
			return nil, fmt.Errorf("legacy path %s mapped twice (%s and %s)", r.LegacyPath, prev.CanonicalPath, r.CanonicalPath)
		}
		byPath[r.LegacyPath] = r
	}
	return &RouteTable{byPath: byPath}, nil
}

func validMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// Lookup finds the route for path. A query string, if present, is ignored.
func (t *RouteTable) Lookup(path string) (Route, error) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	r, ok := t.byPath[path]
	if !ok {
		return Route{}, ErrRouteNotMapped
	}
	return r, nil
}

// Routes returns a copy of the table sorted by legacy path.
func (t *RouteTable) Routes() []Route {
	out := make([]Route, 0, len(t.byPath))
	for _, r := range t.byPath {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LegacyPath < out[j].LegacyPath })
	return out
}

// Len returns the number of mapped legacy paths.
func (t *RouteTable) Len() int {
	return len(t.byPath)
}

// Canonical endpoints served by this service.
const (
	PathPlanChange         = "/api/v1/subscriptions/plan-change"
	PathBillingType        = "/api/v1/subscriptions/billing-type"
	PathSubscriptionDetail = "/api/v1/subscriptions/detail"
	PathHublaSubscription  = "/api/v1/hubla/subscriptions/detail"
	PathHublaCancel        = "/api/v1/hubla/subscriptions/cancel"
)

// DefaultRoutes is the set of legacy endpoints still served for old clients.
func DefaultRoutes() []Route {
	return []Route{
		{LegacyPath: "/api/asaas-plan-change", Method: http.MethodPost, CanonicalPath: PathPlanChange},
		{LegacyPath: "/api/asaas-update-subscription", Method: http.MethodPost, CanonicalPath: PathPlanChange},
		{LegacyPath: "/api/asaas-change-payment-method", Method: http.MethodPost, CanonicalPath: PathBillingType},
		{LegacyPath: "/api/asaas-get-subscription", Method: http.MethodGet, CanonicalPath: PathSubscriptionDetail},
		{LegacyPath: "/api/hubla-get-subscription", Method: http.MethodGet, CanonicalPath: PathHublaSubscription},
		{LegacyPath: "/api/hubla-cancel-subscription", Method: http.MethodPost, CanonicalPath: PathHublaCancel},
	}
}
