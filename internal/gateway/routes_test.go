package gateway

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRoutesEachLegacyPathHasOneDestination(t *testing.T) {
	table, err := NewRouteTable(DefaultRoutes())
	require.NoError(t, err)
	assert.Equal(t, len(DefaultRoutes()), table.Len())

	for _, r := range DefaultRoutes() {
		got, err := table.Lookup(r.LegacyPath)
		require.NoError(t, err, r.LegacyPath)
		assert.Equal(t, r.CanonicalPath, got.CanonicalPath)
		assert.Equal(t, r.Method, got.Method)
	}
}

func TestNewRouteTableRejectsDuplicates(t *testing.T) {
	_, err := NewRouteTable([]Route{
		{LegacyPath: "/api/a", Method: http.MethodPost, CanonicalPath: "/api/v1/a"},
		{LegacyPath: "/api/a", Method: http.MethodGet, CanonicalPath: "/api/v1/b"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapped twice")
}

func TestNewRouteTableRejectsInvalidRoutes(t *testing.T) {
	cases := map[string]Route{
		"empty legacy":    {LegacyPath: "", Method: "GET", CanonicalPath: "/x"},
		"relative path":   {LegacyPath: "api/a", Method: "GET", CanonicalPath: "/x"},
		"wildcard":        {LegacyPath: "/api/*", Method: "GET", CanonicalPath: "/x"},
		"bad method":      {LegacyPath: "/api/a", Method: "TRACE", CanonicalPath: "/x"},
		"empty canonical": {LegacyPath: "/api/a", Method: "GET", CanonicalPath: ""},
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewRouteTable([]Route{r})
			assert.Error(t, err)
		})
	}
}

func TestLookupIsExactAndIgnoresQuery(t *testing.T) {
	table, err := NewRouteTable([]Route{
		{LegacyPath: "/api/asaas-get-subscription", Method: "get", CanonicalPath: "/api/v1/subscriptions/detail"},
	})
	require.NoError(t, err)

	r, err := table.Lookup("/api/asaas-get-subscription?subscriptionId=sub_1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, r.Method, "method is normalised")

	for _, p := range []string{
		"/api/asaas-get-subscription/",
		"/api/asaas-get-subscriptionX",
		"/API/asaas-get-subscription",
		"/api/asaas-get",
	} {
		_, err := table.Lookup(p)
		assert.ErrorIs(t, err, ErrRouteNotMapped, p)
	}
}

func TestRoutesIsSortedCopy(t *testing.T) {
	table, err := NewRouteTable(DefaultRoutes())
	require.NoError(t, err)

	routes := table.Routes()
	for i := 1; i < len(routes); i++ {
		assert.Less(t, routes[i-1].LegacyPath, routes[i].LegacyPath)
	}

	routes[0].CanonicalPath = "/mutated"
	again, _ := table.Lookup(routes[0].LegacyPath)
	assert.NotEqual(t, "/mutated", again.CanonicalPath)
}
