package address

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"Backend-Claim3000/src/config"
	"Backend-Claim3000/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupVia(t *testing.T, handler http.HandlerFunc, postcode string) ([]models.Address, error) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	oldURL := config.GetAddressURL
	config.GetAddressURL = server.URL
	t.Cleanup(func() { config.GetAddressURL = oldURL })

	return Lookup(context.Background(), postcode)
}

const providerBody = `{
	"postcode": "SW1A 2AA",
	"addresses": [
		{"line_1": "10", "line_2": "Downing Street", "line_3": "", "town_or_city": "London", "county": "", "district": "Westminster"},
		{"line_1": "11", "line_2": "Downing Street", "line_3": "Rear Flat", "town_or_city": "London", "county": "Greater London", "district": "Westminster"},
		{"line_1": "", "line_2": "Incomplete Row", "line_3": "", "town_or_city": "London", "county": "", "district": ""}
	]
}`

func TestLookup(t *testing.T) {
	t.Run("NormalizesProviderRows", func(t *testing.T) {
		addresses, err := lookupVia(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(providerBody))
		}, "sw1a 2aa")
		require.NoError(t, err)
		require.Len(t, addresses, 2) // incomplete row dropped

		first := addresses[0]
		assert.Equal(t, "10", first.House)
		assert.Equal(t, "Downing Street", first.Street)
		assert.Equal(t, "London", first.City)
		assert.Equal(t, "Westminster", first.County) // district fallback
		assert.Equal(t, "SW1A 2AA", first.Postcode)
		assert.Equal(t, "10 Downing Street, London, SW1A 2AA", first.Label)

		second := addresses[1]
		assert.Equal(t, "Downing Street Rear Flat", second.Street)
		assert.Equal(t, "Greater London", second.County)
	})

	t.Run("EmptyResultIsNotAnError", func(t *testing.T) {
		addresses, err := lookupVia(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"postcode": "ZZ9 9ZZ", "addresses": []}`))
		}, "ZZ9 9ZZ")
		require.NoError(t, err)
		assert.Empty(t, addresses)
	})

	t.Run("ProviderErrorIsAnError", func(t *testing.T) {
		_, err := lookupVia(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}, "SW1A 2AA")
		assert.Error(t, err)
	})

	t.Run("NotFoundIsAnError", func(t *testing.T) {
		_, err := lookupVia(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}, "SW1A 2AA")
		assert.Error(t, err)
	})
}

func TestFilterComplete(t *testing.T) {
	in := []models.Address{
		{House: "10", Street: "Downing Street", City: "London", Postcode: "SW1A 2AA"},
		{House: "", Street: "Downing Street", City: "London", Postcode: "SW1A 2AA"},
		{House: "11", Street: " ", City: "London", Postcode: "SW1A 2AA"},
		{House: "12", Street: "Downing Street", City: "London", Postcode: ""},
	}
	out := FilterComplete(in)
	require.Len(t, out, 1)
	assert.Equal(t, "10", out[0].House)
}
