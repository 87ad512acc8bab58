package geoloc

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPResolver_Resolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/8.8.8.8", r.URL.Path)
		assert.Equal(t, "status,countryCode,lat,lon", r.URL.Query().Get("fields"))
		w.Write([]byte(`{"status":"success","countryCode":"US","lat":37.4,"lon":-122.1}`))
	}))
	defer srv.Close()

	g, err := NewHTTPResolver(srv.URL).Resolve(t.Context(), "8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, "us", g.Country)
	assert.InDelta(t, 37.4, g.Latitude, 0.001)
	assert.InDelta(t, -122.1, g.Longitude, 0.001)
}

func TestHTTPResolver_EmptyCountryFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","countryCode":"","lat":0,"lon":0}`))
	}))
	defer srv.Close()

	g, err := NewHTTPResolver(srv.URL).Resolve(t.Context(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "xx", g.Country)
}

func TestHTTPResolver_FailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPResolver(srv.URL).Resolve(t.Context(), "127.0.0.1")
	assert.Error(t, err)
}

func TestHTTPResolver_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPResolver(srv.URL).Resolve(t.Context(), "8.8.8.8")
	assert.Error(t, err)
}
