package beatmap

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullName(t *testing.T) {
	b := &Beatmap{Artist: "Artist", Title: "Title", Version: "Insane"}
	assert.Equal(t, "Artist - Title [Insane]", b.FullName())
}

func TestHTTPSource_ByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/beatmaps", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("id"))
		w.Write([]byte(`{"ID":42,"SetID":7,"MD5":"abc","Artist":"A","Title":"T","Version":"V","TotalLength":180,"Mode":0}`))
	}))
	defer srv.Close()

	bm, err := NewHTTPSource(srv.URL).ByID(t.Context(), 42)
	require.NoError(t, err)
	require.NotNil(t, bm)
	assert.Equal(t, int32(42), bm.ID)
	assert.Equal(t, int32(180), bm.TotalLength)
	assert.Equal(t, "A - T [V]", bm.FullName())
}

func TestHTTPSource_ByMD5(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc", r.URL.Query().Get("md5"))
		w.Write([]byte(`{"ID":1,"MD5":"abc"}`))
	}))
	defer srv.Close()

	bm, err := NewHTTPSource(srv.URL).ByMD5(t.Context(), "abc")
	require.NoError(t, err)
	require.NotNil(t, bm)
	assert.Equal(t, "abc", bm.MD5)
}

func TestHTTPSource_NotFoundIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	bm, err := NewHTTPSource(srv.URL).ByID(t.Context(), 999)
	require.NoError(t, err)
	assert.Nil(t, bm, "a missing map is not an error")
}

func TestHTTPSource_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL).ByID(t.Context(), 1)
	assert.Error(t, err)
}
