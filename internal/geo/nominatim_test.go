package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode_Found(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("q"), "Новосибирск")
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"55.0415","lon":"82.9346","address":{"city_district":"Центральный район","city":"Новосибирск"}}]`))
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL, "Новосибирск", 5*time.Second)
	loc, err := g.Geocode(context.Background(), "Красный проспект, 36")

	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.InDelta(t, 55.0415, loc.Latitude, 0.0001)
	assert.InDelta(t, 82.9346, loc.Longitude, 0.0001)
	assert.Equal(t, "Центральный", loc.District)
}

func TestGeocode_SuburbFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"54.9833","lon":"82.8964","address":{"suburb":"Ленинский район"}}]`))
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL, "Новосибирск", 5*time.Second)
	loc, err := g.Geocode(context.Background(), "площадь Маркса")

	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "Ленинский", loc.District)
}

func TestGeocode_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL, "Новосибирск", 5*time.Second)
	loc, err := g.Geocode(context.Background(), "несуществующий адрес 999")

	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestGeocode_EmptyAddress(t *testing.T) {
	g := NewGeocoder("http://127.0.0.1:1", "Новосибирск", time.Second)
	loc, err := g.Geocode(context.Background(), "   ")

	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestGeocode_ServiceUnavailable(t *testing.T) {
	g := NewGeocoder("http://127.0.0.1:1", "Новосибирск", 500*time.Millisecond)
	loc, err := g.Geocode(context.Background(), "Красный проспект, 36")

	require.Error(t, err)
	assert.Nil(t, loc)
}

func TestGeocode_CityNotDuplicated(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL, "Новосибирск", 5*time.Second)
	_, err := g.Geocode(context.Background(), "Новосибирск, Красный проспект, 36")

	require.NoError(t, err)
	assert.Equal(t, "Новосибирск, Красный проспект, 36", gotQuery)
}
