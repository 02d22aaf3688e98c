package geocoding_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fooddispatch/internal/adapters/out/geocoding"
	"fooddispatch/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *geocoding.OpenCageGeocoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := geocoding.NewOpenCageGeocoder("test-key", srv.URL, srv.Client())
	require.NoError(t, err)
	return g
}

func TestOpenCageGeocoder_Resolve(t *testing.T) {
	t.Run("best result", func(t *testing.T) {
		g := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Knez Mihailova 6, Belgrade", r.URL.Query().Get("q"))
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":{"code":200,"message":"OK"},
				"results":[{"geometry":{"lat":44.8176,"lng":20.4569}},{"geometry":{"lat":1,"lng":1}}]}`))
		})

		point, err := g.Resolve(context.Background(), "Knez Mihailova 6, Belgrade")

		require.NoError(t, err)
		assert.InDelta(t, 44.8176, point.Latitude(), 1e-9)
		assert.InDelta(t, 20.4569, point.Longitude(), 1e-9)
	})

	t.Run("no results", func(t *testing.T) {
		g := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status":{"code":200,"message":"OK"},"results":[]}`))
		})

		_, err := g.Resolve(context.Background(), "???")
		require.ErrorIs(t, err, ports.ErrAddressNotResolved)
	})

	t.Run("blank address skips the request", func(t *testing.T) {
		called := false
		g := newServer(t, func(http.ResponseWriter, *http.Request) { called = true })

		_, err := g.Resolve(context.Background(), "   ")
		require.ErrorIs(t, err, ports.ErrAddressNotResolved)
		assert.False(t, called)
	})

	t.Run("quota exceeded", func(t *testing.T) {
		g := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"status":{"code":402,"message":"quota exceeded"},"results":[]}`))
		})

		_, err := g.Resolve(context.Background(), "Terazije 1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ports.ErrAddressNotResolved)
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("non json error page", func(t *testing.T) {
		g := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		})

		_, err := g.Resolve(context.Background(), "Terazije 1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("out of range coordinates", func(t *testing.T) {
		g := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"results":[{"geometry":{"lat":123,"lng":20}}]}`))
		})

		_, err := g.Resolve(context.Background(), "Terazije 1")
		require.ErrorIs(t, err, ports.ErrAddressNotResolved)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		t.Cleanup(srv.Close)
		g, err := geocoding.NewOpenCageGeocoder("test-key", srv.URL, &http.Client{Timeout: 50 * time.Millisecond})
		require.NoError(t, err)

		_, err = g.Resolve(context.Background(), "Terazije 1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ports.ErrAddressNotResolved)
	})
}

func TestOpenCageGeocoder_Resolve_TransportErrorHidesKey(t *testing.T) {
	g, err := geocoding.NewOpenCageGeocoder("SUPER-SECRET-KEY", "http://127.0.0.1:1/geocode", nil)
	require.NoError(t, err)

	_, err = g.Resolve(context.Background(), "Terazije 1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrAddressNotResolved)
	assert.NotContains(t, err.Error(), "SUPER-SECRET-KEY")
	assert.NotContains(t, err.Error(), "127.0.0.1:1/geocode?")
}

func TestNewOpenCageGeocoder_RequiresKey(t *testing.T) {
	_, err := geocoding.NewOpenCageGeocoder(" ", "", nil)
	require.ErrorIs(t, err, geocoding.ErrAPIKeyIsRequired)
}
