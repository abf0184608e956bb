package tracking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrack_RemapsCarrierResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/track/DKT123", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"docket_no": "DKT123",
			"current_status": "In Transit",
			"from_station": "Pune",
			"to_station": "Nagpur",
			"events": [
				{"date": "2025-03-01", "location": "Pune", "activity": "Booked"},
				{"date": "2025-03-02", "location": "Mumbai", "activity": "Departed"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	s, err := c.Track(context.Background(), "DKT123")
	require.NoError(t, err)

	assert.Equal(t, "DKT123", s.Reference)
	assert.Equal(t, "In Transit", s.Status)
	assert.Equal(t, "Pune", s.From)
	assert.Equal(t, "Nagpur", s.To)
	require.Len(t, s.Checkpoints, 2)
	assert.Equal(t, "Departed", s.Checkpoints[1].Activity)
}

func TestTrack_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Track(context.Background(), "NOPE")
	require.ErrorIs(t, err, ErrShipmentNotFound)
}

func TestTrack_CarrierError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Track(context.Background(), "DKT123")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrShipmentNotFound)
}

func TestTrack_EmptyDocketFallsBackToRequestedRef(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current_status": "Booked"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	s, err := c.Track(context.Background(), "DKT999")
	require.NoError(t, err)
	assert.Equal(t, "DKT999", s.Reference)
}

func TestTrack_EmptyReference(t *testing.T) {
	c := NewClient("http://localhost:0", "")
	_, err := c.Track(context.Background(), "")
	require.Error(t, err)
}
