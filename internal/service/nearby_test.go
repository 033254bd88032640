package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"hospitofind/internal/api"
	"hospitofind/internal/cache"
	"hospitofind/internal/database"
	"hospitofind/internal/model"
	"hospitofind/internal/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func restoreNearbyGlobals() {
	hospitalsNearbyQuery = store.HospitalsNearby
	verifiedWithCoords = store.ListVerifiedWithCoordinates
	randomSample = store.RandomVerifiedHospitals
}

func f64(v float64) *float64 { return &v }

func coordHospital(id int, name string, lat, lon float64) model.Hospital {
	return model.Hospital{
		ID: id, Name: name, Verified: true,
		Latitude: f64(lat), Longitude: f64(lon),
	}
}

func newEngine(c cache.Cache, geoCapable bool) *NearbyEngine {
	return &NearbyEngine{
		DB:         &database.FakeDB{},
		Cache:      c,
		GeoCapable: geoCapable,
		Logger:     zap.NewNop(),
	}
}

func TestCacheKey(t *testing.T) {
	require.Equal(t, "nearby:6.5244,3.3792:3", CacheKey(f64(6.52441), f64(3.37921), 3, ""))
	// Nearby coordinates quantize to the same key.
	require.Equal(t,
		CacheKey(f64(6.52440), f64(3.37920), 3, ""),
		CacheKey(f64(6.52444), f64(3.37924), 3, ""))
	require.Equal(t, "nearby:ip:10.0.0.1:5", CacheKey(nil, nil, 5, "10.0.0.1"))
}

func TestSearchCacheHitSkipsDatabase(t *testing.T) {
	defer restoreNearbyGlobals()

	cached := api.NearbyResponse{
		Results: []api.NearbyHospital{{
			HospitalResponse: api.HospitalResponse{ID: 7, Name: "Cached General"},
			Distance:         "1.2 km",
		}},
	}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	queried := false
	hospitalsNearbyQuery = func(context.Context, database.DB, float64, float64, float64, int) ([]store.HospitalDistance, error) {
		queried = true
		return nil, nil
	}

	fc := &cache.FakeCache{
		GetFn: func(_ context.Context, _ string) ([]byte, bool, error) {
			return payload, true, nil
		},
	}
	resp, err := newEngine(fc, true).Search(context.Background(), f64(6.5), f64(3.3), 3, "")
	require.NoError(t, err)
	require.False(t, queried, "cache hit must not reach the database")
	require.Equal(t, "Cached General", resp.Results[0].Name)
}

func TestSearchIndexedPath(t *testing.T) {
	defer restoreNearbyGlobals()

	hospitalsNearbyQuery = func(_ context.Context, _ database.DB, lat, lon, radius float64, limit int) ([]store.HospitalDistance, error) {
		require.InDelta(t, 6.5244, lat, 1e-9)
		require.InDelta(t, 3.3792, lon, 1e-9)
		require.Equal(t, float64(NearbyRadiusMeters), radius)
		require.Equal(t, 3, limit)
		return []store.HospitalDistance{
			{Hospital: coordHospital(1, "Island General", 6.52, 3.37), Meters: 1234},
		}, nil
	}

	var setKey string
	var setTTL time.Duration
	fc := &cache.FakeCache{
		GetFn: func(_ context.Context, _ string) ([]byte, bool, error) { return nil, false, nil },
		SetFn: func(_ context.Context, key string, _ []byte, ttl time.Duration) error {
			setKey, setTTL = key, ttl
			return nil
		},
	}
	resp, err := newEngine(fc, true).Search(context.Background(), f64(6.5244), f64(3.3792), 3, "")
	require.NoError(t, err)
	require.False(t, resp.Fallback)
	require.Equal(t, "1.2 km", resp.Results[0].Distance)
	require.Equal(t, "nearby:6.5244,3.3792:3", setKey)
	require.Equal(t, NearbyCacheTTL, setTTL)
}

func TestSearchManualScanOrdersByDistance(t *testing.T) {
	defer restoreNearbyGlobals()

	// Around Lagos (6.5244, 3.3792): Ikeja is closer than Ibadan.
	verifiedWithCoords = func(context.Context, database.DB) ([]model.Hospital, error) {
		return []model.Hospital{
			coordHospital(1, "Ibadan Central", 7.3775, 3.9470),
			coordHospital(2, "Ikeja General", 6.6018, 3.3515),
			coordHospital(3, "Abuja National", 9.0765, 7.3986),
		}, nil
	}

	fc := &cache.FakeCache{
		GetFn: func(_ context.Context, _ string) ([]byte, bool, error) { return nil, false, nil },
		SetFn: func(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil },
	}
	resp, err := newEngine(fc, false).Search(context.Background(), f64(6.5244), f64(3.3792), 2, "")
	require.NoError(t, err)
	require.False(t, resp.Fallback)
	require.Len(t, resp.Results, 2)
	require.Equal(t, "Ikeja General", resp.Results[0].Name)
	require.Equal(t, "Ibadan Central", resp.Results[1].Name)
	require.NotEmpty(t, resp.Results[0].Distance)
}

func TestSearchFallsBackToSample(t *testing.T) {
	defer restoreNearbyGlobals()

	// Nothing within range of the middle of the Pacific.
	verifiedWithCoords = func(context.Context, database.DB) ([]model.Hospital, error) {
		return []model.Hospital{coordHospital(1, "Ikeja General", 6.6018, 3.3515)}, nil
	}
	randomSample = func(_ context.Context, _ database.DB, limit int) ([]model.Hospital, error) {
		require.Equal(t, 3, limit)
		return []model.Hospital{{ID: 9, Name: "Random Pick", Verified: true}}, nil
	}

	fc := &cache.FakeCache{
		GetFn: func(_ context.Context, _ string) ([]byte, bool, error) { return nil, false, nil },
		SetFn: func(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil },
	}
	resp, err := newEngine(fc, false).Search(context.Background(), f64(0), f64(-150), 3, "")
	require.NoError(t, err)
	require.True(t, resp.Fallback)
	require.NotEmpty(t, resp.Message)
	require.Equal(t, "Random Pick", resp.Results[0].Name)
	require.Empty(t, resp.Results[0].Distance)
}

func TestSearchWithoutCoordinatesSamples(t *testing.T) {
	defer restoreNearbyGlobals()

	randomSample = func(_ context.Context, _ database.DB, limit int) ([]model.Hospital, error) {
		return []model.Hospital{{ID: 1, Name: "Anywhere General"}}, nil
	}
	fc := &cache.FakeCache{
		GetFn: func(_ context.Context, key string) ([]byte, bool, error) {
			require.Equal(t, "nearby:ip:203.0.113.9:3", key)
			return nil, false, nil
		},
		SetFn: func(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil },
	}
	resp, err := newEngine(fc, true).Search(context.Background(), nil, nil, 0, "203.0.113.9")
	require.NoError(t, err)
	require.True(t, resp.Fallback)
}

func TestSearchDatabaseErrorSurfaces(t *testing.T) {
	defer restoreNearbyGlobals()

	boom := errors.New("db down")
	hospitalsNearbyQuery = func(context.Context, database.DB, float64, float64, float64, int) ([]store.HospitalDistance, error) {
		return nil, boom
	}
	fc := &cache.FakeCache{
		GetFn: func(_ context.Context, _ string) ([]byte, bool, error) { return nil, false, nil },
	}
	_, err := newEngine(fc, true).Search(context.Background(), f64(6.5), f64(3.3), 3, "")
	require.ErrorIs(t, err, boom)
}

func TestSearchCacheErrorsAreNonFatal(t *testing.T) {
	defer restoreNearbyGlobals()

	randomSample = func(context.Context, database.DB, int) ([]model.Hospital, error) {
		return []model.Hospital{{ID: 1, Name: "Still Works"}}, nil
	}
	fc := &cache.FakeCache{
		GetFn: func(_ context.Context, _ string) ([]byte, bool, error) {
			return nil, false, errors.New("redis gone")
		},
		SetFn: func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
			return errors.New("redis gone")
		},
	}
	resp, err := newEngine(fc, true).Search(context.Background(), nil, nil, 3, "1.2.3.4")
	require.NoError(t, err)
	require.Equal(t, "Still Works", resp.Results[0].Name)
}
