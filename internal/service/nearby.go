package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"hospitofind/internal/api"
	"hospitofind/internal/cache"
	"hospitofind/internal/database"
	"hospitofind/internal/geo"
	"hospitofind/internal/store"
)

const (
	// NearbyCacheTTL bounds staleness of memoized nearby responses.
	NearbyCacheTTL = 10 * time.Minute

	// NearbyRadiusMeters caps the search radius at 500 km.
	NearbyRadiusMeters = 500_000

	// DefaultNearbyLimit is used when the request omits limit.
	DefaultNearbyLimit = 3

	fallbackMessage = "No hospitals found near your location, showing a selection instead"
)

var (
	hospitalsNearbyQuery = store.HospitalsNearby
	verifiedWithCoords   = store.ListVerifiedWithCoordinates
	randomSample         = store.RandomVerifiedHospitals
)

// NearbyEngine answers geo-proximity searches with memoization and a
// degraded-mode fallback chain. GeoCapable is probed once at startup; when
// false the engine skips the indexed query and scans instead of treating
// index errors as control flow.
type NearbyEngine struct {
	DB         database.DB
	Cache      cache.Cache
	GeoCapable bool
	Logger     *zap.Logger
}

// CacheKey quantizes coordinates to 4 decimals (about 11 m) so nearby
// requests from the same spot share an entry; without coordinates the
// client IP keys the entry.
func CacheKey(lat, lon *float64, limit int, clientIP string) string {
	if lat != nil && lon != nil {
		return fmt.Sprintf("nearby:%.4f,%.4f:%d", *lat, *lon, limit)
	}
	return fmt.Sprintf("nearby:ip:%s:%d", clientIP, limit)
}

// Search runs the fallback chain: cache, indexed geo query, manual
// distance scan, random sample. Database errors surface to the caller
// (handlers answer 503); cache errors only log.
func (e *NearbyEngine) Search(ctx context.Context, lat, lon *float64, limit int, clientIP string) (*api.NearbyResponse, error) {
	if limit <= 0 {
		limit = DefaultNearbyLimit
	}

	key := CacheKey(lat, lon, limit, clientIP)
	if cached, ok, err := e.Cache.Get(ctx, key); err != nil {
		e.Logger.Warn("nearby cache read failed", zap.Error(err))
	} else if ok {
		var resp api.NearbyResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return &resp, nil
		}
		e.Logger.Warn("nearby cache entry corrupt, ignoring", zap.String("key", key))
	}

	resp, err := e.search(ctx, lat, lon, limit)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(resp); err == nil {
		if err := e.Cache.Set(ctx, key, payload, NearbyCacheTTL); err != nil {
			e.Logger.Warn("nearby cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}

func (e *NearbyEngine) search(ctx context.Context, lat, lon *float64, limit int) (*api.NearbyResponse, error) {
	if lat != nil && lon != nil {
		results, err := e.withinRadius(ctx, *lat, *lon, limit)
		if err != nil {
			return nil, err
		}
		if len(results) > 0 {
			return &api.NearbyResponse{Results: results}, nil
		}
	}
	return e.sample(ctx, limit)
}

// withinRadius prefers the indexed query and falls back to an in-process
// Haversine scan when the database lacks the geo extension.
func (e *NearbyEngine) withinRadius(ctx context.Context, lat, lon float64, limit int) ([]api.NearbyHospital, error) {
	if e.GeoCapable {
		rows, err := hospitalsNearbyQuery(ctx, e.DB, lat, lon, NearbyRadiusMeters, limit)
		if err != nil {
			return nil, err
		}
		out := make([]api.NearbyHospital, 0, len(rows))
		for _, r := range rows {
			out = append(out, api.NearbyHospital{
				HospitalResponse: api.NewHospitalResponse(r.Hospital),
				Distance:         geo.FormatDistance(r.Meters),
			})
		}
		return out, nil
	}

	hs, err := verifiedWithCoords(ctx, e.DB)
	if err != nil {
		return nil, err
	}

	type scored struct {
		idx    int
		meters float64
	}
	var candidates []scored
	for i := range hs {
		m := geo.Distance(lat, lon, *hs[i].Latitude, *hs[i].Longitude)
		if m <= NearbyRadiusMeters {
			candidates = append(candidates, scored{idx: i, meters: m})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].meters < candidates[j].meters
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]api.NearbyHospital, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, api.NearbyHospital{
			HospitalResponse: api.NewHospitalResponse(hs[c.idx]),
			Distance:         geo.FormatDistance(c.meters),
		})
	}
	return out, nil
}

// sample is the last resort: a random selection of verified hospitals
// with no distance data, flagged as a fallback result.
func (e *NearbyEngine) sample(ctx context.Context, limit int) (*api.NearbyResponse, error) {
	hs, err := randomSample(ctx, e.DB, limit)
	if err != nil {
		return nil, err
	}
	results := make([]api.NearbyHospital, 0, len(hs))
	for _, h := range hs {
		results = append(results, api.NearbyHospital{
			HospitalResponse: api.NewHospitalResponse(h),
		})
	}
	return &api.NearbyResponse{
		Results:  results,
		Fallback: true,
		Message:  fallbackMessage,
	}, nil
}
