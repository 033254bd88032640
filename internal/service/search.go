package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"hospitofind/internal/database"
	"hospitofind/internal/model"
	"hospitofind/internal/store"
)

// ErrTermTooShort carries the user-facing validation message verbatim.
var ErrTermTooShort = errors.New("Please enter at least 2 characters")

const findResultCap = 100

var (
	findHospitalsQuery   = store.FindHospitals
	findByCityStateQuery = store.FindHospitalsByCityState
)

// SplitTerm applies the "city country" heuristic: split at the last space
// so "Lagos Nigeria" can match city=Lagos, state=Nigeria. Both parts must
// be longer than one character to count. Multi-word cities ("New York")
// mis-split; that matches the original behavior and is left as-is.
func SplitTerm(term string) (cityPart, statePart string) {
	i := strings.LastIndex(term, " ")
	if i < 0 {
		return "", ""
	}
	cityPart = strings.TrimSpace(term[:i])
	statePart = strings.TrimSpace(term[i+1:])
	if len(cityPart) <= 1 || len(statePart) <= 1 {
		return "", ""
	}
	return cityPart, statePart
}

// matchRank orders results: exact name match, then name prefix, then name
// substring, then everything else in stable query order.
func matchRank(term string, h *model.Hospital) int {
	name := strings.ToLower(h.Name)
	term = strings.ToLower(term)
	switch {
	case name == term:
		return 0
	case strings.HasPrefix(name, term):
		return 1
	case strings.Contains(name, term):
		return 2
	default:
		return 3
	}
}

// RankHospitals re-orders query results by name-match quality. The sort
// is stable so database order breaks ties.
func RankHospitals(term string, hs []model.Hospital) []model.Hospital {
	sort.SliceStable(hs, func(i, j int) bool {
		return matchRank(term, &hs[i]) < matchRank(term, &hs[j])
	})
	return hs
}

// FindHospitals is the free-text search: validate, query verified
// hospitals on name/street/city/state (plus the split heuristic), then
// re-rank in memory. Never returns more than 100 rows.
func FindHospitals(ctx context.Context, db database.DB, term string) ([]model.Hospital, error) {
	term = strings.TrimSpace(term)
	if len(term) < 2 {
		return nil, ErrTermTooShort
	}

	cityPart, statePart := SplitTerm(term)
	hs, err := findHospitalsQuery(ctx, db, term, cityPart, statePart)
	if err != nil {
		return nil, err
	}
	if len(hs) > findResultCap {
		hs = hs[:findResultCap]
	}
	return RankHospitals(term, hs), nil
}

// FindHospitalsByCityState is the dropdown precision mode: exact
// case-insensitive city and state, no ranking heuristic.
func FindHospitalsByCityState(ctx context.Context, db database.DB, city, state string) ([]model.Hospital, error) {
	return findByCityStateQuery(ctx, db, city, state)
}
