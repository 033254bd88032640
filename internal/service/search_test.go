package service

import (
	"context"
	"errors"
	"testing"

	"hospitofind/internal/database"
	"hospitofind/internal/model"
	"hospitofind/internal/store"

	"github.com/stretchr/testify/require"
)

func restoreSearchGlobals() {
	findHospitalsQuery = store.FindHospitals
	findByCityStateQuery = store.FindHospitalsByCityState
}

func TestSplitTerm(t *testing.T) {
	cases := []struct {
		term  string
		city  string
		state string
	}{
		{"Lagos Nigeria", "Lagos", "Nigeria"},
		{"Lagos", "", ""},
		{"a b", "", ""},   // both parts too short
		{"ab c", "", ""},  // state part too short
		{"Port Harcourt Nigeria", "Port Harcourt", "Nigeria"},
	}
	for _, c := range cases {
		city, state := SplitTerm(c.term)
		require.Equal(t, c.city, city, c.term)
		require.Equal(t, c.state, state, c.term)
	}
}

func TestRankHospitals(t *testing.T) {
	hs := []model.Hospital{
		{Name: "Central General Hospital"},
		{Name: "General Hospital Annex"},
		{Name: "General"},
		{Name: "Mercy Clinic"},
	}
	ranked := RankHospitals("general", hs)
	require.Equal(t, "General", ranked[0].Name)
	require.Equal(t, "General Hospital Annex", ranked[1].Name)
	require.Equal(t, "Central General Hospital", ranked[2].Name)
	require.Equal(t, "Mercy Clinic", ranked[3].Name)
}

func TestRankHospitalsStable(t *testing.T) {
	// Equal ranks keep database order.
	hs := []model.Hospital{
		{ID: 1, Name: "Alpha Clinic"},
		{ID: 2, Name: "Beta Clinic"},
		{ID: 3, Name: "Gamma Clinic"},
	}
	ranked := RankHospitals("clinic", hs)
	require.Equal(t, []int{1, 2, 3}, []int{ranked[0].ID, ranked[1].ID, ranked[2].ID})
}

func TestFindHospitalsTermValidation(t *testing.T) {
	defer restoreSearchGlobals()

	_, err := FindHospitals(context.Background(), nil, "x")
	require.ErrorIs(t, err, ErrTermTooShort)

	_, err = FindHospitals(context.Background(), nil, "   a   ")
	require.ErrorIs(t, err, ErrTermTooShort)

	_, err = FindHospitals(context.Background(), nil, "")
	require.ErrorIs(t, err, ErrTermTooShort)
}

func TestFindHospitalsSplitHeuristic(t *testing.T) {
	defer restoreSearchGlobals()

	var gotTerm, gotCity, gotState string
	findHospitalsQuery = func(_ context.Context, _ database.DB, term, cityPart, statePart string) ([]model.Hospital, error) {
		gotTerm, gotCity, gotState = term, cityPart, statePart
		return []model.Hospital{{Name: "Lagos Island General"}}, nil
	}

	hs, err := FindHospitals(context.Background(), nil, "  Lagos Nigeria  ")
	require.NoError(t, err)
	require.Len(t, hs, 1)
	require.Equal(t, "Lagos Nigeria", gotTerm)
	require.Equal(t, "Lagos", gotCity)
	require.Equal(t, "Nigeria", gotState)
}

func TestFindHospitalsQueryError(t *testing.T) {
	defer restoreSearchGlobals()

	boom := errors.New("boom")
	findHospitalsQuery = func(_ context.Context, _ database.DB, _, _, _ string) ([]model.Hospital, error) {
		return nil, boom
	}
	_, err := FindHospitals(context.Background(), nil, "general")
	require.ErrorIs(t, err, boom)
}

func TestFindHospitalsCap(t *testing.T) {
	defer restoreSearchGlobals()

	many := make([]model.Hospital, 150)
	findHospitalsQuery = func(_ context.Context, _ database.DB, _, _, _ string) ([]model.Hospital, error) {
		return many, nil
	}
	hs, err := FindHospitals(context.Background(), nil, "general")
	require.NoError(t, err)
	require.Len(t, hs, findResultCap)
}

func TestFindHospitalsByCityState(t *testing.T) {
	defer restoreSearchGlobals()

	findByCityStateQuery = func(_ context.Context, _ database.DB, city, state string) ([]model.Hospital, error) {
		require.Equal(t, "Lagos", city)
		require.Equal(t, "Nigeria", state)
		return []model.Hospital{{Name: "Island Maternity"}}, nil
	}
	hs, err := FindHospitalsByCityState(context.Background(), nil, "Lagos", "Nigeria")
	require.NoError(t, err)
	require.Len(t, hs, 1)
}
