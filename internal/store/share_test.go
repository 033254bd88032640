package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"hospitofind/internal/database"
	"hospitofind/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type fakeShareRow struct {
	scanErr error
	link    *model.ShareableLink
}

func (r *fakeShareRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	l := r.link
	switch len(dest) {
	case 5:
		snapshot, _ := json.Marshal(l.Hospitals)
		*dest[0].(*int) = l.ID
		*dest[1].(*string) = l.LinkID
		*dest[2].(*[]byte) = snapshot
		*dest[3].(**int) = l.CreatedBy
		*dest[4].(*time.Time) = l.CreatedAt
	case 2:
		*dest[0].(*int) = l.ID
		*dest[1].(*time.Time) = l.CreatedAt
	default:
		panic("fakeShareRow.Scan: unexpected number of dest")
	}
	return nil
}

func TestCreateShareableLink(t *testing.T) {
	db := &database.FakeDB{
		QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "INSERT INTO shareable_links")
			require.Equal(t, "abc123", args[0])
			// snapshot is stored as JSON
			var snap []model.SharedHospital
			require.NoError(t, json.Unmarshal(args[1].([]byte), &snap))
			require.Len(t, snap, 1)
			return &fakeShareRow{link: &model.ShareableLink{ID: 5, CreatedAt: time.Now()}}
		},
	}
	link := &model.ShareableLink{
		LinkID: "abc123",
		Hospitals: []model.SharedHospital{
			{HospitalID: 1, Name: "Island General", City: "Lagos", State: "Nigeria"},
		},
	}
	created, err := CreateShareableLink(context.Background(), db, link)
	require.NoError(t, err)
	require.Equal(t, 5, created.ID)
}

func TestGetShareableLink(t *testing.T) {
	want := &model.ShareableLink{
		ID: 5, LinkID: "abc123",
		Hospitals: []model.SharedHospital{{HospitalID: 1, Name: "Island General"}},
		CreatedAt: time.Now().Add(-24 * time.Hour),
	}
	var sweep string
	db := &database.FakeDB{
		ExecFn: func(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
			sweep = sql
			return pgconn.NewCommandTag("DELETE 2"), nil
		},
		QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "created_at >= now() - interval '30 days'")
			require.Equal(t, []any{"abc123"}, args)
			return &fakeShareRow{link: want}
		},
	}
	got, err := GetShareableLink(context.Background(), db, "abc123")
	require.NoError(t, err)
	require.Equal(t, want.Hospitals, got.Hospitals)
	// expired rows are swept opportunistically on read
	require.Contains(t, sweep, "DELETE FROM shareable_links")
}

func TestGetShareableLinkExpired(t *testing.T) {
	db := &database.FakeDB{
		ExecFn: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("DELETE 0"), nil
		},
		QueryRowFn: func(context.Context, string, ...any) pgx.Row {
			return &fakeShareRow{scanErr: pgx.ErrNoRows}
		},
	}
	_, err := GetShareableLink(context.Background(), db, "gone")
	require.ErrorIs(t, err, pgx.ErrNoRows)
}
