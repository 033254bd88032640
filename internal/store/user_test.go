package store

import (
	"context"
	"testing"
	"time"

	"hospitofind/internal/database"
	"hospitofind/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type fakeUserRow struct {
	scanErr error
	user    *model.User
}

func (r *fakeUserRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	u := r.user
	switch len(dest) {
	case 13:
		// full user row
		*dest[0].(*int) = u.ID
		*dest[1].(*string) = u.Name
		*dest[2].(*string) = u.Username
		*dest[3].(*string) = u.Email
		*dest[4].(**string) = u.PasswordHash
		*dest[5].(**string) = u.Auth0ID
		*dest[6].(*string) = u.Role
		*dest[7].(*bool) = u.IsActive
		*dest[8].(*bool) = u.IsVerified
		*dest[9].(*int) = u.WeeklyViewCount
		*dest[10].(*time.Time) = u.LastWeeklyReset
		*dest[11].(*time.Time) = u.CreatedAt
		*dest[12].(*time.Time) = u.UpdatedAt
	case 7:
		// CreateUser returning clause
		*dest[0].(*int) = u.ID
		*dest[1].(*bool) = u.IsActive
		*dest[2].(*bool) = u.IsVerified
		*dest[3].(*int) = u.WeeklyViewCount
		*dest[4].(*time.Time) = u.LastWeeklyReset
		*dest[5].(*time.Time) = u.CreatedAt
		*dest[6].(*time.Time) = u.UpdatedAt
	case 1:
		*dest[0].(*bool) = u.IsActive
	default:
		panic("fakeUserRow.Scan: unexpected number of dest")
	}
	return nil
}

func sampleUser() *model.User {
	hash := "$2a$10$hash"
	return &model.User{
		ID: 1, Name: "Alice", Username: "alice", Email: "alice@example.com",
		PasswordHash: &hash, Role: model.RoleUser, IsActive: true,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
}

func TestGetUserByEmail(t *testing.T) {
	want := sampleUser()
	db := &database.FakeDB{
		QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "lower(email) = lower($1)")
			require.Equal(t, []any{"alice@example.com"}, args)
			return &fakeUserRow{user: want}
		},
	}
	got, err := GetUserByEmail(context.Background(), db, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, want.Username, got.Username)
	require.NotNil(t, got.PasswordHash)
}

func TestCreateUser(t *testing.T) {
	u := sampleUser()
	u.ID = 0
	db := &database.FakeDB{
		QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "INSERT INTO users")
			return &fakeUserRow{user: &model.User{
				ID: 3, IsActive: true,
				LastWeeklyReset: time.Now(), CreatedAt: time.Now(), UpdatedAt: time.Now(),
			}}
		},
	}
	created, err := CreateUser(context.Background(), db, u)
	require.NoError(t, err)
	require.Equal(t, 3, created.ID)
}

func TestUpdateUserRoleNotFound(t *testing.T) {
	db := &database.FakeDB{
		ExecFn: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		},
	}
	err := UpdateUserRole(context.Background(), db, 42, model.RoleAdmin)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestAddRemoveFavorite(t *testing.T) {
	var gotSQL []string
	db := &database.FakeDB{
		ExecFn: func(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			gotSQL = append(gotSQL, sql)
			require.Equal(t, []any{1, 7}, args)
			return pgconn.NewCommandTag("INSERT 1"), nil
		},
	}
	require.NoError(t, AddFavorite(context.Background(), db, 1, 7))
	require.NoError(t, RemoveFavorite(context.Background(), db, 1, 7))
	require.Contains(t, gotSQL[0], "INSERT INTO user_favorites")
	require.Contains(t, gotSQL[0], "ON CONFLICT")
	require.Contains(t, gotSQL[1], "DELETE FROM user_favorites")
}

func TestPushRecentViewTrimsAndCounts(t *testing.T) {
	var sqls []string
	db := &database.FakeDB{
		ExecFn: func(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
			sqls = append(sqls, sql)
			return pgconn.NewCommandTag("INSERT 1"), nil
		},
	}
	require.NoError(t, PushRecentView(context.Background(), db, 1, 7))

	joined := ""
	for _, s := range sqls {
		joined += s + "\n"
	}
	require.Contains(t, joined, "user_recent_views")
	require.Contains(t, joined, "ON CONFLICT")
	require.Contains(t, joined, "LIMIT")
	require.Contains(t, joined, "weekly_view_count")
	require.Len(t, sqls, 3)
}
