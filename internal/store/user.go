package store

import (
	"context"
	"fmt"

	"hospitofind/internal/database"
	"hospitofind/internal/model"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, username, email, password_hash, auth0_id, role,
	 is_active, is_verified, weekly_view_count, last_weekly_reset, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.Auth0ID,
		&u.Role, &u.IsActive, &u.IsVerified, &u.WeeklyViewCount,
		&u.LastWeeklyReset, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}

func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO users (name, username, email, password_hash, auth0_id, role)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, is_active, is_verified, weekly_view_count,
		   last_weekly_reset, created_at, updated_at`,
		u.Name, u.Username, u.Email, u.PasswordHash, u.Auth0ID, u.Role,
	)
	if err := row.Scan(&u.ID, &u.IsActive, &u.IsVerified, &u.WeeklyViewCount,
		&u.LastWeeklyReset, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}

func GetUserByID(ctx context.Context, db database.DB, id int) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("GetUserByID: %w", err)
	}
	return u, nil
}

func GetUserByEmail(ctx context.Context, db database.DB, email string) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return nil, fmt.Errorf("GetUserByEmail: %w", err)
	}
	return u, nil
}

func GetUserByUsername(ctx context.Context, db database.DB, username string) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, fmt.Errorf("GetUserByUsername: %w", err)
	}
	return u, nil
}

func ListUsers(ctx context.Context, db database.DB) ([]model.User, error) {
	rows, err := db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("ListUsers: %w", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	return out, nil
}

// UserExists reports whether the email or username is already taken.
func UserExists(ctx context.Context, db database.DB, email, username string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM users WHERE lower(email) = lower($1) OR username = $2
		 )`, email, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("UserExists: %w", err)
	}
	return exists, nil
}

func UpdateUserProfile(ctx context.Context, db database.DB, id int, name, email string) error {
	_, err := db.Exec(ctx,
		`UPDATE users SET name = $1, email = $2, updated_at = now() WHERE id = $3`,
		name, email, id)
	if err != nil {
		return fmt.Errorf("UpdateUserProfile: %w", err)
	}
	return nil
}

func UpdateUserPassword(ctx context.Context, db database.DB, id int, passwordHash string) error {
	_, err := db.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		passwordHash, id)
	if err != nil {
		return fmt.Errorf("UpdateUserPassword: %w", err)
	}
	return nil
}

func UpdateUserRole(ctx context.Context, db database.DB, id int, role string) error {
	tag, err := db.Exec(ctx,
		`UPDATE users SET role = $1, updated_at = now() WHERE id = $2`, role, id)
	if err != nil {
		return fmt.Errorf("UpdateUserRole: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateUserRole: %w", pgx.ErrNoRows)
	}
	return nil
}

// ToggleUserActive flips the active flag and returns the new value.
func ToggleUserActive(ctx context.Context, db database.DB, id int) (bool, error) {
	var active bool
	err := db.QueryRow(ctx,
		`UPDATE users SET is_active = NOT is_active, updated_at = now()
		 WHERE id = $1 RETURNING is_active`, id).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("ToggleUserActive: %w", err)
	}
	return active, nil
}

func DeleteUser(ctx context.Context, db database.DB, id int) error {
	tag, err := db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteUser: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteUser: %w", pgx.ErrNoRows)
	}
	return nil
}

func AddFavorite(ctx context.Context, db database.DB, userID, hospitalID int) error {
	_, err := db.Exec(ctx,
		`INSERT INTO user_favorites (user_id, hospital_id)
		 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, hospitalID)
	if err != nil {
		return fmt.Errorf("AddFavorite: %w", err)
	}
	return nil
}

func RemoveFavorite(ctx context.Context, db database.DB, userID, hospitalID int) error {
	_, err := db.Exec(ctx,
		`DELETE FROM user_favorites WHERE user_id = $1 AND hospital_id = $2`,
		userID, hospitalID)
	if err != nil {
		return fmt.Errorf("RemoveFavorite: %w", err)
	}
	return nil
}

func ListFavorites(ctx context.Context, db database.DB, userID int) ([]model.Hospital, error) {
	rows, err := db.Query(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals
		 WHERE id IN (SELECT hospital_id FROM user_favorites WHERE user_id = $1)
		 ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListFavorites: %w", err)
	}
	hs, err := scanHospitals(rows)
	if err != nil {
		return nil, fmt.Errorf("ListFavorites: %w", err)
	}
	return hs, nil
}

const recentViewsCap = 20

// PushRecentView records a hospital view, keeps the list at 20 entries per
// user and bumps the weekly counter (lazily reset after 7 days).
func PushRecentView(ctx context.Context, db database.DB, userID, hospitalID int) error {
	_, err := db.Exec(ctx,
		`INSERT INTO user_recent_views (user_id, hospital_id, viewed_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id, hospital_id) DO UPDATE SET viewed_at = now()`,
		userID, hospitalID)
	if err != nil {
		return fmt.Errorf("PushRecentView: %w", err)
	}

	_, err = db.Exec(ctx,
		`DELETE FROM user_recent_views
		 WHERE user_id = $1 AND hospital_id NOT IN (
		   SELECT hospital_id FROM user_recent_views
		   WHERE user_id = $1 ORDER BY viewed_at DESC LIMIT $2
		 )`, userID, recentViewsCap)
	if err != nil {
		return fmt.Errorf("PushRecentView: %w", err)
	}

	_, err = db.Exec(ctx,
		`UPDATE users SET
		   weekly_view_count = CASE
		     WHEN last_weekly_reset < now() - interval '7 days' THEN 1
		     ELSE weekly_view_count + 1
		   END,
		   last_weekly_reset = CASE
		     WHEN last_weekly_reset < now() - interval '7 days' THEN now()
		     ELSE last_weekly_reset
		   END
		 WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("PushRecentView: %w", err)
	}
	return nil
}

func ListRecentViews(ctx context.Context, db database.DB, userID int) ([]model.Hospital, error) {
	rows, err := db.Query(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals h
		 JOIN user_recent_views v ON v.hospital_id = h.id
		 WHERE v.user_id = $1
		 ORDER BY v.viewed_at DESC
		 LIMIT $2`, userID, recentViewsCap)
	if err != nil {
		return nil, fmt.Errorf("ListRecentViews: %w", err)
	}
	hs, err := scanHospitals(rows)
	if err != nil {
		return nil, fmt.Errorf("ListRecentViews: %w", err)
	}
	return hs, nil
}

// CountSubmissions returns total and verified counts of a user's
// submitted hospitals.
func CountSubmissions(ctx context.Context, db database.DB, userID int) (total int, verified int, err error) {
	err = db.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE verified)
		 FROM hospitals WHERE created_by = $1`, userID).Scan(&total, &verified)
	if err != nil {
		return 0, 0, fmt.Errorf("CountSubmissions: %w", err)
	}
	return total, verified, nil
}

func CountUsers(ctx context.Context, db database.DB) (int, error) {
	var n int
	if err := db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountUsers: %w", err)
	}
	return n, nil
}
