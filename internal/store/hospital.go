package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"hospitofind/internal/database"
	"hospitofind/internal/model"

	"github.com/jackc/pgx/v5"
)

const hospitalColumns = `id, name, slug, street, city, state, phone_number, website,
	 email, photo_url, type, services, comments, hours, verified, is_featured,
	 created_by, longitude, latitude, created_at, updated_at`

func scanHospital(row pgx.Row) (*model.Hospital, error) {
	h := &model.Hospital{}
	var hours []byte
	if err := row.Scan(
		&h.ID, &h.Name, &h.Slug, &h.Street, &h.City, &h.State,
		&h.PhoneNumber, &h.Website, &h.Email, &h.PhotoURL, &h.Type,
		&h.Services, &h.Comments, &hours, &h.Verified, &h.IsFeatured,
		&h.CreatedBy, &h.Longitude, &h.Latitude, &h.CreatedAt, &h.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &h.Hours); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func scanHospitals(rows pgx.Rows) ([]model.Hospital, error) {
	defer rows.Close()
	var out []model.Hospital
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

func marshalHours(hours []model.HoursEntry) ([]byte, error) {
	if hours == nil {
		hours = []model.HoursEntry{}
	}
	return json.Marshal(hours)
}

func CreateHospital(ctx context.Context, db database.DB, h *model.Hospital) (*model.Hospital, error) {
	hours, err := marshalHours(h.Hours)
	if err != nil {
		return nil, fmt.Errorf("CreateHospital: %w", err)
	}
	row := db.QueryRow(ctx,
		`INSERT INTO hospitals (name, slug, street, city, state, phone_number,
		   website, email, photo_url, type, services, comments, hours,
		   verified, is_featured, created_by, longitude, latitude)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		   $14, $15, $16, $17, $18)
		 RETURNING id, created_at, updated_at`,
		h.Name, h.Slug, h.Street, h.City, h.State, h.PhoneNumber,
		h.Website, h.Email, h.PhotoURL, h.Type, h.Services, h.Comments, hours,
		h.Verified, h.IsFeatured, h.CreatedBy, h.Longitude, h.Latitude,
	)
	if err := row.Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, fmt.Errorf("CreateHospital: %w", err)
	}
	return h, nil
}

func GetHospitalByID(ctx context.Context, db database.DB, id int) (*model.Hospital, error) {
	h, err := scanHospital(db.QueryRow(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("GetHospitalByID: %w", err)
	}
	return h, nil
}

func GetHospitalByName(ctx context.Context, db database.DB, name string) (*model.Hospital, error) {
	h, err := scanHospital(db.QueryRow(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals WHERE lower(name) = lower($1)`, name))
	if err != nil {
		return nil, fmt.Errorf("GetHospitalByName: %w", err)
	}
	return h, nil
}

func GetHospitalBySlug(ctx context.Context, db database.DB, state, city, slug string) (*model.Hospital, error) {
	h, err := scanHospital(db.QueryRow(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals
		 WHERE slug = $1 AND lower(state) = lower($2) AND lower(city) = lower($3)`,
		slug, state, city))
	if err != nil {
		return nil, fmt.Errorf("GetHospitalBySlug: %w", err)
	}
	return h, nil
}

func GetHospitalBySlugOnly(ctx context.Context, db database.DB, slug string) (*model.Hospital, error) {
	h, err := scanHospital(db.QueryRow(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals WHERE slug = $1 LIMIT 1`, slug))
	if err != nil {
		return nil, fmt.Errorf("GetHospitalBySlugOnly: %w", err)
	}
	return h, nil
}

func GetHospitalByNamePrefix(ctx context.Context, db database.DB, prefix string) (*model.Hospital, error) {
	h, err := scanHospital(db.QueryRow(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals
		 WHERE name ILIKE $1 || '%' LIMIT 1`, escapeLike(prefix)))
	if err != nil {
		return nil, fmt.Errorf("GetHospitalByNamePrefix: %w", err)
	}
	return h, nil
}

// ListHospitals returns every verified hospital; ListAllHospitals is the
// admin variant that includes unverified submissions.
func ListHospitals(ctx context.Context, db database.DB) ([]model.Hospital, error) {
	rows, err := db.Query(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals WHERE verified ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ListHospitals: %w", err)
	}
	hs, err := scanHospitals(rows)
	if err != nil {
		return nil, fmt.Errorf("ListHospitals: %w", err)
	}
	return hs, nil
}

func ListAllHospitals(ctx context.Context, db database.DB) ([]model.Hospital, error) {
	rows, err := db.Query(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("ListAllHospitals: %w", err)
	}
	hs, err := scanHospitals(rows)
	if err != nil {
		return nil, fmt.Errorf("ListAllHospitals: %w", err)
	}
	return hs, nil
}

func ListPendingHospitals(ctx context.Context, db database.DB) ([]model.Hospital, error) {
	rows, err := db.Query(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals
		 WHERE NOT verified ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("ListPendingHospitals: %w", err)
	}
	hs, err := scanHospitals(rows)
	if err != nil {
		return nil, fmt.Errorf("ListPendingHospitals: %w", err)
	}
	return hs, nil
}

func ListHospitalsByCreator(ctx context.Context, db database.DB, userID int) ([]model.Hospital, error) {
	rows, err := db.Query(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals
		 WHERE created_by = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListHospitalsByCreator: %w", err)
	}
	hs, err := scanHospitals(rows)
	if err != nil {
		return nil, fmt.Errorf("ListHospitalsByCreator: %w", err)
	}
	return hs, nil
}

func ListFeaturedHospitals(ctx context.Context, db database.DB, limit int) ([]model.Hospital, error) {
	rows, err := db.Query(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals
		 WHERE verified AND is_featured ORDER BY updated_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("ListFeaturedHospitals: %w", err)
	}
	hs, err := scanHospitals(rows)
	if err != nil {
		return nil, fmt.Errorf("ListFeaturedHospitals: %w", err)
	}
	return hs, nil
}

func CountHospitals(ctx context.Context, db database.DB) (total int, verified int, err error) {
	err = db.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE verified) FROM hospitals`,
	).Scan(&total, &verified)
	if err != nil {
		return 0, 0, fmt.Errorf("CountHospitals: %w", err)
	}
	return total, verified, nil
}

func RandomVerifiedHospitals(ctx context.Context, db database.DB, limit int) ([]model.Hospital, error) {
	rows, err := db.Query(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals
		 WHERE verified ORDER BY random() LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("RandomVerifiedHospitals: %w", err)
	}
	hs, err := scanHospitals(rows)
	if err != nil {
		return nil, fmt.Errorf("RandomVerifiedHospitals: %w", err)
	}
	return hs, nil
}

// HospitalDistance pairs a hospital with its distance from a query point.
type HospitalDistance struct {
	model.Hospital
	Meters float64
}

// HospitalsNearby runs the indexed geo-proximity query. Requires the
// earthdistance extension; callers check database.HasEarthDistance first.
func HospitalsNearby(ctx context.Context, db database.DB, lat, lon, radiusMeters float64, limit int) ([]HospitalDistance, error) {
	rows, err := db.Query(ctx,
		`SELECT `+hospitalColumns+`,
		   earth_distance(ll_to_earth($1, $2), ll_to_earth(latitude, longitude)) AS meters
		 FROM hospitals
		 WHERE verified AND latitude IS NOT NULL AND longitude IS NOT NULL
		   AND earth_box(ll_to_earth($1, $2), $3) @> ll_to_earth(latitude, longitude)
		   AND earth_distance(ll_to_earth($1, $2), ll_to_earth(latitude, longitude)) <= $3
		 ORDER BY meters
		 LIMIT $4`,
		lat, lon, radiusMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("HospitalsNearby: %w", err)
	}
	defer rows.Close()

	var out []HospitalDistance
	for rows.Next() {
		var hd HospitalDistance
		var hours []byte
		h := &hd.Hospital
		if err := rows.Scan(
			&h.ID, &h.Name, &h.Slug, &h.Street, &h.City, &h.State,
			&h.PhoneNumber, &h.Website, &h.Email, &h.PhotoURL, &h.Type,
			&h.Services, &h.Comments, &hours, &h.Verified, &h.IsFeatured,
			&h.CreatedBy, &h.Longitude, &h.Latitude, &h.CreatedAt, &h.UpdatedAt,
			&hd.Meters,
		); err != nil {
			return nil, fmt.Errorf("HospitalsNearby: %w", err)
		}
		if len(hours) > 0 {
			if err := json.Unmarshal(hours, &h.Hours); err != nil {
				return nil, fmt.Errorf("HospitalsNearby: %w", err)
			}
		}
		out = append(out, hd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("HospitalsNearby: %w", err)
	}
	return out, nil
}

// ListVerifiedWithCoordinates feeds the manual-fallback distance scan.
func ListVerifiedWithCoordinates(ctx context.Context, db database.DB) ([]model.Hospital, error) {
	rows, err := db.Query(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals
		 WHERE verified AND latitude IS NOT NULL AND longitude IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("ListVerifiedWithCoordinates: %w", err)
	}
	hs, err := scanHospitals(rows)
	if err != nil {
		return nil, fmt.Errorf("ListVerifiedWithCoordinates: %w", err)
	}
	return hs, nil
}

// SearchFilter is the composable address/city/state filter used by search,
// share and export. Empty fields are ignored; matching is a
// case-insensitive contains.
type SearchFilter struct {
	Address string
	City    string
	State   string
}

func (f SearchFilter) IsZero() bool {
	return f.Address == "" && f.City == "" && f.State == ""
}

func SearchHospitals(ctx context.Context, db database.DB, f SearchFilter) ([]model.Hospital, error) {
	where := []string{"verified"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Address != "" {
		p := arg(likeContains(f.Address))
		where = append(where, fmt.Sprintf("(name ILIKE %s OR street ILIKE %s)", p, p))
	}
	if f.City != "" {
		where = append(where, fmt.Sprintf("city ILIKE %s", arg(likeContains(f.City))))
	}
	if f.State != "" {
		where = append(where, fmt.Sprintf("state ILIKE %s", arg(likeContains(f.State))))
	}

	rows, err := db.Query(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals WHERE `+
			strings.Join(where, " AND ")+` ORDER BY name`, args...)
	if err != nil {
		return nil, fmt.Errorf("SearchHospitals: %w", err)
	}
	hs, err := scanHospitals(rows)
	if err != nil {
		return nil, fmt.Errorf("SearchHospitals: %w", err)
	}
	return hs, nil
}

// FindHospitals matches a free-text term against name, street, city and
// state, with an optional conjunctive (cityPart, statePart) condition from
// the "city country" split heuristic. Capped at 100 rows; ranking happens
// in memory afterwards.
func FindHospitals(ctx context.Context, db database.DB, term, cityPart, statePart string) ([]model.Hospital, error) {
	rows, err := db.Query(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals
		 WHERE verified AND (
		   name ILIKE $1 OR street ILIKE $1 OR city ILIKE $1 OR state ILIKE $1
		   OR ($2 <> '' AND city ILIKE $2 AND state ILIKE $3)
		 )
		 LIMIT 100`,
		likeContains(term), optionalContains(cityPart), optionalContains(statePart))
	if err != nil {
		return nil, fmt.Errorf("FindHospitals: %w", err)
	}
	hs, err := scanHospitals(rows)
	if err != nil {
		return nil, fmt.Errorf("FindHospitals: %w", err)
	}
	return hs, nil
}

func FindHospitalsByCityState(ctx context.Context, db database.DB, city, state string) ([]model.Hospital, error) {
	rows, err := db.Query(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals
		 WHERE verified AND lower(city) = lower($1) AND lower(state) = lower($2)
		 ORDER BY name`,
		city, state)
	if err != nil {
		return nil, fmt.Errorf("FindHospitalsByCityState: %w", err)
	}
	hs, err := scanHospitals(rows)
	if err != nil {
		return nil, fmt.Errorf("FindHospitalsByCityState: %w", err)
	}
	return hs, nil
}

func UpdateHospital(ctx context.Context, db database.DB, h *model.Hospital) error {
	hours, err := marshalHours(h.Hours)
	if err != nil {
		return fmt.Errorf("UpdateHospital: %w", err)
	}
	_, err = db.Exec(ctx,
		`UPDATE hospitals SET name = $1, slug = $2, street = $3, city = $4,
		   state = $5, phone_number = $6, website = $7, email = $8,
		   photo_url = $9, type = $10, services = $11, comments = $12,
		   hours = $13, verified = $14, is_featured = $15, longitude = $16,
		   latitude = $17, updated_at = now()
		 WHERE id = $18`,
		h.Name, h.Slug, h.Street, h.City, h.State, h.PhoneNumber,
		h.Website, h.Email, h.PhotoURL, h.Type, h.Services, h.Comments,
		hours, h.Verified, h.IsFeatured, h.Longitude, h.Latitude, h.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateHospital: %w", err)
	}
	return nil
}

func DeleteHospital(ctx context.Context, db database.DB, id int) error {
	tag, err := db.Exec(ctx, `DELETE FROM hospitals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteHospital: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteHospital: %w", pgx.ErrNoRows)
	}
	return nil
}

func SetHospitalVerified(ctx context.Context, db database.DB, id int, verified bool) error {
	tag, err := db.Exec(ctx,
		`UPDATE hospitals SET verified = $1, updated_at = now() WHERE id = $2`,
		verified, id)
	if err != nil {
		return fmt.Errorf("SetHospitalVerified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("SetHospitalVerified: %w", pgx.ErrNoRows)
	}
	return nil
}

// ToggleHospitalFeatured flips the featured flag and returns the new value.
func ToggleHospitalFeatured(ctx context.Context, db database.DB, id int) (bool, error) {
	var featured bool
	err := db.QueryRow(ctx,
		`UPDATE hospitals SET is_featured = NOT is_featured, updated_at = now()
		 WHERE id = $1 RETURNING is_featured`, id).Scan(&featured)
	if err != nil {
		return false, fmt.Errorf("ToggleHospitalFeatured: %w", err)
	}
	return featured, nil
}

func SlugExists(ctx context.Context, db database.DB, state, city, slug string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM hospitals
		   WHERE slug = $1 AND lower(state) = lower($2) AND lower(city) = lower($3)
		 )`, slug, state, city).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("SlugExists: %w", err)
	}
	return exists, nil
}

// HospitalDuplicateExists reports a same-name record in the same city and
// state, excluding excludeID (pass 0 on create).
func HospitalDuplicateExists(ctx context.Context, db database.DB, name, city, state string, excludeID int) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM hospitals
		   WHERE lower(name) = lower($1) AND lower(city) = lower($2)
		     AND lower(state) = lower($3) AND id <> $4
		 )`, name, city, state, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("HospitalDuplicateExists: %w", err)
	}
	return exists, nil
}

// CityPair is one (state, city) combination, used by the sitemap routes.
type CityPair struct {
	State string
	City  string
}

func ListCityPairs(ctx context.Context, db database.DB) ([]CityPair, error) {
	rows, err := db.Query(ctx,
		`SELECT DISTINCT state, city FROM hospitals WHERE verified ORDER BY state, city`)
	if err != nil {
		return nil, fmt.Errorf("ListCityPairs: %w", err)
	}
	defer rows.Close()

	var out []CityPair
	for rows.Next() {
		var p CityPair
		if err := rows.Scan(&p.State, &p.City); err != nil {
			return nil, fmt.Errorf("ListCityPairs: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListCityPairs: %w", err)
	}
	return out, nil
}

// escapeLike escapes LIKE/ILIKE metacharacters so user input cannot turn
// into a match-everything pattern.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func likeContains(s string) string {
	return "%" + escapeLike(s) + "%"
}

func optionalContains(s string) string {
	if s == "" {
		return ""
	}
	return likeContains(s)
}
