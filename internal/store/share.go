package store

import (
	"context"
	"encoding/json"
	"fmt"

	"hospitofind/internal/database"
	"hospitofind/internal/model"
)

func CreateShareableLink(ctx context.Context, db database.DB, link *model.ShareableLink) (*model.ShareableLink, error) {
	snapshot, err := json.Marshal(link.Hospitals)
	if err != nil {
		return nil, fmt.Errorf("CreateShareableLink: %w", err)
	}
	row := db.QueryRow(ctx,
		`INSERT INTO shareable_links (link_id, hospitals, created_by)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		link.LinkID, snapshot, link.CreatedBy,
	)
	if err := row.Scan(&link.ID, &link.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateShareableLink: %w", err)
	}
	return link, nil
}

// GetShareableLink looks up a non-expired link and opportunistically
// deletes expired rows; there is no TTL sweep elsewhere.
func GetShareableLink(ctx context.Context, db database.DB, linkID string) (*model.ShareableLink, error) {
	if _, err := db.Exec(ctx,
		`DELETE FROM shareable_links WHERE created_at < now() - interval '30 days'`,
	); err != nil {
		return nil, fmt.Errorf("GetShareableLink: %w", err)
	}

	link := &model.ShareableLink{}
	var snapshot []byte
	err := db.QueryRow(ctx,
		`SELECT id, link_id, hospitals, created_by, created_at
		 FROM shareable_links
		 WHERE link_id = $1 AND created_at >= now() - interval '30 days'`,
		linkID,
	).Scan(&link.ID, &link.LinkID, &snapshot, &link.CreatedBy, &link.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("GetShareableLink: %w", err)
	}
	if err := json.Unmarshal(snapshot, &link.Hospitals); err != nil {
		return nil, fmt.Errorf("GetShareableLink: %w", err)
	}
	return link, nil
}
