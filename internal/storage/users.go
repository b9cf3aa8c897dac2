package storage

import (
	"context"
	"fmt"
)

// EnsureUser looks up a user by login, creating one on first sight, and
// returns the user id. Logins come from the identity layer (tsnet whois or
// the local dev identity) and are opaque here.
func (db *DB) EnsureUser(ctx context.Context, login, displayName string) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO users (login, display_name)
		 VALUES ($1, $2)
		 ON CONFLICT (login) DO UPDATE SET display_name = EXCLUDED.display_name
		 RETURNING id`,
		login, displayName,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensuring user %s: %w", login, err)
	}
	return id, nil
}
