package database

import (
	"database/sql"
	"errors"
	"fmt"

	"gatekeeper-bot/internal/models"
)

// ErrNotFound is returned when a lookup by primary key matches no row.
var ErrNotFound = errors.New("not found")

// User operations

// UpsertUser inserts or refreshes the user row. The second return value
// reports whether the row was newly inserted; xmax is zero only for rows
// the current transaction created.
func (db *DB) UpsertUser(id int64, username string) (*models.User, bool, error) {
	var user models.User
	var created bool

	err := db.QueryRow(`
		INSERT INTO users (id, username)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE
		SET username = EXCLUDED.username,
		    last_seen_at = CURRENT_TIMESTAMP
		RETURNING id, username, is_admin, created_at, last_seen_at, (xmax = 0)
	`, id, username).Scan(
		&user.ID, &user.Username, &user.IsAdmin, &user.CreatedAt, &user.LastSeenAt, &created,
	)

	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert user: %w", err)
	}

	return &user, created, nil
}

func (db *DB) GetUser(id int64) (*models.User, error) {
	var user models.User

	err := db.QueryRow(`
		SELECT id, username, is_admin, created_at, last_seen_at
		FROM users
		WHERE id = $1
	`, id).Scan(
		&user.ID, &user.Username, &user.IsAdmin, &user.CreatedAt, &user.LastSeenAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (db *DB) SetAdmin(id int64, isAdmin bool) error {
	res, err := db.Exec(`
		UPDATE users
		SET is_admin = $1
		WHERE id = $2
	`, isAdmin, id)

	if err != nil {
		return fmt.Errorf("failed to set admin flag: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (db *DB) ListAdmins() ([]models.User, error) {
	rows, err := db.Query(`
		SELECT id, username, is_admin, created_at, last_seen_at
		FROM users
		WHERE is_admin = TRUE
		ORDER BY created_at
	`)

	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer rows.Close()

	var admins []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.IsAdmin, &u.CreatedAt, &u.LastSeenAt); err != nil {
			return nil, err
		}
		admins = append(admins, u)
	}

	return admins, rows.Err()
}

// Statistics
func (db *DB) CountUsers() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// CountUsersSince counts users whose first interaction happened within the
// given interval, e.g. "1 day", "7 days", "30 days".
func (db *DB) CountUsersSince(interval string) (int, error) {
	var n int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM users
		WHERE created_at >= CURRENT_TIMESTAMP - $1::interval
	`, interval).Scan(&n)
	return n, err
}

func (db *DB) CountActiveSince(interval string) (int, error) {
	var n int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM users
		WHERE last_seen_at >= CURRENT_TIMESTAMP - $1::interval
	`, interval).Scan(&n)
	return n, err
}

func (db *DB) GetStats() (*models.Stats, error) {
	stats := &models.Stats{}

	var err error
	if stats.Total, err = db.CountUsers(); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if stats.Daily, err = db.CountUsersSince("1 day"); err != nil {
		return nil, err
	}
	if stats.Weekly, err = db.CountUsersSince("7 days"); err != nil {
		return nil, err
	}
	if stats.Monthly, err = db.CountUsersSince("30 days"); err != nil {
		return nil, err
	}
	if stats.ActiveDaily, err = db.CountActiveSince("1 day"); err != nil {
		return nil, err
	}
	if stats.ActiveWeekly, err = db.CountActiveSince("7 days"); err != nil {
		return nil, err
	}
	if stats.ActiveMonthly, err = db.CountActiveSince("30 days"); err != nil {
		return nil, err
	}

	return stats, nil
}

// Language operations
func (db *DB) UpsertLang(id int64, lang models.Lang) error {
	_, err := db.Exec(`
		INSERT INTO user_langs (tg_id, lang)
		VALUES ($1, $2)
		ON CONFLICT (tg_id) DO UPDATE
		SET lang = EXCLUDED.lang
	`, id, string(lang))

	if err != nil {
		return fmt.Errorf("failed to upsert language: %w", err)
	}

	return nil
}

// GetLang returns the stored language for a user, or the default when the
// user has no preference row yet.
func (db *DB) GetLang(id int64) (models.Lang, error) {
	var lang string

	err := db.QueryRow(`
		SELECT lang FROM user_langs WHERE tg_id = $1
	`, id).Scan(&lang)

	if err == sql.ErrNoRows {
		return models.DefaultLang, nil
	}
	if err != nil {
		return models.DefaultLang, fmt.Errorf("failed to get language: %w", err)
	}

	return models.Lang(lang), nil
}

// Channel operations
func (db *DB) ListChannels() ([]models.Channel, error) {
	rows, err := db.Query(`
		SELECT channel_id, title, invite_link
		FROM channels
		ORDER BY channel_id
	`)

	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	var channels []models.Channel
	for rows.Next() {
		var c models.Channel
		if err := rows.Scan(&c.ChannelID, &c.Title, &c.InviteLink); err != nil {
			return nil, err
		}
		channels = append(channels, c)
	}

	return channels, rows.Err()
}

func (db *DB) AddChannel(channelID int64, title, inviteLink string) error {
	_, err := db.Exec(`
		INSERT INTO channels (channel_id, title, invite_link)
		VALUES ($1, $2, $3)
		ON CONFLICT (channel_id) DO UPDATE
		SET title = EXCLUDED.title,
		    invite_link = EXCLUDED.invite_link
	`, channelID, title, inviteLink)

	if err != nil {
		return fmt.Errorf("failed to add channel: %w", err)
	}

	return nil
}

func (db *DB) RemoveChannel(channelID int64) error {
	_, err := db.Exec(`
		DELETE FROM channels WHERE channel_id = $1
	`, channelID)

	if err != nil {
		return fmt.Errorf("failed to remove channel: %w", err)
	}

	return nil
}
