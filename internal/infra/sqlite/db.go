// Package sqlite provides SQLite-based persistent storage for AgriPath.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/agripath-app/agripath/internal/domain"
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/profile.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "profile.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Profile snapshot scalars (display name, points, streak dates)
		`CREATE TABLE IF NOT EXISTS profile_state (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Device identity and redundant preference keys. Kept apart from
		// profile_state so device_id and simple_mode survive a cleared or
		// corrupted main snapshot.
		`CREATE TABLE IF NOT EXISTS node_info (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Earned badges — insertion order is display order
		`CREATE TABLE IF NOT EXISTS badges (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			name      TEXT NOT NULL UNIQUE,
			earned_at INTEGER NOT NULL
		)`,

		// Local activity ledger (point mutations with reason + balance)
		`CREATE TABLE IF NOT EXISTS points_log (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			delta     INTEGER NOT NULL,
			reason    TEXT NOT NULL DEFAULT '',
			balance   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_points_log_ts ON points_log(timestamp)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Key-Value Helpers ──────────────────────────────────────────────────────

func (d *DB) getKV(table, key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM `+table+` WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s[%s]: %w", table, key, err)
	}
	return value, nil
}

func (d *DB) setKV(table, key, value string) error {
	_, err := d.db.Exec(
		`INSERT INTO `+table+` (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set %s[%s]: %w", table, key, err)
	}
	return nil
}

// ─── Device Identity ────────────────────────────────────────────────────────

// DeviceID returns the persisted device identifier, or "" if none yet.
func (d *DB) DeviceID() (string, error) {
	return d.getKV("node_info", "device_id")
}

// SetDeviceID persists the device identifier. Called exactly once per
// store lifetime by the identity resolver.
func (d *DB) SetDeviceID(id string) error {
	return d.setKV("node_info", "device_id", id)
}

// ─── Simple Mode Preference ─────────────────────────────────────────────────

// SetSimpleMode persists the simplified-UI preference under its own key.
func (d *DB) SetSimpleMode(on bool) error {
	return d.setKV("node_info", "simple_mode", boolStr(on))
}

// SimpleMode reads the simplified-UI preference (false when unset).
func (d *DB) SimpleMode() (bool, error) {
	v, err := d.getKV("node_info", "simple_mode")
	if err != nil {
		return false, err
	}
	return v == "1", nil
}

// ─── Profile Snapshot ───────────────────────────────────────────────────────

// LoadSnapshot returns the last persisted profile snapshot. A missing or
// malformed snapshot yields the documented zero default (no points, no
// badges, no streak) rather than an error for individual bad fields —
// initialization must never fail on local state.
func (d *DB) LoadSnapshot() (domain.Profile, error) {
	var p domain.Profile

	name, err := d.getKV("profile_state", "display_name")
	if err != nil {
		return p, err
	}
	p.DisplayName = name

	// Numeric and date fields: a corrupt value falls back to zero.
	if v, err := d.getKV("profile_state", "points"); err != nil {
		return p, err
	} else if v != "" {
		p.Points, _ = strconv.Atoi(v)
	}
	if v, err := d.getKV("profile_state", "streak_days"); err != nil {
		return p, err
	} else if v != "" {
		p.StreakDays, _ = strconv.Atoi(v)
	}
	if v, err := d.getKV("profile_state", "last_activity"); err != nil {
		return p, err
	} else if v != "" {
		if ts, perr := strconv.ParseInt(v, 10, 64); perr == nil && ts > 0 {
			p.LastActivity = time.Unix(ts, 0)
		}
	}
	if v, err := d.getKV("profile_state", "last_check_in"); err != nil {
		return p, err
	} else if v != "" {
		if ts, perr := strconv.ParseInt(v, 10, 64); perr == nil && ts > 0 {
			p.LastCheckIn = time.Unix(ts, 0)
		}
	}
	if v, err := d.getKV("profile_state", "account"); err != nil {
		return p, err
	} else if v != "" {
		var acct domain.Account
		if jerr := json.Unmarshal([]byte(v), &acct); jerr == nil {
			p.Account = &acct
		}
	}

	p.Badges, err = d.ListBadges()
	if err != nil {
		return p, err
	}

	p.DeviceID, err = d.DeviceID()
	if err != nil {
		return p, err
	}
	p.SimpleMode, err = d.SimpleMode()
	if err != nil {
		return p, err
	}

	return p, nil
}

// SaveSnapshot persists the profile. Badges are inserted idempotently and
// never deleted — the local badge set is append-only for the lifetime of
// the profile.
func (d *DB) SaveSnapshot(p domain.Profile) error {
	pairs := map[string]string{
		"display_name":  p.DisplayName,
		"points":        strconv.Itoa(p.Points),
		"streak_days":   strconv.Itoa(p.StreakDays),
		"last_activity": unixStr(p.LastActivity),
		"last_check_in": unixStr(p.LastCheckIn),
	}
	if p.Account != nil {
		raw, err := json.Marshal(p.Account)
		if err != nil {
			return fmt.Errorf("encode account: %w", err)
		}
		pairs["account"] = string(raw)
	} else {
		pairs["account"] = ""
	}

	for k, v := range pairs {
		if err := d.setKV("profile_state", k, v); err != nil {
			return err
		}
	}

	for _, badge := range p.Badges {
		if err := d.AddBadge(badge, time.Now()); err != nil {
			return err
		}
	}

	if err := d.SetSimpleMode(p.SimpleMode); err != nil {
		return err
	}
	return nil
}

// ─── Badges ─────────────────────────────────────────────────────────────────

// AddBadge records an earned badge. Idempotent — re-adding keeps the
// original earned_at and position.
func (d *DB) AddBadge(name string, earnedAt time.Time) error {
	_, err := d.db.Exec(
		`INSERT OR IGNORE INTO badges (name, earned_at) VALUES (?, ?)`,
		name, earnedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("add badge %q: %w", name, err)
	}
	return nil
}

// ListBadges returns earned badges in insertion order.
func (d *DB) ListBadges() ([]string, error) {
	rows, err := d.db.Query(`SELECT name FROM badges ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// ─── Points Ledger ──────────────────────────────────────────────────────────

// AppendPointsLog records a point mutation with its reason and the
// resulting local balance.
func (d *DB) AppendPointsLog(e domain.PointsEntry) error {
	_, err := d.db.Exec(
		`INSERT INTO points_log (timestamp, delta, reason, balance) VALUES (?, ?, ?, ?)`,
		e.Time.Unix(), e.Delta, e.Reason, e.Balance,
	)
	if err != nil {
		return fmt.Errorf("append points log: %w", err)
	}
	return nil
}

// RecentPointsLog returns the newest entries first, up to limit.
func (d *DB) RecentPointsLog(limit int) ([]domain.PointsEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.db.Query(
		`SELECT id, timestamp, delta, reason, balance
		 FROM points_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("read points log: %w", err)
	}
	defer rows.Close()

	var out []domain.PointsEntry
	for rows.Next() {
		var e domain.PointsEntry
		var ts int64
		if err := rows.Scan(&e.ID, &ts, &e.Delta, &e.Reason, &e.Balance); err != nil {
			return nil, err
		}
		e.Time = time.Unix(ts, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func unixStr(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.FormatInt(t.Unix(), 10)
}

func boolStr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
