// Package store provides the SQLite cache for the append-only feeds. The
// feed controllers stay memory-only; the pollers write through here so chat
// and kill history survive restarts and the incremental cursor can resume
// where the last session left off.
package store

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/teawcommunity/teawatch/internal/api"
)

// Store wraps the SQLite cache. All methods are safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a Store at dbPath, creating tables as needed. Uses WAL mode
// for file-based databases.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS chat_messages (
		id INTEGER PRIMARY KEY,
		sender TEXT NOT NULL,
		sender_uuid TEXT,
		message TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		type TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS kills (
		id INTEGER PRIMARY KEY,
		killer_uuid TEXT,
		killer_name TEXT NOT NULL,
		victim_uuid TEXT,
		victim_name TEXT NOT NULL,
		death_message TEXT NOT NULL,
		weapon_json TEXT,
		timestamp INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_chat_timestamp ON chat_messages(timestamp);
	CREATE INDEX IF NOT EXISTS idx_kills_timestamp ON kills(timestamp);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveChatMessages stores messages, returning the count of new rows. The
// server-assigned id is the primary key, so replayed entries are ignored.
func (s *Store) SaveChatMessages(msgs []api.ChatMessage) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(msgs) == 0 {
		return 0, nil
	}

	stmt, err := s.db.Prepare(`
		INSERT OR IGNORE INTO chat_messages (id, sender, sender_uuid, message, timestamp, type)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	newCount := 0
	for _, m := range msgs {
		result, err := stmt.Exec(m.ID, m.Sender, m.SenderUUID, m.Message, m.Timestamp, m.Type)
		if err != nil {
			return newCount, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return newCount, err
		}
		if affected > 0 {
			newCount++
		}
	}
	return newCount, nil
}

// RecentChatMessages returns up to limit of the newest cached messages in
// ascending id order, ready to seed an append-only feed.
func (s *Store) RecentChatMessages(limit int) ([]api.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, sender, sender_uuid, message, timestamp, type FROM (
			SELECT id, sender, sender_uuid, message, timestamp, type
			FROM chat_messages ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []api.ChatMessage
	for rows.Next() {
		var m api.ChatMessage
		if err := rows.Scan(&m.ID, &m.Sender, &m.SenderUUID, &m.Message, &m.Timestamp, &m.Type); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// SaveKills stores kills, returning the count of new rows.
func (s *Store) SaveKills(kills []api.Kill) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(kills) == 0 {
		return 0, nil
	}

	stmt, err := s.db.Prepare(`
		INSERT OR IGNORE INTO kills (id, killer_uuid, killer_name, victim_uuid, victim_name, death_message, weapon_json, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	newCount := 0
	for _, k := range kills {
		result, err := stmt.Exec(k.ID, k.KillerUUID, k.KillerName, k.VictimUUID, k.VictimName, k.DeathMessage, string(k.WeaponJSON), k.Timestamp)
		if err != nil {
			return newCount, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return newCount, err
		}
		if affected > 0 {
			newCount++
		}
	}
	return newCount, nil
}

// RecentKills returns up to limit of the newest cached kills in ascending
// id order.
func (s *Store) RecentKills(limit int) ([]api.Kill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, killer_uuid, killer_name, victim_uuid, victim_name, death_message, weapon_json, timestamp FROM (
			SELECT id, killer_uuid, killer_name, victim_uuid, victim_name, death_message, weapon_json, timestamp
			FROM kills ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kills []api.Kill
	for rows.Next() {
		var k api.Kill
		var weapon string
		if err := rows.Scan(&k.ID, &k.KillerUUID, &k.KillerName, &k.VictimUUID, &k.VictimName, &k.DeathMessage, &weapon, &k.Timestamp); err != nil {
			return nil, err
		}
		if weapon != "" {
			k.WeaponJSON = []byte(weapon)
		}
		kills = append(kills, k)
	}
	return kills, rows.Err()
}

// NewestChatID returns the highest cached message id, 0 when empty.
func (s *Store) NewestChatID() (int64, error) {
	return s.maxID("chat_messages")
}

// NewestKillID returns the highest cached kill id, 0 when empty.
func (s *Store) NewestKillID() (int64, error) {
	return s.maxID("kills")
}

func (s *Store) maxID(table string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(id) FROM " + table).Scan(&id); err != nil {
		return 0, err
	}
	return id.Int64, nil
}
