package chatstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/casterlin/fable-tavern/backend/internal/model/chat"
)

// SQLiteStore persists sessions and transcripts in a SQLite database. Message
// sequence numbers are derived inside a transaction, so appends are atomic and
// readers never observe a partially written message.
type SQLiteStore struct {
	db *sql.DB
}

var (
	_ SessionStore = &SQLiteStore{}
	_ MessageStore = &SQLiteStore{}
)

// DSNForFile builds a sqlite DSN for a database file path.
func DSNForFile(path string) (string, error) {
	if path == "" {
		return "", errors.New("sqlite store: empty database path")
	}
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path), nil
}

// NewSQLiteStore opens the database and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		return nil, errors.New("sqlite store: empty dsn")
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite store: open")
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS chat_sessions (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			character_id  TEXT NOT NULL,
			created_at_ms INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_chat_sessions_user
			ON chat_sessions (user_id, created_at_ms);
		CREATE TABLE IF NOT EXISTS chat_messages (
			session_id    TEXT NOT NULL,
			seq           INTEGER NOT NULL,
			sender        TEXT NOT NULL,
			content       TEXT NOT NULL,
			msg_type      TEXT NOT NULL,
			created_at_ms INTEGER NOT NULL,
			PRIMARY KEY (session_id, seq)
		);
	`)
	return errors.Wrap(err, "sqlite store: migrate")
}

// Create provisions a new session with a fresh uuid.
func (s *SQLiteStore) Create(ctx context.Context, userID, characterID string) (chat.Session, error) {
	session := chat.Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		CharacterID: characterID,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_sessions (id, user_id, character_id, created_at_ms)
		VALUES (?, ?, ?, ?)`,
		session.ID, session.UserID, session.CharacterID, session.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return chat.Session{}, errors.Wrap(err, "sqlite store: create session")
	}
	return session, nil
}

// Get retrieves a session by identifier.
func (s *SQLiteStore) Get(ctx context.Context, sessionID string) (chat.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, character_id, created_at_ms
		FROM chat_sessions WHERE id = ?`, sessionID)

	var session chat.Session
	var createdMs int64
	if err := row.Scan(&session.ID, &session.UserID, &session.CharacterID, &createdMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return chat.Session{}, ErrSessionNotFound
		}
		return chat.Session{}, errors.Wrap(err, "sqlite store: get session")
	}
	session.CreatedAt = time.UnixMilli(createdMs).UTC()
	return session, nil
}

// ListByUser returns the user's sessions in creation order.
func (s *SQLiteStore) ListByUser(ctx context.Context, userID string) ([]chat.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, character_id, created_at_ms
		FROM chat_sessions WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite store: list sessions")
	}
	defer rows.Close()

	sessions := make([]chat.Session, 0, 8)
	for rows.Next() {
		var session chat.Session
		var createdMs int64
		if err := rows.Scan(&session.ID, &session.UserID, &session.CharacterID, &createdMs); err != nil {
			return nil, errors.Wrap(err, "sqlite store: scan session")
		}
		session.CreatedAt = time.UnixMilli(createdMs).UTC()
		sessions = append(sessions, session)
	}
	return sessions, errors.Wrap(rows.Err(), "sqlite store: list sessions")
}

// Append assigns the next sequence number and a non-decreasing timestamp
// inside a transaction, then persists the message.
func (s *SQLiteStore) Append(ctx context.Context, sessionID string, sender chat.Sender, content string, msgType chat.MessageType) (chat.Message, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return chat.Message{}, errors.Wrap(err, "sqlite store: begin append")
	}
	defer func() { _ = tx.Rollback() }()

	var lastSeq int64
	var lastMs sql.NullInt64
	row := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0), MAX(created_at_ms)
		FROM chat_messages WHERE session_id = ?`, sessionID)
	if err := row.Scan(&lastSeq, &lastMs); err != nil {
		return chat.Message{}, errors.Wrap(err, "sqlite store: next seq")
	}

	nowMs := time.Now().UTC().UnixMilli()
	if lastMs.Valid && lastMs.Int64 > nowMs {
		nowMs = lastMs.Int64
	}

	message := chat.Message{
		Seq:       lastSeq + 1,
		SessionID: sessionID,
		Sender:    sender,
		Content:   content,
		Type:      msgType,
		CreatedAt: time.UnixMilli(nowMs).UTC(),
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO chat_messages (session_id, seq, sender, content, msg_type, created_at_ms)
		VALUES (?, ?, ?, ?, ?, ?)`,
		message.SessionID, message.Seq, message.Sender, message.Content, message.Type, nowMs,
	)
	if err != nil {
		return chat.Message{}, errors.Wrap(err, "sqlite store: append message")
	}
	if err := tx.Commit(); err != nil {
		return chat.Message{}, errors.Wrap(err, "sqlite store: commit append")
	}
	return message, nil
}

// List returns the session transcript in append order.
func (s *SQLiteStore) List(ctx context.Context, sessionID string) ([]chat.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, session_id, sender, content, msg_type, created_at_ms
		FROM chat_messages WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite store: list messages")
	}
	defer rows.Close()

	messages := make([]chat.Message, 0, 16)
	for rows.Next() {
		var message chat.Message
		var createdMs int64
		var sender, msgType string
		if err := rows.Scan(&message.Seq, &message.SessionID, &sender, &message.Content, &msgType, &createdMs); err != nil {
			return nil, errors.Wrap(err, "sqlite store: scan message")
		}
		message.Sender = chat.Sender(sender)
		message.Type = chat.MessageType(msgType)
		message.CreatedAt = time.UnixMilli(createdMs).UTC()
		messages = append(messages, message)
	}
	return messages, errors.Wrap(rows.Err(), "sqlite store: list messages")
}
