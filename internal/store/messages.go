package store

import (
	"fmt"
	"time"
)

// IndexMessages upserts a batch of messages for a chat in one transaction
// (idempotent on chat_id + identity).
func (db *DB) IndexMessages(chatID string, msgs []Message) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UnixMilli()
	for _, m := range msgs {
		if _, err := tx.Exec(`
			INSERT INTO messages (chat_id, identity, sender, body, raw_timestamp, timestamp, media_count, is_system, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(chat_id, identity) DO UPDATE SET
				sender = excluded.sender,
				body = excluded.body,
				raw_timestamp = excluded.raw_timestamp,
				timestamp = excluded.timestamp,
				media_count = excluded.media_count,
				is_system = excluded.is_system`,
			chatID, m.Identity, m.Sender, m.Body, m.RawTimestamp, m.Timestamp, m.MediaCount, m.IsSystem, now); err != nil {
			return fmt.Errorf("upsert message in batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// ListMessages returns messages for a chat ordered by timestamp ascending.
func (db *DB) ListMessages(chatID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(`
		SELECT id, chat_id, identity, sender, body, raw_timestamp, timestamp, media_count, is_system
		FROM messages
		WHERE chat_id = ?
		ORDER BY timestamp ASC
		LIMIT ?`, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Identity, &m.Sender, &m.Body, &m.RawTimestamp, &m.Timestamp, &m.MediaCount, &m.IsSystem); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
