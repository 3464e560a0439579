package store

import (
	"database/sql"
	"time"
)

// UpsertChat inserts or updates an indexed chat dataset.
func (db *DB) UpsertChat(c *Chat) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO chats (chat_id, dataset, title, description, message_count, participant_count, first_ts, last_ts, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			dataset = excluded.dataset,
			title = excluded.title,
			description = excluded.description,
			message_count = excluded.message_count,
			participant_count = excluded.participant_count,
			first_ts = excluded.first_ts,
			last_ts = excluded.last_ts,
			updated_at = excluded.updated_at`,
		c.ChatID, c.Dataset, c.Title, c.Description, c.MessageCount, c.ParticipantCount, c.FirstTs, c.LastTs, now)
	return err
}

// ListChats returns indexed chats sorted by last activity descending.
func (db *DB) ListChats() ([]Chat, error) {
	rows, err := db.Query(`
		SELECT chat_id, dataset, title, description, message_count, participant_count, first_ts, last_ts
		FROM chats
		ORDER BY last_ts DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var chats []Chat
	for rows.Next() {
		var c Chat
		if err := rows.Scan(&c.ChatID, &c.Dataset, &c.Title, &c.Description, &c.MessageCount, &c.ParticipantCount, &c.FirstTs, &c.LastTs); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// GetChatByDataset returns the indexed chat for a dataset name, or nil.
func (db *DB) GetChatByDataset(dataset string) (*Chat, error) {
	var c Chat
	err := db.QueryRow(`
		SELECT chat_id, dataset, title, description, message_count, participant_count, first_ts, last_ts
		FROM chats
		WHERE dataset = ?`, dataset).
		Scan(&c.ChatID, &c.Dataset, &c.Title, &c.Description, &c.MessageCount, &c.ParticipantCount, &c.FirstTs, &c.LastTs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
