package chat

import (
	"encoding/json"
	"os"
	"time"
)

// The snapshot is the durable JSON form of a chat, written as chat_data.json
// in the dataset directory. Messages carry an _internal block with the
// identity and the transient is_new flag; the legacy message export omits
// that block for backward compatibility with the original consumer format.

type snapshotJSON struct {
	Metadata metadataJSON  `json:"metadata"`
	Messages []messageJSON `json:"messages"`
}

type metadataJSON struct {
	ChatID            string         `json:"chat_id"`
	Title             string         `json:"title"`
	Description       string         `json:"description,omitempty"`
	MessageCount      int            `json:"message_count"`
	ParticipantCount  int            `json:"participant_count"`
	FirstTimestamp    *time.Time     `json:"first_timestamp"`
	LastTimestamp     *time.Time     `json:"last_timestamp"`
	LastProcessed     *time.Time     `json:"last_processed_timestamp"`
	ProcessingHistory []HistoryEntry `json:"processing_history"`
	MessageIDs        []string       `json:"message_ids"`
}

type messageJSON struct {
	Timestamp string         `json:"timestamp"`
	Sender    string         `json:"sender"`
	Content   string         `json:"content"`
	Media     []mediaJSON    `json:"media"`
	Internal  *messageExtras `json:"_internal,omitempty"`
}

type mediaJSON struct {
	Type MediaKind `json:"type"`
	File *string   `json:"file"`
}

type messageExtras struct {
	ID    string `json:"id"`
	IsNew bool   `json:"is_new"`
}

func (m *Metadata) toJSON() metadataJSON {
	ids := make([]string, 0, len(m.KnownIdentities))
	for id := range m.KnownIdentities {
		ids = append(ids, id)
	}
	history := m.History
	if history == nil {
		history = []HistoryEntry{}
	}
	return metadataJSON{
		ChatID:            m.ChatID,
		Title:             m.Title,
		Description:       m.Description,
		MessageCount:      m.MessageCount,
		ParticipantCount:  m.ParticipantCount,
		FirstTimestamp:    timePtr(m.FirstTimestamp),
		LastTimestamp:     timePtr(m.LastTimestamp),
		LastProcessed:     timePtr(m.LastProcessed),
		ProcessingHistory: history,
		MessageIDs:        ids,
	}
}

func (m *Message) toJSON(internal bool) messageJSON {
	media := make([]mediaJSON, 0, len(m.Media))
	for _, ref := range m.Media {
		mj := mediaJSON{Type: ref.Kind}
		if ref.Filename != "" {
			name := ref.Filename
			mj.File = &name
		}
		media = append(media, mj)
	}
	mj := messageJSON{
		Timestamp: m.RawTimestamp,
		Sender:    m.Sender,
		Content:   m.Content,
		Media:     media,
	}
	if internal {
		mj.Internal = &messageExtras{ID: m.Identity, IsNew: m.IsNew}
	}
	return mj
}

func messageFromJSON(mj messageJSON) Message {
	media := make([]MediaRef, 0, len(mj.Media))
	for _, item := range mj.Media {
		ref := MediaRef{Kind: item.Type}
		if item.File != nil {
			ref.Filename = *item.File
		}
		media = append(media, ref)
	}
	msg := Message{
		RawTimestamp: mj.Timestamp,
		Sender:       mj.Sender,
		Content:      mj.Content,
		Media:        media,
		When:         ParseTimestamp(mj.Timestamp),
	}
	if mj.Internal != nil && mj.Internal.ID != "" {
		msg.Identity = mj.Internal.ID
		msg.IsNew = mj.Internal.IsNew
	} else {
		msg.Identity = msg.deriveIdentity()
	}
	return msg
}

// MarshalSnapshot serializes the full chat (metadata plus messages with their
// internal block).
func (c *Chat) MarshalSnapshot() ([]byte, error) {
	snap := snapshotJSON{
		Metadata: c.Metadata.toJSON(),
		Messages: make([]messageJSON, 0, len(c.Messages)),
	}
	for i := range c.Messages {
		snap.Messages = append(snap.Messages, c.Messages[i].toJSON(true))
	}
	return json.MarshalIndent(snap, "", "  ")
}

// MarshalLegacyMessages serializes the ordered message list in the original
// export format, without internal fields.
func (c *Chat) MarshalLegacyMessages() ([]byte, error) {
	msgs := make([]messageJSON, 0, len(c.Messages))
	for i := range c.Messages {
		msgs = append(msgs, c.Messages[i].toJSON(false))
	}
	return json.MarshalIndent(msgs, "", "  ")
}

// MarshalMetadata serializes the metadata aggregate on its own.
func (c *Chat) MarshalMetadata() ([]byte, error) {
	return json.MarshalIndent(c.Metadata.toJSON(), "", "  ")
}

// SaveSnapshot writes the snapshot to path.
func (c *Chat) SaveSnapshot(path string) error {
	data, err := c.MarshalSnapshot()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// LoadSnapshot reads a chat back from a snapshot file. A missing, unreadable
// or corrupt snapshot returns (nil, nil): the caller treats it as "no prior
// export" and proceeds with a first-time conversion.
func LoadSnapshot(path string) (*Chat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}
	var snap snapshotJSON
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, nil
	}

	meta := NewMetadata(snap.Metadata.ChatID, snap.Metadata.Title, snap.Metadata.Description)
	meta.MessageCount = snap.Metadata.MessageCount
	meta.ParticipantCount = snap.Metadata.ParticipantCount
	meta.FirstTimestamp = timeVal(snap.Metadata.FirstTimestamp)
	meta.LastTimestamp = timeVal(snap.Metadata.LastTimestamp)
	meta.LastProcessed = timeVal(snap.Metadata.LastProcessed)
	meta.History = snap.Metadata.ProcessingHistory

	c := New(meta)
	for _, mj := range snap.Messages {
		msg := messageFromJSON(mj)
		c.Messages = append(c.Messages, msg)
		meta.KnownIdentities[msg.Identity] = struct{}{}
	}
	// Recorded identities win over the message list: identities listed in the
	// metadata but absent from messages stay known, so a merge never re-adds
	// a message the snapshot already accounted for.
	for _, id := range snap.Metadata.MessageIDs {
		meta.KnownIdentities[id] = struct{}{}
	}
	meta.MessageCount = len(meta.KnownIdentities)
	return c, nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeVal(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
