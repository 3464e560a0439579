package chat

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry records one merge operation that added at least one message.
type HistoryEntry struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	MessagesAdded int       `json:"messages_added"`
	IsUpdate      bool      `json:"is_update"`
}

// Metadata is the aggregate a Chat maintains over its message set.
//
// Invariant: KnownIdentities is exactly the set of identities of all messages
// the owning Chat holds, and MessageCount == len(KnownIdentities).
type Metadata struct {
	ChatID           string
	Title            string
	Description      string
	MessageCount     int
	ParticipantCount int
	FirstTimestamp   time.Time
	LastTimestamp    time.Time
	LastProcessed    time.Time
	History          []HistoryEntry
	KnownIdentities  map[string]struct{}
}

// NewMetadata creates metadata for a chat. When chatID is empty it is derived
// from the title, so re-converting the same export addresses the same dataset.
func NewMetadata(chatID, title, description string) *Metadata {
	if title == "" {
		title = "WhatsApp Chat"
	}
	if chatID == "" {
		sum := md5.Sum([]byte(title))
		chatID = hex.EncodeToString(sum[:])
	}
	return &Metadata{
		ChatID:          chatID,
		Title:           title,
		Description:     description,
		KnownIdentities: make(map[string]struct{}),
	}
}

// Chat owns one metadata aggregate and the ordered message sequence. No other
// component mutates the message list directly.
type Chat struct {
	Metadata *Metadata
	Messages []Message
}

// New creates an empty chat with the given metadata.
func New(meta *Metadata) *Chat {
	return &Chat{Metadata: meta}
}

// AddMessages reconciles a freshly parsed batch against the chat, folding in
// only messages whose identity is not yet known. Accepted messages are
// flagged IsNew and the aggregate statistics are updated. Returns the number
// of messages added.
//
// The accepted set is computed in full before the chat is mutated, so a
// failure mid-computation cannot leave the aggregate inconsistent. The
// operation is idempotent: reconciling the same batch twice adds nothing the
// second time.
func (c *Chat) AddMessages(incoming []Message, isUpdate bool) int {
	accepted := make([]Message, 0, len(incoming))
	seen := make(map[string]struct{}, len(incoming))
	for _, msg := range incoming {
		if _, ok := c.Metadata.KnownIdentities[msg.Identity]; ok {
			continue
		}
		if _, ok := seen[msg.Identity]; ok {
			// Duplicate within the batch itself.
			continue
		}
		seen[msg.Identity] = struct{}{}
		msg.IsNew = true
		accepted = append(accepted, msg)
	}

	if len(accepted) == 0 {
		return 0
	}

	for _, msg := range accepted {
		c.Metadata.KnownIdentities[msg.Identity] = struct{}{}
		if !msg.When.IsZero() {
			if c.Metadata.FirstTimestamp.IsZero() || msg.When.Before(c.Metadata.FirstTimestamp) {
				c.Metadata.FirstTimestamp = msg.When
			}
			if msg.When.After(c.Metadata.LastTimestamp) {
				c.Metadata.LastTimestamp = msg.When
			}
		}
	}
	c.Messages = append(c.Messages, accepted...)
	c.sortMessages()

	c.Metadata.MessageCount = len(c.Metadata.KnownIdentities)
	c.Metadata.ParticipantCount = c.countParticipants()
	c.Metadata.LastProcessed = c.Metadata.LastTimestamp
	c.Metadata.History = append(c.Metadata.History, HistoryEntry{
		ID:            uuid.NewString(),
		Date:          time.Now().UTC(),
		MessagesAdded: len(accepted),
		IsUpdate:      isUpdate,
	})

	return len(accepted)
}

// ClearNewFlags resets the transient IsNew flag on all messages.
func (c *Chat) ClearNewFlags() {
	for i := range c.Messages {
		c.Messages[i].IsNew = false
	}
}

// countParticipants counts distinct non-system senders across the whole
// message list. System messages are excluded via the IsSystem heuristic.
func (c *Chat) countParticipants() int {
	participants := make(map[string]struct{})
	for i := range c.Messages {
		if c.Messages[i].IsSystem() {
			continue
		}
		participants[c.Messages[i].Sender] = struct{}{}
	}
	return len(participants)
}

// sortMessages orders messages by parsed timestamp ascending. Unparseable
// timestamps (zero time) sort first. The sort is stable, so messages with
// equal timestamps keep their original encounter order.
func (c *Chat) sortMessages() {
	sort.SliceStable(c.Messages, func(i, j int) bool {
		return c.Messages[i].When.Before(c.Messages[j].When)
	})
}
