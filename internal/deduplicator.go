package internal

import (
	"crypto/sha256"
	"encoding/hex"
)

// Deduplicator removes conversations whose message content is identical.
// The editor store and the agent store can record the same session twice.
type Deduplicator struct{}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Deduplicate keeps the first conversation seen for each content hash.
// Conversations with no messages are always kept.
func (d *Deduplicator) Deduplicate(conversations []*Conversation) []*Conversation {
	seen := make(map[string]bool)
	var unique []*Conversation

	for _, conv := range conversations {
		if len(conv.Messages) == 0 {
			unique = append(unique, conv)
			continue
		}
		hash := d.hashContent(conv)
		if !seen[hash] {
			seen[hash] = true
			unique = append(unique, conv)
		}
	}

	return unique
}

func (d *Deduplicator) hashContent(conv *Conversation) string {
	h := sha256.New()
	for _, msg := range conv.Messages {
		h.Write([]byte(msg.Role))
		h.Write([]byte(msg.Text))
		h.Write([]byte(msg.Timestamp))
	}
	return hex.EncodeToString(h.Sum(nil))
}
