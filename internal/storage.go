package internal

import (
	"database/sql"
	"sort"
	"strings"
)

// LoadComposers reads every composerData row from the store. Rows that fail
// to parse are logged and skipped so one corrupt record cannot hide the rest.
func LoadComposers(db *sql.DB) ([]*RawComposer, error) {
	pairs, err := QueryCursorDiskKV(db, "composerData:%")
	if err != nil {
		return nil, err
	}
	composers := make([]*RawComposer, 0, len(pairs))
	for _, pair := range pairs {
		composer, err := ParseRawComposer(pair.Key, pair.Value)
		if err != nil {
			LogWarn("skipping composer %s: %v", pair.Key, err)
			continue
		}
		composers = append(composers, composer)
	}
	sort.Slice(composers, func(i, j int) bool {
		return composers[i].CreatedAt > composers[j].CreatedAt
	})
	return composers, nil
}

// LoadBubblesForComposer reads the bubble rows belonging to one composer,
// preferring the batch path when the header carries its fragment list.
func LoadBubblesForComposer(db *sql.DB, composer *RawComposer) ([]*RawBubble, error) {
	if composer != nil && len(composer.FullConversationHeadersOnly) > 0 {
		keys := make([]string, 0, len(composer.FullConversationHeadersOnly))
		for _, header := range composer.FullConversationHeadersOnly {
			if header.BubbleID == "" {
				continue
			}
			keys = append(keys, "bubbleId:"+composer.ComposerID+":"+header.BubbleID)
		}
		bubbles, err := fetchBubbles(db, keys)
		if err != nil {
			return nil, err
		}
		if len(bubbles) > 0 {
			return bubbles, nil
		}
	}
	if composer == nil {
		return nil, nil
	}
	pairs, err := QueryCursorDiskKV(db, "bubbleId:"+composer.ComposerID+":%")
	if err != nil {
		return nil, err
	}
	return parseBubblePairs(pairs), nil
}

func fetchBubbles(db *sql.DB, keys []string) ([]*RawBubble, error) {
	// Large conversations can exceed the bound-parameter limit, so fetch in
	// chunks and reassemble in key order.
	const chunkSize = 500
	byKey := make(map[string]*RawBubble, len(keys))
	for start := 0; start < len(keys); start += chunkSize {
		end := start + chunkSize
		if end > len(keys) {
			end = len(keys)
		}
		pairs, err := BatchQueryCursorDiskKV(db, keys[start:end])
		if err != nil {
			return nil, err
		}
		for _, bubble := range parseBubblePairs(pairs) {
			byKey["bubbleId:"+bubble.ComposerID+":"+bubble.BubbleID] = bubble
		}
	}
	bubbles := make([]*RawBubble, 0, len(byKey))
	for _, key := range keys {
		if bubble, ok := byKey[key]; ok {
			bubbles = append(bubbles, bubble)
		}
	}
	return bubbles, nil
}

// LoadAllBubbles reads every bubble row and groups them by composer ID.
func LoadAllBubbles(db *sql.DB) (map[string][]*RawBubble, error) {
	pairs, err := QueryCursorDiskKV(db, "bubbleId:%")
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]*RawBubble)
	for _, bubble := range parseBubblePairs(pairs) {
		grouped[bubble.ComposerID] = append(grouped[bubble.ComposerID], bubble)
	}
	return grouped, nil
}

func parseBubblePairs(pairs []KeyValuePair) []*RawBubble {
	bubbles := make([]*RawBubble, 0, len(pairs))
	for _, pair := range pairs {
		bubble, err := ParseRawBubble(pair.Key, pair.Value)
		if err != nil {
			LogDebug("skipping bubble %s: %v", pair.Key, err)
			continue
		}
		bubbles = append(bubbles, bubble)
	}
	return bubbles
}

// LoadConversation assembles a single conversation by composer ID. The ID may
// be a unique prefix of the full identifier.
func LoadConversation(db *sql.DB, composerID string) (*Conversation, error) {
	composers, err := LoadComposers(db)
	if err != nil {
		return nil, err
	}
	var match *RawComposer
	for _, composer := range composers {
		if composer.ComposerID == composerID {
			match = composer
			break
		}
		if strings.HasPrefix(composer.ComposerID, composerID) {
			if match != nil {
				return nil, &AssembleError{ComposerID: composerID, Err: errAmbiguousID}
			}
			match = composer
		}
	}
	if match == nil {
		return nil, &AssembleError{ComposerID: composerID, Err: errNotFound}
	}
	bubbles, err := LoadBubblesForComposer(db, match)
	if err != nil {
		return nil, err
	}
	return NewAssembler().Assemble(match, bubbles), nil
}

// LoadConversations assembles every conversation in the store.
func LoadConversations(db *sql.DB) ([]*Conversation, error) {
	composers, err := LoadComposers(db)
	if err != nil {
		return nil, err
	}
	grouped, err := LoadAllBubbles(db)
	if err != nil {
		return nil, err
	}
	return NewAssembler().AssembleAll(composers, grouped), nil
}
