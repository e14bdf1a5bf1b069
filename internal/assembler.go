package internal

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Assembler joins composer headers with their bubble fragments into
// normalized conversation records. Assembly never fails: malformed
// fragments are carried through with degraded metadata and a diagnostic,
// never dropped.
type Assembler struct{}

// NewAssembler creates a new Assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble builds one normalized conversation from a header and the
// unordered bag of fragments that share its composer id. The record is
// constructed once and not mutated afterwards.
func (a *Assembler) Assemble(composer *RawComposer, bubbles []*RawBubble) *Conversation {
	conv := &Conversation{}

	if composer == nil {
		conv.ID = uuid.NewString()
		if len(bubbles) > 0 && bubbles[0].ComposerID != "" {
			conv.ID = bubbles[0].ComposerID
		}
		conv.Mode = ModeChat
		conv.Diagnostics = append(conv.Diagnostics, "missing composer header; synthesized conversation id")
	} else {
		conv.ID = composer.ComposerID
		conv.Name = composer.Name
		conv.Mode = composer.Mode()
		conv.CreatedAt = composer.CreatedAt
		conv.UpdatedAt = composer.LastUpdatedAt
		conv.LinesAdded = composer.TotalLinesAdded
		conv.LinesRemoved = composer.TotalLinesRemoved
		conv.FilesChanged = composer.FilesChanged
		if composer.ModelConfig != nil {
			conv.Model = composer.ModelConfig.ModelName
		}
		if conv.ID == "" {
			conv.ID = uuid.NewString()
			conv.Diagnostics = append(conv.Diagnostics, "composer header without id; synthesized conversation id")
		}
	}

	// Restore chronological order. The sort is stable and missing
	// timestamps (zero) naturally sort first.
	ordered := make([]*RawBubble, len(bubbles))
	copy(ordered, bubbles)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp < ordered[j].Timestamp
	})

	touched := make(map[string]bool)
	for _, bubble := range ordered {
		if bubble == nil {
			conv.Diagnostics = append(conv.Diagnostics, "nil fragment skipped")
			continue
		}
		msg := a.normalizeBubble(bubble, conv)
		conv.Messages = append(conv.Messages, msg)

		switch msg.Role {
		case RoleUser:
			conv.Stats.UserCount++
		default:
			conv.Stats.AssistantCount++
		}
		for _, block := range bubble.CodeBlocks {
			if block.Content != "" {
				conv.Stats.CodeLineCount += strings.Count(block.Content, "\n") + 1
			}
		}
		if inv := bubble.ToolData(); inv != nil {
			conv.Stats.ToolCallCount++
			for _, file := range touchedFilesOf(inv) {
				touched[file] = true
			}
		}
	}
	conv.Stats.MessageCount = len(conv.Messages)

	for file := range touched {
		conv.TouchedFiles = append(conv.TouchedFiles, file)
	}
	sort.Strings(conv.TouchedFiles)

	return conv
}

// normalizeBubble maps one fragment to a message. Role classification:
// type 1 is user; type 2 is agent in agent mode, assistant otherwise; any
// other type code is classified like type 2 with a diagnostic rather than
// being dropped.
func (a *Assembler) normalizeBubble(bubble *RawBubble, conv *Conversation) ConversationMessage {
	role := RoleAssistant
	switch bubble.Type {
	case 1:
		role = RoleUser
	case 2:
		if conv.Mode == ModeAgent {
			role = RoleAgent
		}
	default:
		if conv.Mode == ModeAgent {
			role = RoleAgent
		}
		conv.Diagnostics = append(conv.Diagnostics,
			fmt.Sprintf("fragment %s has unrecognized type code %d; treated as %s", bubble.BubbleID, bubble.Type, role))
	}

	msg := ConversationMessage{
		BubbleID:        bubble.BubbleID,
		Role:            role,
		Text:            ExtractBubbleText(bubble),
		TimestampMs:     bubble.Timestamp,
		Thinking:        bubble.Thinking,
		CodeBlocks:      bubble.CodeBlocks,
		ToolFormerData:  bubble.ToolFormerData,
		ToolCallResults: bubble.ToolCallResults,
		Capabilities:    bubble.Capabilities,
	}
	if bubble.Timestamp > 0 {
		msg.Timestamp = time.Unix(0, bubble.Timestamp*int64(time.Millisecond)).UTC().Format(time.RFC3339)
	}
	// A bare duration belongs to the thinking trace.
	if bubble.ThinkingDurationMs > 0 {
		if msg.Thinking == nil {
			msg.Thinking = &ThinkingBlock{DurationMs: bubble.ThinkingDurationMs}
		} else if msg.Thinking.DurationMs == 0 {
			trace := *msg.Thinking
			trace.DurationMs = bubble.ThinkingDurationMs
			msg.Thinking = &trace
		}
	}
	return msg
}

// touchedFilesOf scans an invocation's arguments for path-like fields,
// JSON-decoding string payloads first.
func touchedFilesOf(inv *ToolInvocation) []string {
	var files []string
	for _, src := range []interface{}{inv.RawArgs, inv.Params} {
		if m := AsMap(src); m != nil {
			if p := ResolveString(m, filePathKeys...); p != "" {
				files = append(files, p)
			}
		}
	}
	return files
}

// AssembleAll joins every composer with its fragments. Composers whose
// assembly yields no messages are still included: an empty conversation
// renders a notice, not an absence.
func (a *Assembler) AssembleAll(composers []*RawComposer, bubblesByComposer map[string][]*RawBubble) []*Conversation {
	conversations := make([]*Conversation, 0, len(composers))
	claimed := make(map[string]bool, len(composers))
	for _, composer := range composers {
		if composer == nil {
			continue
		}
		claimed[composer.ComposerID] = true
		conversations = append(conversations, a.Assemble(composer, bubblesByComposer[composer.ComposerID]))
	}

	// Fragment groups without a composer row still become conversations.
	orphans := make([]string, 0)
	for composerID := range bubblesByComposer {
		if !claimed[composerID] {
			orphans = append(orphans, composerID)
		}
	}
	sort.Strings(orphans)
	for _, composerID := range orphans {
		conversations = append(conversations, a.Assemble(nil, bubblesByComposer[composerID]))
	}

	for _, conv := range conversations {
		for _, diag := range conv.Diagnostics {
			LogDebug("assemble %s: %s", conv.ID, diag)
		}
	}
	return conversations
}
