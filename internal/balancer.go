package internal

import (
	"regexp"
	"sort"
	"strings"
)

// balancedTags is the fixed list of block-level tags the balancer tracks.
// Inline tags are left alone: an unbalanced <b> cannot break page layout
// the way an unbalanced <details> or <table> can.
var balancedTags = map[string]bool{
	"div":        true,
	"details":    true,
	"summary":    true,
	"table":      true,
	"thead":      true,
	"tbody":      true,
	"tr":         true,
	"th":         true,
	"td":         true,
	"figure":     true,
	"figcaption": true,
	"pre":        true,
	"blockquote": true,
}

var (
	tagRe    = regexp.MustCompile(`<(/?)([a-zA-Z][a-zA-Z0-9]*)((?:[^>"']|"[^"]*"|'[^']*')*?)(/?)>`)
	scriptRe = regexp.MustCompile(`(?i)<(\s*/?\s*)script`)
)

type tagToken struct {
	name    string
	closing bool
	void    bool // self-closing form
	start   int
	end     int
}

// BalanceMarkup repairs an HTML fragment produced from partially trusted
// Markdown so that embedding it cannot break the surrounding page. Two
// passes: orphan closing tags are removed, then tags still open at end of
// input are closed innermost first. A final pass rewrites literal script
// tags into entity form so transcript content can never execute as a live
// script. Total and idempotent on already balanced input.
func BalanceMarkup(html string) string {
	cleaned := removeOrphanClosers(html)
	closed := closeDanglingTags(cleaned)
	return scriptRe.ReplaceAllString(closed, "&lt;${1}script")
}

func scanTags(html string) []tagToken {
	var tokens []tagToken
	for _, m := range tagRe.FindAllStringSubmatchIndex(html, -1) {
		closing := html[m[2]:m[3]] == "/"
		name := strings.ToLower(html[m[4]:m[5]])
		if !balancedTags[name] {
			continue
		}
		void := m[8] >= 0 && html[m[8]:m[9]] == "/"
		tokens = append(tokens, tagToken{
			name:    name,
			closing: closing,
			void:    void,
			start:   m[0],
			end:     m[1],
		})
	}
	return tokens
}

// removeOrphanClosers deletes closing tags with no matching open tag on the
// stack. Removal happens back to front so earlier offsets stay valid.
func removeOrphanClosers(html string) string {
	var stack []string
	var orphans []tagToken

	for _, tok := range scanTags(html) {
		switch {
		case tok.void:
			// Self-closing; does not affect the stack.
		case !tok.closing:
			stack = append(stack, tok.name)
		default:
			matched := -1
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i] == tok.name {
					matched = i
					break
				}
			}
			if matched == -1 {
				orphans = append(orphans, tok)
				continue
			}
			// Pop only the matched entry: tags opened above it stay on
			// the stack so pass 2 can still close them.
			stack = append(stack[:matched], stack[matched+1:]...)
		}
	}

	if len(orphans) == 0 {
		return html
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].start > orphans[j].start })
	out := html
	for _, tok := range orphans {
		out = out[:tok.start] + out[tok.end:]
	}
	return out
}

// closeDanglingTags re-scans with a fresh stack and appends a closing tag
// for everything left open, innermost first.
func closeDanglingTags(html string) string {
	var stack []string
	for _, tok := range scanTags(html) {
		switch {
		case tok.void:
		case !tok.closing:
			stack = append(stack, tok.name)
		default:
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i] == tok.name {
					stack = append(stack[:i], stack[i+1:]...)
					break
				}
			}
		}
	}
	if len(stack) == 0 {
		return html
	}
	var b strings.Builder
	b.WriteString(html)
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteString("</")
		b.WriteString(stack[i])
		b.WriteString(">")
	}
	return b.String()
}
