package internal

// UnknownToolName is the sentinel used when no name field can be resolved
// from a tool payload. A visible "Unknown Tool" block is always preferred
// over silently dropping the invocation.
const UnknownToolName = "Unknown Tool"

// ToolInvocation is the normalized {name, arguments, result} triple
// recovered from a fragment's tool payload. Built fresh per render call and
// never persisted. RawArgs, Params, Result and AdditionalData are carried
// exactly as stored: some formatters need the string form (e.g. to pull a
// file path out of a patch body), so JSON decoding is deferred to them.
type ToolInvocation struct {
	FragmentID     string
	Name           string
	RawArgs        interface{}
	Params         interface{}
	Result         interface{}
	AdditionalData interface{}
}

// IsUnknown reports whether the name resolved to the sentinel.
func (ti *ToolInvocation) IsUnknown() bool {
	return ti.Name == UnknownToolName
}

// ExtractToolData resolves a tool invocation from a fragment's payload.
// Sources are tried in fixed priority order:
//
//  1. the single tool-call object (toolFormerData), unless it is a
//     bookkeeping-only payload;
//  2. the first element of the tool-results array;
//  3. the first element of the capabilities array (name only).
//
// Returns nil when no source carries an invocation. Never panics.
func ExtractToolData(fragmentID string, toolFormer map[string]interface{}, results []interface{}, capabilities []interface{}) *ToolInvocation {
	if source := usableToolFormer(toolFormer); source != nil {
		return invocationFromSource(fragmentID, source)
	}
	if len(results) > 0 {
		if source, ok := results[0].(map[string]interface{}); ok {
			return invocationFromSource(fragmentID, source)
		}
	}
	if len(capabilities) > 0 {
		if source, ok := capabilities[0].(map[string]interface{}); ok {
			// Capability descriptors only ever carry a name.
			return &ToolInvocation{
				FragmentID: fragmentID,
				Name:       resolveToolName(source),
			}
		}
	}
	return nil
}

// usableToolFormer rejects payloads whose only populated key is the
// bookkeeping additionalData object with no name, arguments, parameters or
// result present. Those records track state, not invocations, and reporting
// them as tool calls misleads the reader.
func usableToolFormer(tf map[string]interface{}) map[string]interface{} {
	if len(tf) == 0 {
		return nil
	}
	hasSubstance := ResolveString(tf, toolNameKeys...) != "" ||
		ResolveAny(tf, "rawArgs", "arguments") != nil ||
		ResolveAny(tf, "params", "parameters") != nil ||
		ResolveAny(tf, "result") != nil
	if hasSubstance {
		return tf
	}
	onlyBookkeeping := true
	for key, v := range tf {
		if v == nil {
			continue
		}
		if key != "additionalData" {
			onlyBookkeeping = false
			break
		}
	}
	if onlyBookkeeping {
		return nil
	}
	// Populated with something other than bookkeeping, even if nameless;
	// it surfaces downstream as an Unknown Tool block.
	return tf
}

func invocationFromSource(fragmentID string, source map[string]interface{}) *ToolInvocation {
	return &ToolInvocation{
		FragmentID:     fragmentID,
		Name:           resolveToolName(source),
		RawArgs:        ResolveAny(source, "rawArgs", "arguments"),
		Params:         ResolveAny(source, "params", "parameters"),
		Result:         ResolveAny(source, "result"),
		AdditionalData: ResolveAny(source, "additionalData"),
	}
}

func resolveToolName(source map[string]interface{}) string {
	if name := ResolveString(source, toolNameKeys...); name != "" {
		return name
	}
	return UnknownToolName
}

// ToolData resolves the bubble's tool invocation, or nil.
func (rb *RawBubble) ToolData() *ToolInvocation {
	return ExtractToolData(rb.BubbleID, rb.ToolFormerData, rb.ToolCallResults, rb.Capabilities)
}

// ToolData resolves the message's tool invocation, or nil.
func (m *ConversationMessage) ToolData() *ToolInvocation {
	return ExtractToolData(m.BubbleID, m.ToolFormerData, m.ToolCallResults, m.Capabilities)
}
