// Package transcript models the conversation log emitted by the agent
// backend. Raw log entries arrive as loosely-shaped JSON discriminated by
// field presence; everything here translates them into explicit tagged
// variants once, at the boundary, so downstream code never re-inspects
// field presence.
package transcript

import (
	"encoding/json"
	"time"
)

// Variant discriminates the payload shape of a log entry.
type Variant string

const (
	VariantAssistant Variant = "assistant"
	VariantUser      Variant = "user"
	VariantSystem    Variant = "system"
	VariantResult    Variant = "result"
	VariantUnknown   Variant = ""
)

// BlockKind discriminates a content block within a message payload.
type BlockKind string

const (
	BlockText       BlockKind = "text"
	BlockToolUse    BlockKind = "tool_use"
	BlockToolResult BlockKind = "tool_result"
	BlockUnknown    BlockKind = ""
)

// ToolInvocation is a tool call the agent made.
type ToolInvocation struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

// SegmentKind discriminates one rendered piece of a tool result.
type SegmentKind string

const (
	SegmentText SegmentKind = "text"
	SegmentJSON SegmentKind = "json"
)

// Segment is one displayable piece of a polymorphic tool result content.
type Segment struct {
	Kind SegmentKind
	Text string
}

// ToolResult is a reply to a prior tool invocation. ToolUseID keeps the
// full identifier for correlation; truncation happens at display time only.
type ToolResult struct {
	ToolUseID string
	Segments  []Segment
	IsError   *bool
}

// Block is one tagged content block. Exactly one of Text, Tool, or Result
// is meaningful, selected by Kind. Unknown blocks keep Kind == BlockUnknown
// and render as nothing.
type Block struct {
	Kind   BlockKind
	Text   string
	Tool   *ToolInvocation
	Result *ToolResult
}

// AssistantPayload is one assistant turn.
type AssistantPayload struct {
	Model  string
	Blocks []Block
}

// UserPayload is one user turn (tool results and plain text).
type UserPayload struct {
	Blocks []Block
}

// ResultPayload is the terminal summary of one agent run.
type ResultPayload struct {
	Subtype      string
	DurationMS   float64
	TotalCostUSD float64
	Result       string
}

// SystemPayload is a free-form side-channel event.
type SystemPayload struct {
	Subtype string
	Data    map[string]any
}

// Entry is one decoded unit of agent activity. Exactly one payload pointer
// is non-nil for known variants; unknown variants carry only Raw.
type Entry struct {
	Timestamp time.Time
	Variant   Variant
	Assistant *AssistantPayload
	User      *UserPayload
	System    *SystemPayload
	Result    *ResultPayload
	Raw       json.RawMessage
}

// ClassifyAssistantBlock maps a raw assistant content block to its kind
// using field presence only. A block with both name and input is a tool
// invocation even when a text field is also present; the check order
// matters for that reason.
func ClassifyAssistantBlock(fields map[string]json.RawMessage) BlockKind {
	_, hasName := fields["name"]
	_, hasInput := fields["input"]
	if hasName && hasInput {
		return BlockToolUse
	}
	if _, hasText := fields["text"]; hasText {
		return BlockText
	}
	return BlockUnknown
}

// ClassifyUserBlock maps a raw user content block to its kind. Any block
// carrying tool_use_id is a tool result regardless of other fields.
func ClassifyUserBlock(fields map[string]json.RawMessage) BlockKind {
	if _, hasID := fields["tool_use_id"]; hasID {
		return BlockToolResult
	}
	if _, hasText := fields["text"]; hasText {
		return BlockText
	}
	return BlockUnknown
}

type rawEntry struct {
	Timestamp    string          `json:"timestamp"`
	Type         string          `json:"type"`
	Model        string          `json:"model"`
	Content      json.RawMessage `json:"content"`
	Subtype      string          `json:"subtype"`
	DurationMS   float64         `json:"duration_ms"`
	TotalCostUSD float64         `json:"total_cost_usd"`
	Result       string          `json:"result"`
	Data         map[string]any  `json:"data"`
}

// DecodeEntry translates one raw log record into a tagged Entry. It is
// total: malformed records and unrecognized types come back as
// VariantUnknown rather than an error, so one bad record never aborts the
// rest of the log.
func DecodeEntry(raw json.RawMessage) Entry {
	var rec rawEntry
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Entry{Variant: VariantUnknown, Raw: raw}
	}

	entry := Entry{
		Timestamp: parseTimestamp(rec.Timestamp),
		Raw:       raw,
	}

	switch Variant(rec.Type) {
	case VariantAssistant:
		entry.Variant = VariantAssistant
		entry.Assistant = &AssistantPayload{
			Model:  rec.Model,
			Blocks: decodeAssistantBlocks(rec.Content),
		}
	case VariantUser:
		entry.Variant = VariantUser
		entry.User = &UserPayload{Blocks: decodeUserBlocks(rec.Content)}
	case VariantSystem:
		entry.Variant = VariantSystem
		entry.System = &SystemPayload{Subtype: rec.Subtype, Data: rec.Data}
	case VariantResult:
		entry.Variant = VariantResult
		entry.Result = &ResultPayload{
			Subtype:      rec.Subtype,
			DurationMS:   rec.DurationMS,
			TotalCostUSD: rec.TotalCostUSD,
			Result:       rec.Result,
		}
	default:
		entry.Variant = VariantUnknown
	}

	return entry
}

// DecodeLog decodes every record in arrival order. len(out) == len(in)
// always; unknown records stay in place as VariantUnknown entries.
func DecodeLog(records []json.RawMessage) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, DecodeEntry(rec))
	}
	return entries
}

func decodeAssistantBlocks(raw json.RawMessage) []Block {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	blocks := make([]Block, 0, len(items))
	for _, fields := range items {
		switch ClassifyAssistantBlock(fields) {
		case BlockToolUse:
			tool := &ToolInvocation{}
			_ = json.Unmarshal(fields["id"], &tool.ID)
			_ = json.Unmarshal(fields["name"], &tool.Name)
			_ = json.Unmarshal(fields["input"], &tool.Input)
			blocks = append(blocks, Block{Kind: BlockToolUse, Tool: tool})
		case BlockText:
			var text string
			_ = json.Unmarshal(fields["text"], &text)
			blocks = append(blocks, Block{Kind: BlockText, Text: text})
		default:
			blocks = append(blocks, Block{Kind: BlockUnknown})
		}
	}
	return blocks
}

func decodeUserBlocks(raw json.RawMessage) []Block {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	blocks := make([]Block, 0, len(items))
	for _, fields := range items {
		switch ClassifyUserBlock(fields) {
		case BlockToolResult:
			result := &ToolResult{}
			_ = json.Unmarshal(fields["tool_use_id"], &result.ToolUseID)
			result.Segments = decodeResultSegments(fields["content"])
			if rawErr, ok := fields["is_error"]; ok {
				var isErr *bool
				if err := json.Unmarshal(rawErr, &isErr); err == nil {
					result.IsError = isErr
				}
			}
			blocks = append(blocks, Block{Kind: BlockToolResult, Result: result})
		case BlockText:
			var text string
			_ = json.Unmarshal(fields["text"], &text)
			blocks = append(blocks, Block{Kind: BlockText, Text: text})
		default:
			blocks = append(blocks, Block{Kind: BlockUnknown})
		}
	}
	return blocks
}

// decodeResultSegments flattens the polymorphic tool result content: a
// plain string passes through, arrays render element by element, and
// anything structured becomes pretty-printed JSON.
func decodeResultSegments(raw json.RawMessage) []Segment {
	if len(raw) == 0 {
		return nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return []Segment{{Kind: SegmentText, Text: asString}}
	}

	var asArray []json.RawMessage
	if err := json.Unmarshal(raw, &asArray); err == nil {
		segments := make([]Segment, 0, len(asArray))
		for _, item := range asArray {
			segments = append(segments, decodeResultElement(item))
		}
		return segments
	}

	var asObject map[string]any
	if err := json.Unmarshal(raw, &asObject); err == nil {
		return []Segment{{Kind: SegmentJSON, Text: prettyJSON(asObject)}}
	}

	return []Segment{{Kind: SegmentText, Text: string(raw)}}
}

func decodeResultElement(raw json.RawMessage) Segment {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return Segment{Kind: SegmentText, Text: asString}
	}

	var asObject map[string]any
	if err := json.Unmarshal(raw, &asObject); err == nil {
		if text, ok := asObject["text"].(string); ok {
			return Segment{Kind: SegmentText, Text: text}
		}
		return Segment{Kind: SegmentJSON, Text: prettyJSON(asObject)}
	}

	return Segment{Kind: SegmentText, Text: string(raw)}
}

func prettyJSON(value any) string {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return ""
	}
	return string(out)
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts
	}
	return time.Time{}
}
