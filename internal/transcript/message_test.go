package transcript

import (
	"encoding/json"
	"fmt"
	"testing"
)

func fields(t *testing.T, src string) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	if err := json.Unmarshal([]byte(src), &out); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return out
}

func TestClassifyAssistantBlock(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want BlockKind
	}{
		{"tool use", `{"id":"toolu_1","name":"Write","input":{}}`, BlockToolUse},
		{"tool use with text", `{"name":"Write","input":{},"text":"x"}`, BlockToolUse},
		{"text", `{"text":"hello"}`, BlockText},
		{"name without input", `{"name":"Write","text":"x"}`, BlockText},
		{"input without name", `{"input":{},"text":"x"}`, BlockText},
		{"empty", `{}`, BlockUnknown},
		{"unrelated fields", `{"foo":1,"bar":2}`, BlockUnknown},
	}
	for _, tc := range cases {
		if got := ClassifyAssistantBlock(fields(t, tc.src)); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestClassifyUserBlock(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want BlockKind
	}{
		{"tool result", `{"tool_use_id":"toolu_1","content":"ok"}`, BlockToolResult},
		{"tool result wins over text", `{"tool_use_id":"toolu_1","text":"x"}`, BlockToolResult},
		{"text", `{"text":"hi"}`, BlockText},
		{"empty", `{}`, BlockUnknown},
	}
	for _, tc := range cases {
		if got := ClassifyUserBlock(fields(t, tc.src)); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestDecodeEntryAssistant(t *testing.T) {
	raw := json.RawMessage(`{
		"timestamp": "2025-11-25T15:57:59Z",
		"type": "assistant",
		"model": "claude-sonnet-4-5-20250929",
		"content": [
			{"text": "working on it"},
			{"id": "toolu_01TWibWBDoUY6Xh9wgp2Ekgm", "name": "StructuredOutput", "input": {"entry_point": "./projects/2/index.html"}}
		]
	}`)

	entry := DecodeEntry(raw)
	if entry.Variant != VariantAssistant {
		t.Fatalf("variant = %q", entry.Variant)
	}
	if entry.Assistant == nil {
		t.Fatal("nil assistant payload")
	}
	if entry.Assistant.Model != "claude-sonnet-4-5-20250929" {
		t.Fatalf("model = %q", entry.Assistant.Model)
	}
	if len(entry.Assistant.Blocks) != 2 {
		t.Fatalf("blocks = %d", len(entry.Assistant.Blocks))
	}
	if entry.Assistant.Blocks[0].Kind != BlockText || entry.Assistant.Blocks[0].Text != "working on it" {
		t.Fatalf("block 0 = %+v", entry.Assistant.Blocks[0])
	}
	tool := entry.Assistant.Blocks[1].Tool
	if tool == nil || tool.Name != "StructuredOutput" {
		t.Fatalf("block 1 = %+v", entry.Assistant.Blocks[1])
	}
	if tool.ID != "toolu_01TWibWBDoUY6Xh9wgp2Ekgm" {
		t.Fatalf("tool id truncated in model: %q", tool.ID)
	}
	if tool.Input["entry_point"] != "./projects/2/index.html" {
		t.Fatalf("tool input = %v", tool.Input)
	}
	if entry.Timestamp.IsZero() {
		t.Fatal("timestamp not parsed")
	}
}

func TestDecodeEntryUserToolResult(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "user",
		"content": [{"tool_use_id": "toolu_01", "content": "Structured output provided successfully", "is_error": null}]
	}`)

	entry := DecodeEntry(raw)
	if entry.Variant != VariantUser {
		t.Fatalf("variant = %q", entry.Variant)
	}
	blocks := entry.User.Blocks
	if len(blocks) != 1 || blocks[0].Kind != BlockToolResult {
		t.Fatalf("blocks = %+v", blocks)
	}
	result := blocks[0].Result
	if result.ToolUseID != "toolu_01" {
		t.Fatalf("tool_use_id = %q", result.ToolUseID)
	}
	if result.IsError != nil {
		t.Fatalf("is_error = %v", *result.IsError)
	}
	if len(result.Segments) != 1 || result.Segments[0].Text != "Structured output provided successfully" {
		t.Fatalf("segments = %+v", result.Segments)
	}
}

func TestDecodeResultSegmentsPolymorphic(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []Segment
	}{
		{
			"plain string",
			`"done"`,
			[]Segment{{Kind: SegmentText, Text: "done"}},
		},
		{
			"mixed array",
			`["raw", {"text": "inner"}, {"lines": 3}]`,
			[]Segment{
				{Kind: SegmentText, Text: "raw"},
				{Kind: SegmentText, Text: "inner"},
				{Kind: SegmentJSON, Text: "{\n  \"lines\": 3\n}"},
			},
		},
		{
			"bare object",
			`{"ok": true}`,
			[]Segment{{Kind: SegmentJSON, Text: "{\n  \"ok\": true\n}"}},
		},
		{
			"number falls back to stringify",
			`42`,
			[]Segment{{Kind: SegmentText, Text: "42"}},
		},
	}
	for _, tc := range cases {
		got := decodeResultSegments(json.RawMessage(tc.src))
		if len(got) != len(tc.want) {
			t.Fatalf("%s: got %d segments, want %d", tc.name, len(got), len(tc.want))
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: segment %d = %+v, want %+v", tc.name, i, got[i], tc.want[i])
			}
		}
	}
}

func TestDecodeEntryResult(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "result",
		"subtype": "success",
		"duration_ms": 120225,
		"total_cost_usd": 0.24706390000000003,
		"result": "built the registration page"
	}`)

	entry := DecodeEntry(raw)
	if entry.Variant != VariantResult {
		t.Fatalf("variant = %q", entry.Variant)
	}
	if entry.Result.Subtype != "success" {
		t.Fatalf("subtype = %q", entry.Result.Subtype)
	}
	if entry.Result.DurationMS != 120225 {
		t.Fatalf("duration = %v", entry.Result.DurationMS)
	}
}

func TestDecodeLogPreservesCountAndOrder(t *testing.T) {
	records := []json.RawMessage{
		json.RawMessage(`{"type":"assistant","content":[{"text":"a"}]}`),
		json.RawMessage(`{"type":"wat","content":"???"}`),
		json.RawMessage(`{"type":"user","content":[{"text":"b"}]}`),
		json.RawMessage(`not even json`),
		json.RawMessage(`{"type":"result","subtype":"success"}`),
	}

	entries := DecodeLog(records)
	if len(entries) != len(records) {
		t.Fatalf("got %d entries, want %d", len(entries), len(records))
	}

	wantVariants := []Variant{VariantAssistant, VariantUnknown, VariantUser, VariantUnknown, VariantResult}
	for i, want := range wantVariants {
		if entries[i].Variant != want {
			t.Fatalf("entry %d variant = %q, want %q", i, entries[i].Variant, want)
		}
	}
}

func TestDecodeEntryUnknownBlockDoesNotDropSiblings(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "assistant",
		"content": [{"mystery": 1}, {"text": "still here"}]
	}`)

	entry := DecodeEntry(raw)
	blocks := entry.Assistant.Blocks
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d", len(blocks))
	}
	if blocks[0].Kind != BlockUnknown {
		t.Fatalf("block 0 kind = %q", blocks[0].Kind)
	}
	if blocks[1].Kind != BlockText || blocks[1].Text != "still here" {
		t.Fatalf("block 1 = %+v", blocks[1])
	}
}

func TestClassificationIsTotal(t *testing.T) {
	// Every combination of the three discriminating fields maps to exactly
	// one kind for each block universe.
	for mask := 0; mask < 8; mask++ {
		src := "{"
		sep := ""
		if mask&1 != 0 {
			src += `"name":"t"`
			sep = ","
		}
		if mask&2 != 0 {
			src += sep + `"input":{}`
			sep = ","
		}
		if mask&4 != 0 {
			src += sep + `"text":"x"`
		}
		src += "}"
		f := fields(t, src)

		got := ClassifyAssistantBlock(f)
		switch {
		case mask&1 != 0 && mask&2 != 0:
			if got != BlockToolUse {
				t.Fatalf("mask %03b: got %q want tool_use", mask, got)
			}
		case mask&4 != 0:
			if got != BlockText {
				t.Fatalf("mask %03b: got %q want text", mask, got)
			}
		default:
			if got != BlockUnknown {
				t.Fatalf("mask %03b: got %q want unknown", mask, got)
			}
		}
	}

	for _, hasID := range []bool{true, false} {
		for _, hasText := range []bool{true, false} {
			src := "{"
			sep := ""
			if hasID {
				src += `"tool_use_id":"t"`
				sep = ","
			}
			if hasText {
				src += sep + `"text":"x"`
			}
			src += "}"
			got := ClassifyUserBlock(fields(t, src))
			want := BlockUnknown
			if hasID {
				want = BlockToolResult
			} else if hasText {
				want = BlockText
			}
			if got != want {
				t.Fatalf("id=%v text=%v: got %q want %q", hasID, hasText, got, want)
			}
		}
	}
}

func TestDecodeLogLarge(t *testing.T) {
	var records []json.RawMessage
	for i := 0; i < 50; i++ {
		records = append(records, json.RawMessage(
			fmt.Sprintf(`{"type":"assistant","content":[{"text":"turn %d"}]}`, i)))
	}
	entries := DecodeLog(records)
	if len(entries) != 50 {
		t.Fatalf("got %d", len(entries))
	}
	for i, entry := range entries {
		want := fmt.Sprintf("turn %d", i)
		if entry.Assistant.Blocks[0].Text != want {
			t.Fatalf("entry %d out of order: %q", i, entry.Assistant.Blocks[0].Text)
		}
	}
}
