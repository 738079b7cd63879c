// Package render turns decoded transcript entries into terminal text. It
// is purely a function of its input: no network calls, no mutation.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"

	"gamedeck/internal/transcript"
	"gamedeck/internal/util"
)

const (
	// displayIDLen matches the dashboard's truncated tool id display. The
	// full id is always kept in the model for correlation.
	displayIDLen = 12

	inputPreviewLines = 20
	inputPreviewBytes = 2 * 1024
)

// Options configures a Renderer.
type Options struct {
	Width    int
	Color    bool
	Markdown bool
}

// Renderer renders transcript entries. Construct once, reuse for every
// entry; it holds no per-entry state.
type Renderer struct {
	styles   Styles
	markdown *glamour.TermRenderer
	width    int
}

// New builds a renderer. Markdown rendering degrades to raw text when
// glamour cannot initialize.
func New(opts Options) *Renderer {
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	r := &Renderer{width: width}
	if opts.Color {
		r.styles = DefaultStyles()
	} else {
		r.styles = PlainStyles()
	}
	if opts.Markdown {
		md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err == nil {
			r.markdown = md
		}
	}
	return r
}

// ShouldColor reports whether output to w should be colored, honoring
// NO_COLOR and non-terminal writers.
func ShouldColor(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// FormatDuration renders milliseconds as seconds with one fractional
// digit, e.g. 120225 -> "120.2s".
func FormatDuration(ms float64) string {
	return fmt.Sprintf("%.1fs", ms/1000)
}

// FormatCost renders a dollar amount with four fractional digits.
func FormatCost(usd float64) string {
	return fmt.Sprintf("$%.4f", usd)
}

// DisplayID truncates a tool identifier for display. Correlation always
// uses the untruncated value.
func DisplayID(id string) string {
	if len(id) <= displayIDLen {
		return id
	}
	return id[:displayIDLen] + "..."
}

// Log renders every entry in order. The slice always has one element per
// input entry; unknown variants render as the empty string so counting
// stays stable.
func (r *Renderer) Log(entries []transcript.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, r.Entry(entry))
	}
	return out
}

// Entry renders one entry as a self-contained block. Unknown variants and
// unknown blocks render as nothing without affecting siblings.
func (r *Renderer) Entry(entry transcript.Entry) string {
	switch entry.Variant {
	case transcript.VariantAssistant:
		return r.assistant(entry.Assistant)
	case transcript.VariantUser:
		return r.user(entry.User)
	case transcript.VariantResult:
		return r.result(entry.Result)
	case transcript.VariantSystem:
		return r.system(entry.System)
	default:
		return ""
	}
}

func (r *Renderer) assistant(payload *transcript.AssistantPayload) string {
	if payload == nil {
		return ""
	}
	var b strings.Builder
	header := r.styles.Assistant.Render("Assistant")
	if payload.Model != "" {
		header += " " + r.styles.Meta.Render(payload.Model)
	}
	b.WriteString(header)

	for _, block := range payload.Blocks {
		switch block.Kind {
		case transcript.BlockText:
			b.WriteString("\n" + indent(r.prose(block.Text)))
		case transcript.BlockToolUse:
			b.WriteString("\n" + indent(r.toolUse(block.Tool)))
		}
	}
	return b.String()
}

func (r *Renderer) user(payload *transcript.UserPayload) string {
	if payload == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(r.styles.User.Render("User"))

	for _, block := range payload.Blocks {
		switch block.Kind {
		case transcript.BlockText:
			b.WriteString("\n" + indent(block.Text))
		case transcript.BlockToolResult:
			b.WriteString("\n" + indent(r.toolResult(block.Result)))
		}
	}
	return b.String()
}

func (r *Renderer) result(payload *transcript.ResultPayload) string {
	if payload == nil {
		return ""
	}
	label := r.styles.Failure.Render("Result")
	if payload.Subtype == "success" {
		label = r.styles.Success.Render("Result")
	}
	header := fmt.Sprintf("%s %s %s %s",
		label,
		payload.Subtype,
		r.styles.Meta.Render(FormatDuration(payload.DurationMS)),
		r.styles.Meta.Render(FormatCost(payload.TotalCostUSD)),
	)
	if payload.Result == "" {
		return header
	}
	return header + "\n" + indent(payload.Result)
}

func (r *Renderer) system(payload *transcript.SystemPayload) string {
	if payload == nil {
		return ""
	}
	header := r.styles.System.Render("System")
	if payload.Subtype != "" {
		header += " " + payload.Subtype
	}
	if len(payload.Data) == 0 {
		return header
	}
	data, err := json.MarshalIndent(payload.Data, "", "  ")
	if err != nil {
		return header
	}
	return header + "\n" + indent(string(data))
}

func (r *Renderer) toolUse(tool *transcript.ToolInvocation) string {
	if tool == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(r.styles.ToolName.Render(tool.Name))
	if tool.ID != "" {
		b.WriteString(" " + r.styles.Meta.Render(DisplayID(tool.ID)))
	}
	if len(tool.Input) > 0 {
		input, err := json.MarshalIndent(tool.Input, "", "  ")
		if err == nil {
			preview := util.Preview(util.RedactSecrets(string(input)), inputPreviewLines, inputPreviewBytes)
			b.WriteString("\n" + preview)
		}
	}
	return b.String()
}

func (r *Renderer) toolResult(result *transcript.ToolResult) string {
	if result == nil {
		return ""
	}
	var b strings.Builder
	label := "Tool Result"
	if result.IsError != nil && *result.IsError {
		label = "Tool Result (error)"
	}
	b.WriteString(r.styles.Meta.Render(label + ": " + DisplayID(result.ToolUseID)))
	for _, segment := range result.Segments {
		b.WriteString("\n" + util.RedactSecrets(segment.Text))
	}
	return b.String()
}

// prose renders assistant text, through glamour when available.
func (r *Renderer) prose(text string) string {
	if r.markdown == nil {
		return text
	}
	out, err := r.markdown.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

func indent(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
