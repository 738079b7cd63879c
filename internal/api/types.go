package api

import "encoding/json"

// AgentStatus is the full backend-owned agent state, replaced wholesale on
// every poll. Conversation log records stay raw here; decoding into tagged
// variants is the transcript package's job.
type AgentStatus struct {
	IsOnline          bool              `json:"is_online"`
	IsRunning         bool              `json:"is_running"`
	CurrentJobID      *string           `json:"current_job_id"`
	CurrentPrompt     *string           `json:"current_prompt"`
	StartedAt         *string           `json:"started_at"`
	MessageCount      int               `json:"message_count"`
	ConversationLog   []json.RawMessage `json:"conversation_log"`
	IdeasQueue        []Idea            `json:"ideas_queue"`
	NumCompletedIdeas int               `json:"num_completed_ideas"`
	SessionTimestamp  string            `json:"session_timestamp"`
}

// ControlResponse is returned by the agent start/stop endpoints.
type ControlResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Idea is one work item in the backlog.
type Idea struct {
	ID        int      `json:"id"`
	Prompt    string   `json:"prompt"`
	Repos     []string `json:"repos"`
	State     string   `json:"state"`
	CreatedAt string   `json:"created_at"`
}

// Idea states used by the backend.
const (
	IdeaStateNotStarted = "NotStarted"
	IdeaStateCompleted  = "Completed"
)

// IdeaRequest creates a new backlog entry.
type IdeaRequest struct {
	Prompt string   `json:"prompt"`
	Repos  []string `json:"repos"`
}

// QueueStatus reports backlog fullness.
type QueueStatus struct {
	IsFull  bool `json:"is_full"`
	Size    int  `json:"size"`
	MaxSize int  `json:"max_size"`
}

// UsageStats are 0-100 percentages.
type UsageStats struct {
	Session int `json:"session"`
	Weekly  int `json:"weekly"`
}

// WorkSession describes the operator's current work window.
type WorkSession struct {
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	IdeaID          *int    `json:"idea_id"`
	DurationSeconds int     `json:"duration_seconds"`
}

// StatsResponse combines usage limits with the work session.
type StatsResponse struct {
	UsageStats  UsageStats  `json:"usage_stats"`
	WorkSession WorkSession `json:"work_session"`
}

// PackListing is one entry of the lightweight /projects-list view.
type PackListing struct {
	Timestamp string   `json:"timestamp"`
	Name      string   `json:"name"`
	Games     []string `json:"games"`
}

// GameMetadata describes one generated game.
type GameMetadata struct {
	Name     string   `json:"name"`
	Summary  string   `json:"summary"`
	BaseGame string   `json:"base_game"`
	Genre    []string `json:"genre"`
	Prompt   string   `json:"prompt"`
}

// Project is one generated artifact inside a pack. GamePackID is filled in
// client-side when the manifest is flattened.
type Project struct {
	ID              string       `json:"id"`
	PathToIndexHTML string       `json:"path_to_index_html"`
	PathToBannerArt *string      `json:"path_to_banner_art"`
	PathToCoverArt  *string      `json:"path_to_cover_art"`
	Metadata        GameMetadata `json:"metadata"`
	GamePackID      string       `json:"-"`
}

// GamePack groups the projects produced by one agent run.
type GamePack struct {
	Index    int       `json:"index"`
	ID       string    `json:"id"`
	Projects []Project `json:"projects"`
}

// EntryPoint is the resolved playable path for a project. Path is nil when
// the backend found no index.html.
type EntryPoint struct {
	Path    *string `json:"path"`
	Storage string  `json:"storage"`
	Err     string  `json:"error"`
}
