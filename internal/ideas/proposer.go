// Package ideas generates game prompts and feeds them into the backend
// backlog, throttling itself on queue fullness.
package ideas

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"

	"gamedeck/internal/api"
	"gamedeck/internal/llm"
)

// Backlog is the slice of the backend the proposer talks to.
type Backlog interface {
	QueueStatus(ctx context.Context) (api.QueueStatus, error)
	CreateIdea(ctx context.Context, req api.IdeaRequest) error
}

var _ Backlog = (*api.Client)(nil)

// fallbackIdeas seeds proposals when no model is configured. Every entry
// is a complete prompt the agent can build from directly.
var fallbackIdeas = []string{
	"make me a snake game using html, css, js",
	"make me a falling-blocks puzzle game using html, css, js",
	"make me a memory card matching game using html, css, js",
	"make me a breakout brick game using html, css, js",
	"make me a minesweeper game using html, css, js",
	"make me a 2048 sliding tiles game using html, css, js",
	"make me a whack-a-mole game using html, css, js",
	"make me a side-scrolling runner game using html, css, js",
	"make me a tower defense game using html, css, js",
	"make me a word guessing game using html, css, js",
	"make me a space shooter game using html, css, js",
	"make me a platformer game using html, css, js",
}

// Proposer turns model output into backlog entries. A nil model client
// falls back to the built-in idea list.
type Proposer struct {
	backlog Backlog
	model   llm.Client
	name    string
	logger  *zap.Logger

	rand  *rand.Rand
	sleep func(context.Context, time.Duration) error
}

// New constructs a proposer. modelName is ignored when model is nil.
func New(backlog Backlog, model llm.Client, modelName string, logger *zap.Logger) *Proposer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Proposer{
		backlog: backlog,
		model:   model,
		name:    modelName,
		logger:  logger,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:   sleepCtx,
	}
}

// ProposeOne produces a single idea prompt without submitting it.
func (p *Proposer) ProposeOne(ctx context.Context) (string, error) {
	if p.model == nil {
		return fallbackIdeas[p.rand.Intn(len(fallbackIdeas))], nil
	}

	response, err := p.model.Create(ctx, llm.Request{
		Model: p.name,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(proposerPrompt()),
			openai.UserMessage("Propose one new game idea."),
		},
		Tools:      []openai.ChatCompletionToolUnionParam{submitIdeaTool()},
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: param.NewOpt("required")},
	})
	if err != nil {
		return "", fmt.Errorf("propose idea: %w", err)
	}

	for _, call := range response.ToolCalls {
		if call.Name != "submit_idea" {
			continue
		}
		var args struct {
			Prompt string `json:"prompt"`
		}
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return "", fmt.Errorf("decode submit_idea arguments: %w", err)
		}
		if prompt := strings.TrimSpace(args.Prompt); prompt != "" {
			return prompt, nil
		}
	}
	if prompt := strings.TrimSpace(response.Content); prompt != "" {
		return prompt, nil
	}
	return "", fmt.Errorf("model returned no idea")
}

// Submit proposes one idea and enqueues it.
func (p *Proposer) Submit(ctx context.Context) (string, error) {
	prompt, err := p.ProposeOne(ctx)
	if err != nil {
		return "", err
	}
	if err := p.backlog.CreateIdea(ctx, api.IdeaRequest{Prompt: prompt}); err != nil {
		return "", fmt.Errorf("enqueue idea: %w", err)
	}
	return prompt, nil
}

// Run proposes ideas until ctx ends, backing off as the queue fills. A
// full queue pauses for thirty seconds without proposing; a queue at or
// above eighty percent waits ten seconds before the next proposal, at or
// above fifty percent two seconds.
func (p *Proposer) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		status, err := p.backlog.QueueStatus(ctx)
		if err != nil {
			p.logger.Warn("queue status unavailable", zap.Error(err))
			if err := p.sleep(ctx, 10*time.Second); err != nil {
				return err
			}
			continue
		}
		if status.IsFull {
			p.logger.Info("queue full, pausing", zap.Int("size", status.Size))
			if err := p.sleep(ctx, 30*time.Second); err != nil {
				return err
			}
			continue
		}
		if delay := Backoff(status); delay > 0 {
			if err := p.sleep(ctx, delay); err != nil {
				return err
			}
		}

		prompt, err := p.Submit(ctx)
		if err != nil {
			p.logger.Warn("proposal failed", zap.Error(err))
			if err := p.sleep(ctx, 10*time.Second); err != nil {
				return err
			}
			continue
		}
		p.logger.Info("idea enqueued",
			zap.String("prompt", prompt),
			zap.Int("queue_size", status.Size+1),
			zap.Int("queue_max", status.MaxSize))
	}
}

// Backoff maps queue fullness to the pause taken before the next
// proposal. A full queue is handled separately by Run.
func Backoff(status api.QueueStatus) time.Duration {
	if status.MaxSize <= 0 {
		return 0
	}
	fill := float64(status.Size) / float64(status.MaxSize)
	switch {
	case fill >= 0.8:
		return 10 * time.Second
	case fill >= 0.5:
		return 2 * time.Second
	default:
		return 0
	}
}

func proposerPrompt() string {
	return strings.TrimSpace(`You invent prompts for an autonomous agent that builds small browser games.

Requirements:
- Propose exactly one game, buildable with plain html, css, and js.
- Phrase it as a direct request, e.g. "make me a snake game using html, css, js".
- Favor mechanics that work with keyboard or mouse only, no external assets.
- Avoid repeating common ideas; vary genre and mechanic.
- Submit the idea with the submit_idea tool.`)
}

func submitIdeaTool() openai.ChatCompletionToolUnionParam {
	return openai.ChatCompletionToolUnionParam{
		OfFunction: &openai.ChatCompletionFunctionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        "submit_idea",
				Description: param.NewOpt("Submit one game idea prompt to the build queue."),
				Parameters: shared.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"prompt": map[string]any{
							"type":        "string",
							"description": "The complete build request for the game.",
						},
					},
					"required":             []string{"prompt"},
					"additionalProperties": false,
				},
				Strict: param.NewOpt(true),
			},
		},
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
