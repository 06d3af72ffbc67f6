package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/agenthands/staygraph/internal/llm"
)

const (
	DefaultTimeout  = 120 * time.Second
	DefaultMaxSteps = 10
)

// ToolOutput is one successful tool invocation, kept as provenance for the
// final answer.
type ToolOutput struct {
	ToolName string `json:"tool_name"`
	CallID   string `json:"call_id"`
	Content  string `json:"content"`
}

// RunResult is the final answer plus the tool outputs that produced it.
// Sources covers the current run only.
type RunResult struct {
	Output  string       `json:"output"`
	Sources []ToolOutput `json:"sources"`
}

// Agent drives the tool loop. Chat memory persists across runs so follow-up
// questions keep their context; provenance does not.
type Agent struct {
	Chat         llm.ChatClient
	Tools        *Registry
	SystemPrompt string
	Timeout      time.Duration
	MaxSteps     int

	mu      sync.Mutex
	memory  []llm.ChatMessage
	sources []ToolOutput

	log *log.Logger
}

func New(chat llm.ChatClient, tools *Registry, systemPrompt string) *Agent {
	return &Agent{
		Chat:         chat,
		Tools:        tools,
		SystemPrompt: systemPrompt,
		Timeout:      DefaultTimeout,
		MaxSteps:     DefaultMaxSteps,
		log:          log.With("component", "agent"),
	}
}

// Reset clears the conversation memory.
func (a *Agent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory = nil
}

// Run processes one user input to completion under the wall-clock timeout.
// Tool failures are reported back to the model as tool messages and the loop
// continues; only transport failures and the deadline abort the run.
func (a *Agent) Run(ctx context.Context, input string) (*RunResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	a.sources = nil
	a.memory = append(a.memory, llm.ChatMessage{Role: llm.RoleUser, Content: input})

	maxSteps := a.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	specs := a.Tools.Specs()

	for step := 0; step < maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := a.Chat.ChatWithTools(ctx, a.messages(), specs)
		if err != nil {
			return nil, fmt.Errorf("chat completion failed: %w", err)
		}

		a.memory = append(a.memory, llm.ChatMessage{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		if len(resp.ToolCalls) == 0 {
			return &RunResult{Output: resp.Content, Sources: a.sources}, nil
		}

		for _, call := range resp.ToolCalls {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			a.dispatch(ctx, call)
		}
	}

	return nil, fmt.Errorf("tool loop did not converge after %d steps", maxSteps)
}

func (a *Agent) messages() []llm.ChatMessage {
	if a.SystemPrompt == "" {
		return a.memory
	}
	msgs := make([]llm.ChatMessage, 0, len(a.memory)+1)
	msgs = append(msgs, llm.ChatMessage{Role: llm.RoleSystem, Content: a.SystemPrompt})
	return append(msgs, a.memory...)
}

// dispatch executes one tool call and appends the resulting tool message.
// Every outcome, including unknown tools and handler errors, becomes a
// message the model can react to.
func (a *Agent) dispatch(ctx context.Context, call llm.ToolCall) {
	callID := call.ID
	if callID == "" {
		callID = uuid.New().String()
	}

	tool, ok := a.Tools.Get(call.Name)
	if !ok {
		a.log.Warn("model requested unknown tool", "tool", call.Name)
		a.appendToolMessage(call.Name, callID, fmt.Sprintf("Tool %s does not exist", call.Name))
		return
	}

	args := make(map[string]any)
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			a.appendToolMessage(call.Name, callID, fmt.Sprintf("Encountered error in tool call: invalid arguments: %v", err))
			return
		}
	}

	output, err := tool.Handler(ctx, args)
	if err != nil {
		a.log.Warn("tool call failed", "tool", call.Name, "err", err)
		a.appendToolMessage(call.Name, callID, fmt.Sprintf("Encountered error in tool call: %v", err))
		return
	}

	a.sources = append(a.sources, ToolOutput{ToolName: call.Name, CallID: callID, Content: output})
	a.appendToolMessage(call.Name, callID, output)
}

func (a *Agent) appendToolMessage(toolName, callID, content string) {
	a.memory = append(a.memory, llm.ChatMessage{
		Role:       llm.RoleTool,
		Content:    content,
		ToolCallID: callID,
		Name:       toolName,
	})
}
