// Package agent runs a function-calling loop over a chat model: the model
// either answers directly or requests tool calls, whose outputs are fed back
// until it produces a final answer.
package agent

import (
	"context"

	"github.com/agenthands/staygraph/internal/llm"
)

// Tool is a callable the model may invoke. Schema is the JSON schema of the
// arguments object; Handler receives the decoded arguments and returns the
// text fed back to the model.
type Tool struct {
	Name        string
	Description string
	Schema      map[string]any
	Handler     func(ctx context.Context, args map[string]any) (string, error)
}

// Registry holds tools in registration order so the specs sent to the model
// are stable across runs.
type Registry struct {
	order []string
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds or replaces a tool by name.
func (r *Registry) Register(t Tool) {
	if _, ok := r.tools[t.Name]; !ok {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Specs returns the tool declarations in registration order.
func (r *Registry) Specs() []llm.ToolSpec {
	specs := make([]llm.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		specs = append(specs, llm.ToolSpec{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Schema,
		})
	}
	return specs
}
