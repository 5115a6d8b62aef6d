// Package llm is the AI text source behind roadmap generation, mentor
// guidance and resource lookups. Providers return JSON that conforms to a
// schema supplied by the caller.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider is the core abstraction for LLM interaction.
type Provider interface {
	// Generate sends a prompt and returns the model output. When req.Schema
	// is set the provider uses its native structured output mechanism and
	// the response Content is JSON validated against that schema.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Single-turn flows send one user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to. When nil the
	// response Content is the raw text.
	Schema *Schema

	// MaxTokens caps the response length. Zero means DefaultMaxTokens.
	MaxTokens int

	// Temperature controls randomness, 0.0 - 1.0.
	Temperature float64
}

// DefaultMaxTokens is used when a request leaves MaxTokens unset. Roadmaps
// run long, so this is generous.
const DefaultMaxTokens = 4096

func (r Request) maxTokens() int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	return DefaultMaxTokens
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt builds a single-turn message list.
func UserPrompt(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies the schema; kebab-case, e.g. "career-roadmap".
	// Compiled schemas are cached by name.
	Name string

	// Description is sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the validated JSON object when a schema was requested,
	// otherwise the raw text.
	Content json.RawMessage

	Usage Usage

	// Model is the model that served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Decode unmarshals a structured response into T.
func Decode[T any](resp *Response) (T, error) {
	var out T
	if resp == nil {
		return out, &ErrInvalidResponse{Err: fmt.Errorf("nil response")}
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return out, &ErrInvalidResponse{Content: resp.Content, Err: fmt.Errorf("decode: %w", err)}
	}
	return out, nil
}
