// Package llm talks to hosted text-generation models. Callers describe what
// they want with a Request, optionally constrained by a JSON Schema, and get
// back a Response whose Content has been validated against that schema.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider generates one completion per call.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID names the model requests are sent to.
	ModelID() string
}

// Role identifies the author of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// UserPrompt is shorthand for a single-turn conversation.
func UserPrompt(text string) []Message {
	return []Message{{Role: RoleUser, Content: text}}
}

// Schema is a named JSON Schema the model output must satisfy.
type Schema struct {
	// Name is a short kebab-case identifier, e.g. "sat-question".
	Name        string
	Description string
	Definition  map[string]any
}

// Request is a single generation request.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks the provider for structured JSON output.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// StopReason is the provider-neutral reason generation stopped.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Usage is token consumption of a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// Response is a completed generation.
type Response struct {
	// Content is the model output. With a Schema it is a validated JSON
	// document; without one it is the raw text.
	Content json.RawMessage

	Usage      Usage
	Model      string
	StopReason StopReason
}

// Decode unmarshals Content into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return fmt.Errorf("decode %s response: %w", r.Model, err)
	}
	return nil
}
