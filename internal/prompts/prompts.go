// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompts defines the built-in assistant types and their system
// prompts. The registry is an explicit value constructed at startup and
// passed to whatever needs it; there is no package-level instance.
package prompts

// DefaultTypeID is the assistant type used when none is configured or a
// requested id is unknown.
const DefaultTypeID = "general"

// AssistantType defines a kind of assistant with a specialized system prompt.
type AssistantType struct {
	ID           string
	Name         string
	SystemPrompt string
	Description  string
}

// Registry holds the available assistant types in registration order.
type Registry struct {
	types map[string]AssistantType
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]AssistantType)}
}

// DefaultRegistry returns a registry populated with the built-in assistant types.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Add(AssistantType{
		ID:           "general",
		Name:         "General Assistant",
		SystemPrompt: "You are a helpful, harmless, and honest AI assistant. Always answer as helpfully as possible.",
		Description:  "A well-rounded assistant for general tasks and questions",
	})

	r.Add(AssistantType{
		ID:   "coding",
		Name: "Coding Expert",
		SystemPrompt: `You are a coding expert AI assistant. Focus on providing clear, efficient, and well-documented code solutions.
Follow these principles:
1. First understand the requirements thoroughly.
2. Provide working code with explanations.
3. Highlight best practices and potential improvements.
4. If you spot issues in the user's approach, suggest better alternatives.
5. For complex solutions, break down the implementation steps.
6. Include comments in code to explain key parts.
7. If relevant, mention performance considerations.`,
		Description: "Specialized in programming assistance, code review, and software development",
	})

	r.Add(AssistantType{
		ID:   "finance",
		Name: "Financial Advisor",
		SystemPrompt: `You are a financial advisor AI assistant. Provide helpful information on financial topics while following these guidelines:
1. Clarify that your advice is informational, not professional financial advice.
2. Explain financial concepts clearly without unnecessary jargon.
3. When discussing investments, emphasize the importance of diversification and risk management.
4. Avoid making specific investment recommendations about individual securities.
5. Encourage users to consult with qualified financial professionals for their specific situation.
6. Provide educational content on financial planning, budgeting, investing concepts, and economic topics.`,
		Description: "Specialized in financial advice, investment concepts, and economic information",
	})

	return r
}

// Add registers an assistant type, replacing any existing type with the same id.
func (r *Registry) Add(t AssistantType) {
	if _, exists := r.types[t.ID]; !exists {
		r.order = append(r.order, t.ID)
	}
	r.types[t.ID] = t
}

// Get returns the assistant type for an id and whether it exists.
func (r *Registry) Get(id string) (AssistantType, bool) {
	t, ok := r.types[id]
	return t, ok
}

// Default returns the default assistant type.
func (r *Registry) Default() AssistantType {
	return r.types[DefaultTypeID]
}

// All returns all assistant types in registration order.
func (r *Registry) All() []AssistantType {
	out := make([]AssistantType, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.types[id])
	}
	return out
}

// SystemPrompt returns the system prompt for an assistant type, falling back
// to the default type's prompt when the id is unknown.
func (r *Registry) SystemPrompt(id string) string {
	if t, ok := r.types[id]; ok {
		return t.SystemPrompt
	}
	return r.Default().SystemPrompt
}
