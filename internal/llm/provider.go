package llm

// Provider generates a review from an assembled prompt. The system prompt
// carries the reviewer persona and project conventions; callers may pass ""
// to use the model's default behavior.
type Provider interface {
	GetModel() string
	Generate(prompt, systemPrompt string) (string, error)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

var SupportedProviders = []string{"ollama", "openai"}
