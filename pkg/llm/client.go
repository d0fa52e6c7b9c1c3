package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/xhad/memogen/internal/models"
	"golang.org/x/time/rate"
)

// GenerationError wraps an LLM call failure with its original cause.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("error generating text: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// systemPrompts frames the model as an investment analyst in the memo's
// target language. The slot structure of the prompts downstream is
// language-invariant; only the framing differs.
var systemPrompts = map[models.Language]string{
	models.LanguageEnglish: "You are a professional investment analyst writing investment memorandums.",
	models.LanguageDutch:   "Je bent een professionele investeringsanalist die investeringsmemoranda schrijft.",
}

// ClientConfig represents the configuration for the generation client.
type ClientConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	BaseURL     string  // Ollama server URL
	RateLimit   float64 // requests per second
}

// Client generates text through the LLM backend. Requests pass through a
// rate limiter; retries and timeouts are the caller's responsibility, via
// the context they pass in.
type Client struct {
	config  ClientConfig
	llm     llms.Model
	limiter *rate.Limiter
}

// NewWithConfig creates a new Client with the given configuration.
func NewWithConfig(config ClientConfig) (*Client, error) {
	if config.Model == "" {
		config.Model = "mistral"
	}
	if config.Temperature <= 0 || config.Temperature > 1 {
		return nil, fmt.Errorf("temperature must be between 0 and 1")
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 2000
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2
	}

	llm, err := ollama.New(ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &Client{
		config:  config,
		llm:     llm,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}, nil
}

// GenerateText sends a single prompt, with an optional system prompt, and
// returns the generated text.
func (c *Client) GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var content []llms.MessageContent
	if systemPrompt != "" {
		content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	}
	content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	response, err := c.llm.GenerateContent(ctx, content,
		llms.WithTemperature(c.config.Temperature),
		llms.WithMaxTokens(c.config.MaxTokens))
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	if len(response.Choices) == 0 {
		return "", &GenerationError{Err: fmt.Errorf("no response from LLM")}
	}

	return response.Choices[0].Content, nil
}

// GenerateMemoSection generates one section of an investment memo from the
// given context values, framed in the target language.
func (c *Client) GenerateMemoSection(ctx context.Context, sectionName string, sectionContext map[string]any, language models.Language) (string, error) {
	system, ok := systemPrompts[language]
	if !ok {
		system = systemPrompts[models.LanguageEnglish]
	}

	prompt := fmt.Sprintf(`Generate the %s section based on this context:

%s

Requirements:
1. Use professional financial terminology
2. Be concise but comprehensive
3. Include specific data points where available
4. Maintain a formal tone`, sectionName, formatContext(sectionContext))

	return c.GenerateText(ctx, prompt, system)
}

// AnalyzeDocuments asks the model a query against a set of retrieved
// document texts.
func (c *Client) AnalyzeDocuments(ctx context.Context, documents []string, query string) (string, error) {
	combined := strings.Join(documents, "\n\n")
	prompt := fmt.Sprintf("Based on these documents:\n\n%s\n\nQuery: %s", combined, query)

	return c.GenerateText(ctx, prompt, "")
}

// formatContext renders context values as sorted key/value lines so prompts
// are stable across runs.
func formatContext(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %v\n", k, values[k])
	}
	return strings.TrimRight(b.String(), "\n")
}
