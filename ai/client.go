// ABOUTME: OpenAI Chat Completions client used for diagram generation and explanation.
// ABOUTME: Supports custom base URLs so OpenAI-compatible providers work unchanged.

package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultModel = "gpt-5.2"

const generateSystemPrompt = `You are a Kubernetes architecture assistant. Produce a mermaid
flowchart describing the system the user asks about. Group related resources into subgraphs
(one per namespace, tier, or component). Respond with a single fenced mermaid code block and
nothing else.`

const explainSystemPrompt = `You are a Kubernetes architecture assistant. The user gives you
mermaid flowchart source describing a cluster. Explain the architecture it shows: the major
groupings, the traffic flow between them, and anything unusual. Answer in markdown.`

// Client wraps the Chat Completions API for the two dashboard operations:
// generating diagram source from a description and explaining existing source.
type Client struct {
	client openai.Client
	model  string
}

// NewClient creates a client. An empty model selects the default; an empty
// baseURL targets the standard OpenAI endpoint.
func NewClient(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = defaultModel
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Model returns the model name requests are sent with.
func (c *Client) Model() string {
	return c.model
}

// GenerateDiagram asks the model for flowchart source matching the prompt.
// The response is unwrapped from its code fence; when the model answers
// without a fence the raw text is returned as-is.
func (c *Client) GenerateDiagram(ctx context.Context, prompt string) (string, error) {
	text, err := c.complete(ctx, generateSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("generate diagram: %w", err)
	}
	if fenced, ok := ExtractFence(text); ok {
		return fenced, nil
	}
	return strings.TrimSpace(text), nil
}

// ExplainDiagram asks the model for a markdown explanation of the given
// flowchart source.
func (c *Client) ExplainDiagram(ctx context.Context, source string) (string, error) {
	text, err := c.complete(ctx, explainSystemPrompt, source)
	if err != nil {
		return "", fmt.Errorf("explain diagram: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
