package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// jsonGuard is appended to every system instruction. The models are asked
// for bare JSON at several call sites and occasionally wrap it in markdown
// fences anyway; a fenced response is treated as a contract violation by
// DecodeStrict, so the instruction front-loads the requirement.
const jsonGuard = "IMPORTANT: whenever the request asks for JSON, answer with the raw JSON " +
	"only. Never use markdown code fences, backticks, comments or any extra " +
	"formatting around it."

// GeminiCompleter is the concrete Completer backed by the Gemini API. One
// instance is configured for a fixed (model, temperature) pair; instances
// are stateless across calls and safe for concurrent use.
type GeminiCompleter struct {
	client      *genai.Client
	model       string
	temperature float32
}

// Complete sends the request to the model and returns the trimmed response
// text. An empty response is an error, never a success.
func (c *GeminiCompleter) Complete(ctx context.Context, req Request) (string, error) {
	system := jsonGuard
	if s := strings.TrimSpace(req.System); s != "" {
		system = s + "\n" + jsonGuard
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: req.Prompt}},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("GeminiCompleter.Complete: generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("GeminiCompleter.Complete: empty response from model %s", c.model)
	}

	return text, nil
}
