package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiModel = "gemini-1.5-flash"

// geminiClient talks to the Google Gemini API.
type geminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a ChatModel backed by Gemini. Close releases the
// underlying connection.
func NewGeminiClient(ctx context.Context, apiKey string) (ChatModel, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiClient{client: client}, nil
}

// Chat sends the transcript and tool schemas to Gemini and returns the reply.
func (c *geminiClient) Chat(ctx context.Context, messages []Message, tools []ToolSchema) (*Reply, error) {
	// A fresh model per call keeps tool and system-instruction state off the
	// shared client.
	model := c.client.GenerativeModel(geminiModel)
	if len(tools) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: toGeminiFunctions(tools)}}
	}

	// Gemini takes system text as a separate instruction and the rest of
	// the transcript as alternating content parts.
	var parts []genai.Part
	for _, m := range messages {
		if m.Role == RoleSystem {
			model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(m.Content)}}
			continue
		}
		parts = append(parts, genai.Text(m.Content))
	}
	if len(parts) == 0 {
		return nil, ErrNoContent
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoContent
	}

	reply := &Reply{Model: geminiModel}
	if resp.UsageMetadata != nil {
		reply.Usage = Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			text.WriteString(string(p))
		case genai.FunctionCall:
			reply.ToolCalls = append(reply.ToolCalls, ToolInvocation{
				Name: p.Name,
				Args: p.Args,
			})
		}
	}
	reply.Content = text.String()

	if reply.Content == "" && len(reply.ToolCalls) == 0 {
		return nil, ErrNoContent
	}
	return reply, nil
}

// Close closes the underlying Gemini client.
func (c *geminiClient) Close() error {
	return c.client.Close()
}

func toGeminiFunctions(tools []ToolSchema) []*genai.FunctionDeclaration {
	var out []*genai.FunctionDeclaration
	for _, t := range tools {
		properties := make(map[string]*genai.Schema, len(t.Parameters))
		for name, desc := range t.Parameters {
			properties[name] = &genai.Schema{
				Type:        genai.TypeString,
				Description: desc,
			}
		}
		out = append(out, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
			},
		})
	}
	return out
}
