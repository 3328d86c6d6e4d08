package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	groqAPIURL = "https://api.groq.com/openai/v1/chat/completions"
	groqModel  = "llama-3.3-70b-versatile"
)

// groqClient talks to the Groq OpenAI-compatible chat completions API.
type groqClient struct {
	apiKey     string
	httpClient *http.Client
}

// NewGroqClient creates a ChatModel backed by Groq.
func NewGroqClient(apiKey string) ChatModel {
	return &groqClient{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type groqTool struct {
	Type     string       `json:"type"`
	Function groqFunction `json:"function"`
}

type groqFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type groqRequest struct {
	Model       string     `json:"model"`
	Messages    []Message  `json:"messages"`
	Tools       []groqTool `json:"tools,omitempty"`
	Temperature float64    `json:"temperature"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Chat sends the transcript and tool schemas to Groq and returns the reply.
func (c *groqClient) Chat(ctx context.Context, messages []Message, tools []ToolSchema) (*Reply, error) {
	reqBody := groqRequest{
		Model:       groqModel,
		Messages:    messages,
		Tools:       toGroqTools(tools),
		Temperature: 0.1,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", groqAPIURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("groq api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var groqResp groqResponse
	if err := json.NewDecoder(resp.Body).Decode(&groqResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(groqResp.Choices) == 0 {
		return nil, ErrNoContent
	}

	choice := groqResp.Choices[0].Message
	reply := &Reply{
		Content: choice.Content,
		Model:   groqModel,
		Usage: Usage{
			PromptTokens:     groqResp.Usage.PromptTokens,
			CompletionTokens: groqResp.Usage.CompletionTokens,
		},
	}
	for _, tc := range choice.ToolCalls {
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return nil, fmt.Errorf("failed to decode tool arguments for %s: %w", tc.Function.Name, err)
			}
		}
		reply.ToolCalls = append(reply.ToolCalls, ToolInvocation{
			Name: tc.Function.Name,
			Args: args,
		})
	}
	return reply, nil
}

func toGroqTools(tools []ToolSchema) []groqTool {
	var out []groqTool
	for _, t := range tools {
		properties := map[string]any{}
		for name, desc := range t.Parameters {
			properties[name] = map[string]any{
				"type":        "string",
				"description": desc,
			}
		}
		out = append(out, groqTool{
			Type: "function",
			Function: groqFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters: map[string]any{
					"type":       "object",
					"properties": properties,
				},
			},
		})
	}
	return out
}
