package openai

import (
	"context"
	"errors"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Message is a role-tagged chat message ready for the model API.
// Role must be one of "system", "user" or "assistant".
type Message struct {
	Role    string
	Content string
}

// Client wraps the OpenAI API for the handlers. Credentials and the model
// name come from the environment.
type Client struct {
	api   *openai.Client
	Model string
}

func NewClient() *Client {
	key := os.Getenv("OPENAI_API_KEY")
	model := os.Getenv("CHAT_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Client{api: openai.NewClient(key), Model: model}
}

func toAPIMessages(msgs []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

// StreamChat starts a streaming chat completion and returns a channel of
// response deltas. The channel is closed when the stream ends; cancelling the
// context both fails the pending Recv and unblocks a pending send, so the
// pump goroutine never leaks on client abort.
func (c *Client) StreamChat(ctx context.Context, msgs []Message) (<-chan string, error) {
	if c.api == nil {
		return nil, errors.New("openai client not initialized")
	}
	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    c.Model,
		Messages: toAPIMessages(msgs),
	})
	if err != nil {
		return nil, err
	}

	ch := make(chan string)
	go func() {
		defer stream.Close()
		defer close(ch)
		for {
			resp, err := stream.Recv()
			if err != nil {
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			select {
			case ch <- resp.Choices[0].Delta.Content:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// Complete runs a non-streaming chat completion and returns the trimmed
// assistant text. Used for auxiliary calls (keyword derivation, report
// generation) where a single short answer is expected.
func (c *Client) Complete(ctx context.Context, msgs []Message) (string, error) {
	if c.api == nil {
		return "", errors.New("openai client not initialized")
	}
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.Model,
		Messages: toAPIMessages(msgs),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
