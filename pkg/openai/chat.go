package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// IChatGPT answers messages the intent parser could not place.
type IChatGPT interface {
	ProcessConversation(ctx context.Context, userMessage string, conversationHistory []ConversationMessage) (string, error)
}

type ConversationMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

const systemPrompt = `You are the scheduling assistant of ScheduleSync, a meeting booking service.

You can help the user with:
1. Booking meetings ("book a demo with jane@acme.com tomorrow at 2pm")
2. Cancelling or rescheduling meetings
3. Checking availability and upcoming meetings
4. Managing scheduling rules ("block meetings from competitor.com")
5. Sharing booking links

Rules:
- Answer in at most three short sentences.
- Never claim to have booked, cancelled or moved anything yourself.
- When the user seems to want one of the actions above, show them an example phrasing they can send.`

const maxHistory = 10

type chatGPTService struct {
	client *openai.Client
	model  string
}

func NewChatGPT(apiKey string, model string) IChatGPT {
	return NewChatGPTWithConfig(openai.DefaultConfig(apiKey), model)
}

func NewChatGPTWithConfig(cfg openai.ClientConfig, model string) IChatGPT {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &chatGPTService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *chatGPTService) ProcessConversation(
	ctx context.Context,
	userMessage string,
	conversationHistory []ConversationMessage,
) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		},
	}

	if len(conversationHistory) > maxHistory {
		conversationHistory = conversationHistory[len(conversationHistory)-maxHistory:]
	}
	for _, msg := range conversationHistory {
		role := openai.ChatMessageRoleUser
		if msg.Role == openai.ChatMessageRoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: 0.4,
			MaxTokens:   200,
		},
	)
	if err != nil {
		return "", fmt.Errorf("ChatGPT API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from ChatGPT")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
