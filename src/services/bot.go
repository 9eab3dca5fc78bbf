package services

import (
	"context"
	"errors"
	"math/rand"

	"github.com/KwameAlfred37/MedFinderNew/src/models"

	openai "github.com/sashabaranov/go-openai"
)

// ReplyGenerator produces the assistant's follow-up to a user message. The
// quota warning and exhausted notices are composed by the chat service and
// never go through a generator.
type ReplyGenerator interface {
	NextReply(ctx context.Context, history []models.ChatMessage, userMessage string) (string, error)
}

// scriptedReplies is the fixed set of canned assistant responses.
var scriptedReplies = []string{
	"I can help you find that medication. Let me search for nearby pharmacies.",
	"Would you like me to check the availability at different locations?",
	"I found several options for you. Which pharmacy would you prefer?",
	"Is there anything specific you'd like to know about this medication?",
}

// ScriptedReplier picks a canned reply uniformly at random.
type ScriptedReplier struct{}

// NewScriptedReplier creates the default scripted ReplyGenerator.
func NewScriptedReplier() *ScriptedReplier {
	return &ScriptedReplier{}
}

func (r *ScriptedReplier) NextReply(_ context.Context, _ []models.ChatMessage, _ string) (string, error) {
	return scriptedReplies[rand.Intn(len(scriptedReplies))], nil
}

const assistantSystemPrompt = "You are MedBot, a concise assistant that helps people find medications " +
	"and nearby pharmacies. Answer in one or two sentences and never give medical advice."

// OpenAIReplier generates replies through an OpenAI-compatible chat
// completion endpoint. Selected by chat.bot.provider = "openai".
type OpenAIReplier struct {
	client *openai.Client
	model  string
}

// NewOpenAIReplier creates an OpenAI-backed ReplyGenerator. BaseURL may be
// empty for the default endpoint.
func NewOpenAIReplier(apiKey, baseURL, model string) (*OpenAIReplier, error) {
	if apiKey == "" {
		return nil, errors.New("openai replier requires an API key")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIReplier{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

func (r *OpenAIReplier) NextReply(ctx context.Context, history []models.ChatMessage, userMessage string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: assistantSystemPrompt},
	}
	// History arrives newest-first; replay it chronologically.
	for i := len(history) - 1; i >= 0; i-- {
		role := openai.ChatMessageRoleUser
		if history[i].IsFromBot {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: history[i].Message})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userMessage})

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    r.model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
