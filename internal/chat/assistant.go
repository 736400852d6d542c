// Package chat implements the storefront's virtual travel assistant.
package chat

import (
	"context"
	"fmt"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const systemPrompt = `Eres el asistente virtual de ReservaT, una agencia de viajes colombiana. ` +
	`Ayudas a los viajeros a resolver dudas sobre destinos, paquetes turísticos, transportes, ` +
	`hoteles, restaurantes y experiencias, y los orientas para completar su perfil de viajero ` +
	`y recibir una propuesta personalizada. Responde siempre en español, de forma breve y cordial. ` +
	`Si te preguntan por precios o disponibilidad exacta, aclara que un asesor humano los confirmará.`

// defaultMaxHistory bounds the per-conversation context sent to the model.
const defaultMaxHistory = 20

// completionClient is the slice of the OpenAI client the assistant needs.
// Keeping it an interface lets tests substitute a scripted transcript.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config configures the assistant's upstream model.
type Config struct {
	APIKey     string
	Model      string
	MaxHistory int
}

// WidgetConfig is what web clients need to mount the chat widget.
type WidgetConfig struct {
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle"`
	GetStarted       string   `json:"getStarted"`
	InputPlaceholder string   `json:"inputPlaceholder"`
	DefaultLanguage  string   `json:"defaultLanguage"`
	InitialMessages  []string `json:"initialMessages"`
}

// Widget returns the storefront chat widget copy.
func Widget() WidgetConfig {
	return WidgetConfig{
		Title:            "ReservaT AI",
		Subtitle:         "Tu asistente de viajes inteligente",
		GetStarted:       "Iniciar conversación",
		InputPlaceholder: "Escribe tu pregunta...",
		DefaultLanguage:  "es",
		InitialMessages: []string{
			"¡Hola! Soy el asistente virtual de ReservaT AI.",
			"¿En qué puedo ayudarte hoy?",
		},
	}
}

// Assistant answers traveler questions, keeping a bounded in-memory history
// per conversation.
type Assistant struct {
	client     completionClient
	model      string
	maxHistory int
	logger     *zap.Logger

	mu            sync.Mutex
	conversations map[string][]openai.ChatCompletionMessage
}

// NewAssistant creates an assistant backed by the OpenAI chat API.
func NewAssistant(cfg Config, logger *zap.Logger) *Assistant {
	return newAssistant(openai.NewClient(cfg.APIKey), cfg, logger)
}

func newAssistant(client completionClient, cfg Config, logger *zap.Logger) *Assistant {
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = defaultMaxHistory
	}
	return &Assistant{
		client:        client,
		model:         cfg.Model,
		maxHistory:    cfg.MaxHistory,
		logger:        logger,
		conversations: make(map[string][]openai.ChatCompletionMessage),
	}
}

// Send appends the traveler message to the conversation, asks the model for a
// reply and records both turns.
func (a *Assistant) Send(ctx context.Context, conversationID, message string) (string, error) {
	a.mu.Lock()
	history := append([]openai.ChatCompletionMessage{}, a.conversations[conversationID]...)
	a.mu.Unlock()

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	messages = append(messages, history...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0.7,
		MaxTokens:   600,
		Messages:    messages,
	})
	if err != nil {
		a.logger.Error("Assistant completion failed",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		return "", fmt.Errorf("assistant completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from assistant")
	}
	reply := resp.Choices[0].Message.Content

	a.mu.Lock()
	turns := append(a.conversations[conversationID],
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message},
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply},
	)
	// Drop the oldest turns once past the history bound.
	if len(turns) > a.maxHistory {
		turns = turns[len(turns)-a.maxHistory:]
	}
	a.conversations[conversationID] = turns
	a.mu.Unlock()

	a.logger.Info("Assistant replied",
		zap.String("conversation_id", conversationID),
		zap.Int("history_turns", len(turns)))
	return reply, nil
}

// Forget drops the stored history for a conversation.
func (a *Assistant) Forget(conversationID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.conversations, conversationID)
}
