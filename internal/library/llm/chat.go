// Package llm proxies chat conversations to an OpenAI-compatible provider.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/sashabaranov/go-openai"
)

const (
	// ProviderHuggingFace names the HuggingFace router provider
	ProviderHuggingFace = "huggingface"
	// ProviderOpenAI names the OpenAI provider
	ProviderOpenAI = "openai"
	// ProviderFallback names the offline reply
	ProviderFallback = "fallback"

	// DefaultOpenAIURL is the OpenAI chat completions endpoint
	DefaultOpenAIURL = "https://api.openai.com/v1/chat/completions"
	// DefaultOpenAIModel is used when no OpenAI model is configured
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultHuggingFaceModel is used when no HuggingFace model is configured
	DefaultHuggingFaceModel = "mistralai/Mistral-7B-Instruct-v0.2:featherless-ai"

	defaultTemperature = 0.7
	maxTemperature     = 1.2
	maxReplyTokens     = 700
	maxMessageRunes    = 6000
	chatRequestTimeout = 60 * time.Second

	completionsSuffix = "/chat/completions"

	systemPrompt = "You are NovaChat, an enthusiastic yet precise AI assistant built for a modern search engine startup. " +
		"Give concise, well-structured answers with optional bullet lists, cite concrete examples, " +
		"and suggest next actions when helpful."
)

// ErrMessagesRequired is returned when a conversation has no usable message
var ErrMessagesRequired = errors.New("messages array is required")

// Message is one conversation turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ProviderConfig addresses one OpenAI-compatible chat completions endpoint
type ProviderConfig struct {
	// URL is either the full chat completions url or its base
	URL   string
	Token string
	Model string
}

// Settings selects the chat providers.
// HuggingFace is used when both URL and Token are set, then OpenAI when Token is set.
type Settings struct {
	HuggingFace ProviderConfig
	OpenAI      ProviderConfig
}

// Reply is the chat endpoint response body
type Reply struct {
	Reply    string `json:"reply"`
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Option configures ChatService
type Option func(*ChatService)

// WithHTTPClient overrides the HTTP client used for provider calls
func WithHTTPClient(client *http.Client) Option {
	return func(s *ChatService) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// ChatService answers conversations through the configured provider
type ChatService struct {
	settings   Settings
	httpClient *http.Client
}

// NewChatService creates a ChatService, missing models fall back to defaults
func NewChatService(settings Settings, opts ...Option) *ChatService {
	settings.HuggingFace = trimProvider(settings.HuggingFace)
	settings.OpenAI = trimProvider(settings.OpenAI)
	if settings.HuggingFace.Model == "" {
		settings.HuggingFace.Model = DefaultHuggingFaceModel
	}
	if settings.OpenAI.Model == "" {
		settings.OpenAI.Model = DefaultOpenAIModel
	}
	if settings.OpenAI.URL == "" {
		settings.OpenAI.URL = DefaultOpenAIURL
	}

	svc := &ChatService{
		settings:   settings,
		httpClient: &http.Client{Timeout: chatRequestTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}

	return svc
}

func trimProvider(cfg ProviderConfig) ProviderConfig {
	return ProviderConfig{
		URL:   strings.TrimSpace(cfg.URL),
		Token: strings.TrimSpace(cfg.Token),
		Model: strings.TrimSpace(cfg.Model),
	}
}

// Provider returns the name and config of the provider that will serve chats,
// ok is false in offline mode.
func (s *ChatService) Provider() (name string, cfg ProviderConfig, ok bool) {
	switch {
	case s.settings.HuggingFace.URL != "" && s.settings.HuggingFace.Token != "":
		return ProviderHuggingFace, s.settings.HuggingFace, true
	case s.settings.OpenAI.Token != "":
		return ProviderOpenAI, s.settings.OpenAI, true
	default:
		return ProviderFallback, ProviderConfig{}, false
	}
}

// Chat sends messages to the active provider.
//
// Without a provider the offline reply is returned with a nil error.
// When the provider fails the returned Reply carries the offline text and the
// failure, together with a non-nil error.
func (s *ChatService) Chat(ctx context.Context, messages []Message, temperature float64) (*Reply, error) {
	if len(messages) == 0 {
		return nil, ErrMessagesRequired
	}

	name, cfg, ok := s.Provider()
	if !ok {
		return &Reply{Reply: FallbackReply(messages, ""), Provider: ProviderFallback}, nil
	}

	logger := gmw.GetLogger(ctx).Named("chat").With(
		zap.String("provider", name),
		zap.String("model", cfg.Model),
	)

	reply, model, err := s.complete(ctx, cfg, messages, temperature)
	if err != nil {
		logger.Error("chat provider failed", zap.Error(err))
		return &Reply{
			Reply:    FallbackReply(messages, err.Error()),
			Provider: ProviderFallback,
			Error:    err.Error(),
		}, err
	}

	logger.Debug("chat provider replied", zap.Int("reply_len", len(reply)))
	return &Reply{Reply: reply, Provider: name, Model: model}, nil
}

func (s *ChatService) complete(ctx context.Context,
	cfg ProviderConfig,
	messages []Message,
	temperature float64,
) (reply, model string, err error) {
	config := openai.DefaultConfig(cfg.Token)
	config.BaseURL = BaseURL(cfg.URL)
	config.HTTPClient = s.httpClient
	client := openai.NewClientWithConfig(config)

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	chatMessages = append(chatMessages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, msg := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       cfg.Model,
		Messages:    chatMessages,
		Temperature: float32(temperature),
		MaxTokens:   maxReplyTokens,
	})
	if err != nil {
		return "", "", upstreamError(err)
	}

	if len(resp.Choices) > 0 {
		reply = strings.TrimSpace(resp.Choices[0].Message.Content)
	}
	if reply == "" {
		return "", "", errors.New("no reply returned from provider")
	}

	model = resp.Model
	if model == "" {
		model = cfg.Model
	}

	return reply, model, nil
}

func upstreamError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return errors.Errorf("upstream error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return errors.Errorf("upstream error %d: %v", reqErr.HTTPStatusCode, reqErr.Err)
	}

	return errors.Wrap(err, "call chat provider")
}

// BaseURL converts a configured endpoint into a go-openai base url
func BaseURL(endpoint string) string {
	base := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	return strings.TrimSuffix(base, completionsSuffix)
}

// FallbackReply builds the offline mode text around the latest message
func FallbackReply(messages []Message, details string) string {
	latest := "your request"
	if n := len(messages); n > 0 && messages[n-1].Content != "" {
		latest = messages[n-1].Content
	}

	suffix := ""
	if details != "" {
		suffix = fmt.Sprintf(" (%s)", details)
	}

	return fmt.Sprintf("NovaChat (offline mode): I received “%s”. "+
		"Configure OPENAI_API_KEY or HF_ENDPOINT_URL + HF_API_TOKEN in server/.env "+
		"and restart for live replies%s.", latest, suffix)
}

// ParseMessages decodes a raw messages array, dropping entries whose role or
// content is not a string and truncating content.
func ParseMessages(raw json.RawMessage) ([]Message, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil || len(entries) == 0 {
		return nil, ErrMessagesRequired
	}

	messages := make([]Message, 0, len(entries))
	for _, entry := range entries {
		var fields struct {
			Role    any `json:"role"`
			Content any `json:"content"`
		}
		if err := json.Unmarshal(entry, &fields); err != nil {
			continue
		}

		role, roleOK := fields.Role.(string)
		content, contentOK := fields.Content.(string)
		if !roleOK || !contentOK {
			continue
		}

		messages = append(messages, Message{Role: role, Content: truncateRunes(content, maxMessageRunes)})
	}

	if len(messages) == 0 {
		return nil, ErrMessagesRequired
	}

	return messages, nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// ParseTemperature coerces the requested temperature into [0, 1.2].
// Missing, zero or non-numeric values become 0.7.
func ParseTemperature(raw any) float64 {
	var value float64
	switch v := raw.(type) {
	case float64:
		value = v
	case json.Number:
		value, _ = v.Float64()
	case string:
		value, _ = strconv.ParseFloat(strings.TrimSpace(v), 64)
	case bool:
		if v {
			value = 1
		}
	}

	if value == 0 || math.IsNaN(value) {
		value = defaultTemperature
	}

	return math.Min(math.Max(value, 0), maxTemperature)
}
