package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/pkoukk/tiktoken-go"

	"github.com/jinford/med-rag/internal/core/chat"
)

const (
	// DefaultCompletionModel はデフォルトで使用するOpenAIモデル
	DefaultCompletionModel = "gpt-4o-mini"
	// DefaultCompletionTimeout はAPI呼び出しのデフォルトタイムアウト
	DefaultCompletionTimeout = 60 * time.Second
	// DefaultMaxPromptTokens はプロンプトに許容する最大トークン数。
	// 超過分はコンテキスト側から切り詰める。
	DefaultMaxPromptTokens = 100000
	// DefaultCompletionTemperature は回答生成時のデフォルト温度
	DefaultCompletionTemperature = 0.7
)

// ErrCompletionAPIKeyNotSet はAPIキーが設定されていない場合のエラー
var ErrCompletionAPIKeyNotSet = errors.New("OpenAI API key not set")

// Completer は OpenAI Chat Completions API による回答生成クライアント
type Completer struct {
	client          openai.Client
	model           string
	timeout         time.Duration
	temperature     float64
	encoder         *tiktoken.Tiktoken
	maxPromptTokens int
	logger          *slog.Logger
}

type completerOptions struct {
	model           string
	timeout         time.Duration
	temperature     float64
	maxPromptTokens int
	logger          *slog.Logger
}

// CompleterOption は Completer のオプション設定
type CompleterOption func(*completerOptions)

// WithCompletionModel はモデル名を上書きする
func WithCompletionModel(model string) CompleterOption {
	return func(o *completerOptions) {
		o.model = model
	}
}

// WithCompletionTimeout はタイムアウトを上書きする
func WithCompletionTimeout(timeout time.Duration) CompleterOption {
	return func(o *completerOptions) {
		o.timeout = timeout
	}
}

// WithCompletionTemperature は回答生成時の温度を上書きする
func WithCompletionTemperature(temperature float64) CompleterOption {
	return func(o *completerOptions) {
		o.temperature = temperature
	}
}

// WithMaxPromptTokens はプロンプトの最大トークン数を上書きする
func WithMaxPromptTokens(n int) CompleterOption {
	return func(o *completerOptions) {
		o.maxPromptTokens = n
	}
}

// WithCompleterLogger は Completer にロガーを設定する
func WithCompleterLogger(logger *slog.Logger) CompleterOption {
	return func(o *completerOptions) {
		o.logger = logger
	}
}

// NewCompleter は新しい Completer を作成する
func NewCompleter(apiKey string, opts ...CompleterOption) (*Completer, error) {
	if apiKey == "" {
		return nil, ErrCompletionAPIKeyNotSet
	}

	options := completerOptions{
		model:           DefaultCompletionModel,
		timeout:         DefaultCompletionTimeout,
		temperature:     DefaultCompletionTemperature,
		maxPromptTokens: DefaultMaxPromptTokens,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	// cl100k_baseエンコーダでプロンプトのトークン数を見積もる
	encoder, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoder: %w", err)
	}

	return &Completer{
		client:          openai.NewClient(option.WithAPIKey(apiKey)),
		model:           options.model,
		timeout:         options.timeout,
		temperature:     options.temperature,
		encoder:         encoder,
		maxPromptTokens: options.maxPromptTokens,
		logger:          options.logger,
	}, nil
}

// GenerateCompletion はプロンプトから回答テキストを生成する
func (c *Completer) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt = c.trimToTokenLimit(prompt)

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	c.logger.Debug("completion generated",
		"model", completion.Model,
		"tokensUsed", completion.Usage.TotalTokens,
	)

	return completion.Choices[0].Message.Content, nil
}

// ModelName はモデル名を返す
func (c *Completer) ModelName() string {
	return c.model
}

// trimToTokenLimit はプロンプトを最大トークン数に収まるよう末尾から切り詰める
func (c *Completer) trimToTokenLimit(prompt string) string {
	tokens := c.encoder.Encode(prompt, nil, nil)
	if len(tokens) <= c.maxPromptTokens {
		return prompt
	}

	c.logger.Warn("prompt exceeds token limit, trimming",
		"tokens", len(tokens),
		"limit", c.maxPromptTokens,
	)
	return c.encoder.Decode(tokens[:c.maxPromptTokens])
}

// インターフェース実装の確認
var _ chat.Completer = (*Completer)(nil)
