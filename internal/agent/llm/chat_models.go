package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/fitpal-core/agent/internal/agent/model"
	logx "github.com/fitpal-core/agent/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation.
type ChatModelConfig struct {
	APIKey          string
	BaseURL         string
	ParserConfig    *model.ParserModelConfig
	SelectionConfig *model.SelectionModelConfig
}

// ChatModels holds the intake parser and selection chat models.
type ChatModels struct {
	Parser             *gemini.ChatModel
	Selection          *gemini.ChatModel
	ParserModelName    string
	SelectionModelName string
}

// NewChatModels creates both chat models over a shared Gemini client.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	if config.ParserConfig == nil || config.SelectionConfig == nil {
		return nil, fmt.Errorf("model configs are nil")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	parserModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.ParserConfig.Model,
		Temperature: &config.ParserConfig.Temperature,
		MaxTokens:   &config.ParserConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating intake parser model")
		return nil, fmt.Errorf("error creating intake parser model: %w", err)
	}

	selectionModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.SelectionConfig.Model,
		Temperature: &config.SelectionConfig.Temperature,
		MaxTokens:   &config.SelectionConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating selection model")
		return nil, fmt.Errorf("error creating selection model: %w", err)
	}

	return &ChatModels{
		Parser:             parserModel,
		Selection:          selectionModel,
		ParserModelName:    config.ParserConfig.Model,
		SelectionModelName: config.SelectionConfig.Model,
	}, nil
}
