package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/fitpal-core/agent/internal/agent/graph"
	"github.com/fitpal-core/agent/internal/agent/llm"
	"github.com/fitpal-core/agent/internal/agent/model"
	"github.com/fitpal-core/agent/internal/agent/repo"
	"github.com/fitpal-core/agent/internal/core"
	logx "github.com/fitpal-core/agent/pkg/logger"
	pkgredis "github.com/fitpal-core/agent/pkg/redis"
)

// AppConfig defines all configurable parameters for the agent, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Core
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Parser    model.ParserModelConfig
	Selection model.SelectionModelConfig
	Agent     model.AgentConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	checkpointTTL, err := time.ParseDuration(envCfg.Agent.CheckpointTTL)
	if err != nil {
		log.Fatalf("Invalid AGENT_CHECKPOINT_TTL '%s': %v", envCfg.Agent.CheckpointTTL, err)
	}

	models, err := llm.NewChatModels(ctx, llm.ChatModelConfig{
		APIKey:          envCfg.APIKey,
		BaseURL:         envCfg.BaseURL,
		ParserConfig:    &envCfg.Parser,
		SelectionConfig: &envCfg.Selection,
	})
	if err != nil {
		log.Fatalf("Failed to create chat models: %v", err)
	}

	workflow, err := graph.BuildWorkflow(&graph.Config{
		Parser:          llm.NewIntakeParser(models.Parser),
		Selector:        llm.NewFoodSelector(models.Selection),
		FoodDB:          repo.NewFoodStore(envCfg.Agent.MaxSearchResults),
		Logs:            repo.NewRedisLogStore(rdb, 0),
		Checkpoints:     repo.NewRedisCheckpointStore(rdb, checkpointTTL),
		MaxSteps:        envCfg.Agent.MaxSteps,
		HistoryMaxTurns: envCfg.Agent.HistoryMaxTurns,
	})
	if err != nil {
		log.Fatalf("Failed to build workflow: %v", err)
	}

	turns := []struct {
		description string
		message     string
	}{
		{
			description: "Single item with explicit weight",
			message:     "I had 200g of chicken breast for lunch",
		},
		{
			description: "Multiple items in one message",
			message:     "I just ate pasta with cheese",
		},
		{
			description: "Off-menu item triggering estimation",
			message:     "I ate 150g of durian sticky rice",
		},
		{
			description: "Confirming the estimation",
			message:     "yes, log it",
		},
		{
			description: "Daily stats query",
			message:     "What did I eat today?",
		},
	}

	threadID := "demo-thread-001"

	for i, turn := range turns {
		fmt.Printf("\nTurn %d: %s\n", i+1, turn.description)
		fmt.Printf("User: %s\n", turn.message)

		result, err := workflow.Invoke(ctx, graph.TurnInput{
			ThreadID: threadID,
			Message:  turn.message,
		})
		if err != nil {
			log.Fatalf("Turn %d failed: %v", i+1, err)
		}

		fmt.Printf("FitPal: %s\n", result.Response)
		if result.AwaitingConfirmation {
			fmt.Println("(suspended, awaiting confirmation)")
		}
	}

	fmt.Println("\nDemo conversation completed.")
}
