package model

// ================ Config ================

type AgentConfig struct {
	MaxSteps         int    `envconfig:"AGENT_MAX_STEPS" default:"40"`
	HistoryMaxTurns  int    `envconfig:"AGENT_HISTORY_MAX_TURNS" default:"10"`
	MaxSearchResults int    `envconfig:"AGENT_MAX_SEARCH_RESULTS" default:"5"`
	CheckpointTTL    string `envconfig:"AGENT_CHECKPOINT_TTL" default:"24h"`
}

type ParserModelConfig struct {
	Model       string  `envconfig:"PARSER_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"PARSER_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"PARSER_TEMPERATURE" default:"0.0"`
}

type SelectionModelConfig struct {
	Model       string  `envconfig:"SELECTION_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"SELECTION_MAX_TOKENS" default:"1000"`
	Temperature float32 `envconfig:"SELECTION_TEMPERATURE" default:"0.0"`
}
