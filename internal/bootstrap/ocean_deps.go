package bootstrap

import (
	"os"

	"ocean_server/adapter/out/persistence"
	"ocean_server/config"
	"ocean_server/core/agent/llm"
	"ocean_server/core/port/in"
	"ocean_server/core/port/out"
	"ocean_server/core/service/chat"
	emailsvc "ocean_server/core/service/email"
	"ocean_server/pkg/logger"

	"github.com/rs/zerolog"
)

// Dependencies holds the wired application services.
type Dependencies struct {
	Generator      out.TextGenerator
	EmailProcessor in.EmailProcessor
	ChatService    in.ChatService
	DraftStore     out.DraftStore
}

// NewDependencies wires the generation client (or its offline mock),
// the processing services, and the draft store from config.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	var generator out.TextGenerator
	if cfg.UseMockLLM() {
		logger.Warn("No LLM API key configured, using mock generator")
		generator = llm.NewMockGenerator()
	} else {
		generator = llm.NewClient(llm.ClientConfig{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.LLMModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
			MaxRetries:  cfg.LLMMaxRetries,
		})
		logger.Info("LLM client initialized (model: %s)", cfg.LLMModel)
	}

	draftStore, err := persistence.NewFileDraftStore(cfg.DraftsFile, zlog)
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		Generator:      generator,
		EmailProcessor: emailsvc.NewProcessor(generator),
		ChatService:    chat.NewService(generator),
		DraftStore:     draftStore,
	}, nil
}
