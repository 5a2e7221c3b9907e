package bootstrap

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"fmla-backend/internal/fmla"
	"fmla-backend/internal/llm"
	"fmla-backend/internal/llm/anthropic"
	"fmla-backend/internal/pdfmeta"
	"fmla-backend/internal/shared/config"
	"fmla-backend/internal/shared/server"
	"fmla-backend/internal/shared/telemetry"
)

// App holds shared dependencies built once per process.
type App struct {
	Config      config.Config
	Router      *gin.Engine
	Pages       pdfmeta.Reader
	LLM         llm.Extractor
	Service     *fmla.Service
	FMLAHandler *fmla.Handler
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	svc, client, err := BuildService(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:      cfg,
		Pages:       svc.Pages,
		LLM:         client,
		Service:     svc,
		FMLAHandler: fmla.NewHandler(svc, cfg.MaxUploadBytes),
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:      cfg,
		FMLAHandler: app.FMLAHandler,
	})

	return app, nil
}

// BuildService assembles the extraction pipeline without any HTTP wiring.
func BuildService(cfg config.Config) (*fmla.Service, llm.Extractor, error) {
	client, err := buildExtractor(cfg)
	if err != nil {
		return nil, nil, err
	}

	schema, err := fmla.NewAdvisorySchema()
	if err != nil {
		return nil, nil, fmt.Errorf("advisory schema: %w", err)
	}

	prompt, ok := llm.PromptTemplate(llm.DefaultPromptVersion)
	if !ok {
		return nil, nil, fmt.Errorf("unknown prompt version %q", llm.DefaultPromptVersion)
	}

	svc := &fmla.Service{
		Pages:     pdfmeta.New(cfg.PDFReader),
		LLM:       client,
		Sanitizer: &fmla.Sanitizer{Schema: schema},
		Prompt:    prompt,
		Timeout:   cfg.LLMTimeout,
	}
	return svc, client, nil
}

func buildExtractor(cfg config.Config) (llm.Extractor, error) {
	if cfg.LLMProvider != "anthropic" {
		telemetry.Warn("bootstrap.llm_disabled", map[string]any{"provider": cfg.LLMProvider})
		return llm.PlaceholderClient{}, nil
	}
	if cfg.AnthropicAPIKey == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required in production")
		}
		telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{
			"provider": cfg.LLMProvider,
			"env":      cfg.Env,
		})
		return llm.PlaceholderClient{}, nil
	}
	return anthropic.NewClient(cfg.AnthropicAPIKey, cfg.LLMModel, anthropic.Options{
		MaxTokens: cfg.LLMMaxTokens,
		Timeout:   cfg.LLMTimeout,
		BaseURL:   cfg.AnthropicBaseURL,
	})
}
