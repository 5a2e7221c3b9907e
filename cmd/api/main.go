package main

import (
	"log"

	"fmla-backend/internal/bootstrap"
	"fmla-backend/internal/shared/config"
	"fmla-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting FMLA API server on %s (llm=%s model=%s pdf_reader=%s)", addr, cfg.LLMProvider, cfg.LLMModel, cfg.PDFReader)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
