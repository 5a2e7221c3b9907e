package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"fmla-backend/internal/bootstrap"
	"fmla-backend/internal/fmla"
	"fmla-backend/internal/llm"
	"fmla-backend/internal/pdfmeta"
	"fmla-backend/internal/shared/config"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, config.Load()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, cfg config.Config) error {
	fs := pflag.NewFlagSet("extracttest", pflag.ContinueOnError)
	pdfPath := fs.StringP("pdf", "f", "", "Path to the FMLA PDF")
	outPath := fs.StringP("out", "o", "", "Path to write the JSON envelope (optional)")
	replyPath := fs.String("reply", "", "Replay a saved model reply instead of calling the provider")
	fs.StringVar(&cfg.LLMModel, "model", cfg.LLMModel, "LLM model")
	fs.StringVar(&cfg.PDFReader, "pdf-reader", cfg.PDFReader, "Page counter: ledongthuc or pdfcpu")
	fs.DurationVar(&cfg.LLMTimeout, "timeout", cfg.LLMTimeout, "Provider call timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*pdfPath) == "" {
		return errors.New("pdf path is required")
	}
	if !strings.EqualFold(filepath.Ext(*pdfPath), ".pdf") {
		return fmt.Errorf("unsupported file type: %s", filepath.Ext(*pdfPath))
	}

	data, err := os.ReadFile(*pdfPath)
	if err != nil {
		return fmt.Errorf("read pdf: %w", err)
	}

	svc, _, err := bootstrap.BuildService(cfg)
	if err != nil {
		return err
	}
	if *replyPath != "" {
		reply, err := os.ReadFile(*replyPath)
		if err != nil {
			return fmt.Errorf("read reply: %w", err)
		}
		svc.LLM = replayExtractor(reply)
	}

	res, err := svc.Process(ctx, fmla.Upload{
		FileName:  filepath.Base(*pdfPath),
		Size:      int64(len(data)),
		MediaType: pdfmeta.MimePDF,
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	pretty, err := json.MarshalIndent(fmla.SuccessEnvelope{
		Success:  true,
		Data:     res.Data,
		Metadata: res.Metadata,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("format json: %w", err)
	}
	pretty = append(pretty, '\n')

	if *outPath != "" {
		if err := os.WriteFile(*outPath, pretty, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	_, err = io.Copy(stdout, bytes.NewReader(pretty))
	return err
}

// replayExtractor answers every call with a previously captured reply.
type replayExtractor []byte

func (r replayExtractor) Extract(context.Context, llm.Document, string) (string, error) {
	return string(r), nil
}
