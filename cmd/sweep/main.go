// Command sweep runs the training pipeline once, outside the HTTP server,
// and writes the resulting report to stdout as JSON.
//
//	sweep -mode core
//	sweep -mode remaining
//	sweep -mode regenerate
//	sweep -mode document -document <uuid>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/api"
	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/internal/infrastructure"
	"github.com/JaimeStill/steward/internal/pipeline"
)

func main() {
	mode := flag.String("mode", "", "run mode: core, remaining, regenerate, or document")
	document := flag.String("document", "", "document id for -mode document")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := infrastructure.New(ctx, cfg)
	if err != nil {
		log.Fatal("infrastructure init failed: ", err)
	}

	logger := infra.Logger.With("cmd", "sweep", "mode", *mode)

	if err := infra.Database.Ping(ctx); err != nil {
		logger.Error("database unavailable", "error", err)
		infra.Close()
		os.Exit(1)
	}

	domain := api.NewDomain(api.NewRuntime(cfg, infra))

	if err := sweep(ctx, os.Stdout, domain.Pipeline, *mode, *document); err != nil {
		logger.Error("sweep failed", "error", err)
		infra.Close()
		os.Exit(1)
	}

	if err := infra.Close(); err != nil {
		logger.Error("close failed", "error", err)
	}
}

// sweep runs the mode and writes whatever report came back, including the
// partial report of an interrupted batch, before returning the run error.
func sweep(ctx context.Context, w io.Writer, p pipeline.Runner, mode, document string) error {
	report, runErr := run(ctx, p, mode, document)
	if report != nil {
		if err := write(w, report); err != nil {
			return errors.Join(runErr, fmt.Errorf("write report: %w", err))
		}
	}
	return runErr
}

func run(ctx context.Context, p pipeline.Runner, mode, document string) (any, error) {
	switch mode {
	case "core":
		return result(p.GenerateCore(ctx))
	case "remaining":
		return result(p.GenerateRemaining(ctx))
	case "regenerate":
		return result(p.Regenerate(ctx))
	case "document":
		id, err := uuid.Parse(document)
		if err != nil {
			return nil, fmt.Errorf("invalid -document %q: %w", document, err)
		}
		return result(p.GenerateDocument(ctx, id))
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

// result keeps a nil report pointer from becoming a non-nil interface.
func result[T any](report *T, err error) (any, error) {
	if report == nil {
		return nil, err
	}
	return report, err
}

func write(w io.Writer, report any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
