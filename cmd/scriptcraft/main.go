// File path: cmd/scriptcraft/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/b08x/script-craft-v2/internal/api"
	"github.com/b08x/script-craft-v2/internal/common"
	"github.com/b08x/script-craft-v2/internal/llm"
	"github.com/b08x/script-craft-v2/internal/script"
	"github.com/b08x/script-craft-v2/internal/session"
	"github.com/b08x/script-craft-v2/internal/workflow"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Warn("scriptcraft: .env file not loaded", "error", err)
	} else {
		logger.Info("scriptcraft: environment loaded from .env")
	}

	policyDefault := "drop"
	if env := strings.TrimSpace(os.Getenv("SPEAKER_POLICY")); env != "" {
		policyDefault = env
	}
	addr := flag.String("addr", ":8084", "listen address")
	policyFlag := flag.String("speaker-policy", policyDefault, "handling of script lines with unknown speakers: drop, strict or repair")
	flag.Parse()

	policy, err := script.ParsePolicy(*policyFlag)
	if err != nil {
		logger.Error("scriptcraft: invalid speaker policy", "value", *policyFlag, "error", err)
		fmt.Println("speaker policy error:", err)
		os.Exit(1)
	}

	provider := llm.NewProvider(ctx)
	logger.Info("scriptcraft: provider ready", "provider", provider.Name())

	store := session.NewStore()
	manager := workflow.NewManager(store, provider, workflow.WithSpeakerPolicy(policy))
	server := api.NewServer(store, manager)

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("scriptcraft: listening", "addr", *addr)
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("scriptcraft: server failed", "error", err)
			fmt.Println("server error:", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("scriptcraft: shutting down", "signal", sig.String())
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("scriptcraft: shutdown failed", "error", err)
		}
	}
}
