package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/PabloGalante/gourmetgo/internal/adapters/http"
	"github.com/PabloGalante/gourmetgo/internal/adapters/storage/memory"
	"github.com/PabloGalante/gourmetgo/internal/app/conversation"
	"github.com/PabloGalante/gourmetgo/internal/observability"
)

var serveProvider string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveProvider, "provider", "", "model provider override (gemini, vertex, openai, mock)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(serveProvider)
	if err != nil {
		return err
	}
	observability.Setup(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	log := observability.WithFields("provider", string(cfg.Provider))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := newModelClient(ctx, cfg)
	if err != nil {
		return err
	}
	sc, err := sessionConfig(cfg)
	if err != nil {
		return err
	}

	svc := conversation.NewService(client, sc, memory.NewSessionStore[*conversation.Controller](), cfg.SendTimeout)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpadapter.NewServer(svc, cfg.AllowedOrigin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("GourmetGo API listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
