package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/gourmetgo/internal/adapters/tui"
	"github.com/PabloGalante/gourmetgo/internal/app/conversation"
	"github.com/PabloGalante/gourmetgo/internal/observability"
)

var (
	chatProvider string
	chatLogFile  string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Build an order from the terminal",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatProvider, "provider", "", "model provider override (gemini, vertex, openai, mock)")
	chatCmd.Flags().StringVar(&chatLogFile, "log-file", "", "write logs to this file instead of discarding them")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(chatProvider)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if chatLogFile != "" {
		f, err := os.OpenFile(filepath.Clean(chatLogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	observability.Setup(logOut, cfg.LogFormat, cfg.LogLevel)

	ctx := cmd.Context()
	client, err := newModelClient(ctx, cfg)
	if err != nil {
		return err
	}
	sc, err := sessionConfig(cfg)
	if err != nil {
		return err
	}

	ctrl := conversation.NewController(client, sc, conversation.WithSendTimeout(cfg.SendTimeout))
	return tui.NewChatProgram(ctrl).Run(ctx)
}
