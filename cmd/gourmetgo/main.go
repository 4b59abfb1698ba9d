// GourmetGo - a chat assistant that takes food orders.
//
//	gourmetgo serve    Start the HTTP API for the web front-end
//	gourmetgo chat     Order from the terminal
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "gourmetgo",
	Short: "GourmetGo AI ordering assistant",
	Long: `GourmetGo lets you build a food order by chatting with a hosted model.
The conversation ends on an order summary once the assistant finalizes it.

  gourmetgo serve     Start the HTTP API
  gourmetgo chat      Chat from the terminal`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
