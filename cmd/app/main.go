package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "schedulesync",
	Short: "ScheduleSync scheduling assistant backend",
	Long: `ScheduleSync serves the chat scheduling assistant and the scheduling rule API.

Examples:
  # Run the HTTP server and the pending action sweeper
  schedulesync serve

  # See how a chat message is understood, without a database
  schedulesync parse "move my meeting with jane@acme.com to friday at 3pm"
`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(parseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
