package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the taskfewer application
var rootCmd = &cobra.Command{
	Use:   "taskfewer",
	Short: "A minimal task tracker serving REST and MCP clients",
	Long: `taskfewer is a minimal task-tracking service backed by a single JSON file.

It exposes the same five operations (create, list, get, complete, delete)
over two transports:
  - A REST API for synchronous HTTP clients
  - An MCP (Model Context Protocol) tool surface for AI assistants

By default both transports run concurrently against the same store file.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "taskfewer version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
