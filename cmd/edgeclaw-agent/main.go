// Command edgeclaw-agent runs and inspects an EdgeClaw Core edge agent:
// identity generation, policy introspection, and the long-running serve
// loop that connects to a desktop counterpart over the sync layer.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "edgeclaw-agent",
	Short: "EdgeClaw Core edge agent CLI",
	Long: `edgeclaw-agent manages a zero-trust edge agent's identity, its
policy catalogue, and the long-running process that keeps it connected to
its desktop counterpart over ECNP.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to agent config YAML (defaults to config/<environment>.yaml)")

	rootCmd.AddCommand(identityCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(serveCmd)
}
