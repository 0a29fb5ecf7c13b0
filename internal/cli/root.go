package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
)

// NewRootCmd builds the k24ctl command tree writing to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "k24ctl",
		Short: "Operator tool for a k24chat workspace",
		Long: `k24ctl inspects and exports k24chat snapshots offline and
opens an interactive chat session against a running server.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringP("config", "c", "", "config file path (default is $HOME/.k24ctl.yaml)")

	root.AddCommand(newInspectCmd(), newExportCmd(), newReplCmd())
	return root
}

// Execute runs the command tree against os.Args.
func Execute() {
	if err := NewRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadDefaults reads the --config file, or ~/.k24ctl.yaml when unset.
func loadDefaults(cmd *cobra.Command) (*Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return LoadDefaultConfig()
	}
	return LoadFromFile(path)
}
