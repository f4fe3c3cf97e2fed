package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/cardmap/cmd/cardmap/cmd/build"
	"github.com/agentstation/cardmap/cmd/cardmap/cmd/diff"
	"github.com/agentstation/cardmap/cmd/cardmap/cmd/export"
	"github.com/agentstation/cardmap/cmd/cardmap/cmd/list"
	"github.com/agentstation/cardmap/cmd/cardmap/cmd/verify"
	"github.com/agentstation/cardmap/cmd/cardmap/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(verify.NewCommand(a))
	rootCmd.AddCommand(diff.NewCommand(a))
	rootCmd.AddCommand(build.NewCommand(a))
	rootCmd.AddCommand(export.NewCommand(a))
	rootCmd.AddCommand(list.NewCommand(a))
	rootCmd.AddCommand(version.NewCommand(a))
}
