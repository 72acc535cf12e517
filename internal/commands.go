package internal

import (
	"github.com/MrSnakeDoc/extwait/internal/config"
	"github.com/MrSnakeDoc/extwait/internal/middleware"
	"github.com/spf13/cobra"
)

var defaultCommands = []middleware.CommandFactory{
	middleware.UseMiddlewareChain(
		middleware.LoadSettings(config.DefaultPrebuildConfig()),
		middleware.ResolveBuildID,
	)(NewPrebuildCmd),
	middleware.UseMiddlewareChain(
		middleware.LoadSettings(config.DefaultProbeConfig()),
		middleware.ResolveBuildID,
	)(NewProbeCmd),
	middleware.UseMiddlewareChain(
		middleware.LoadSettings(config.DefaultPrebuildConfig()),
		middleware.ResolveBuildID,
	)(NewBuildIDCmd),
}

func RegisterSubCommands(cmd *cobra.Command) {
	for _, factory := range defaultCommands {
		cmd.AddCommand(factory())
	}
}
