package internal

import (
	"fmt"

	"github.com/MrSnakeDoc/extwait/internal/config"
	"github.com/MrSnakeDoc/extwait/internal/middleware"
	"github.com/MrSnakeDoc/extwait/internal/settings"

	"github.com/spf13/cobra"
)

func NewBuildIDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build-id",
		Short: "Print the resolved build id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := middleware.Get[string](cmd, middleware.CtxKeyBuildID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}

	settings.RegisterFlags(cmd.Flags(), config.DefaultPrebuildConfig())

	return cmd
}
