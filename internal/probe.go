package internal

import (
	"errors"

	"github.com/MrSnakeDoc/extwait/internal/check"
	"github.com/MrSnakeDoc/extwait/internal/config"
	"github.com/MrSnakeDoc/extwait/internal/errs"
	"github.com/MrSnakeDoc/extwait/internal/middleware"
	"github.com/MrSnakeDoc/extwait/internal/settings"

	"github.com/spf13/cobra"
)

func NewProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check the extension runner once",
		Long: `Send a single status request for the resolved build id and report the answer.
Exits non-zero unless the runner is up for that build.`,
		Example: `  extwait probe --host https://demo.frontastic.io --build-id 56664e5`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := middleware.Get[*settings.Settings](cmd, middleware.CtxKeySettings)
			if err != nil {
				return err
			}
			id, err := middleware.Get[string](cmd, middleware.CtxKeyBuildID)
			if err != nil {
				return err
			}

			_, err = check.New(s, nil).Execute(cmd.Context(), id)
			if errors.Is(err, settings.ErrMissingHost) {
				return middleware.LoggedError(err, errs.MissingHost, cmd.Name(), s.StatusPath)
			}
			return err
		},
	}

	settings.RegisterFlags(cmd.Flags(), config.DefaultProbeConfig())

	return cmd
}
