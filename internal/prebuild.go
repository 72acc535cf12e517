package internal

import (
	"errors"

	"github.com/MrSnakeDoc/extwait/internal/config"
	"github.com/MrSnakeDoc/extwait/internal/errs"
	"github.com/MrSnakeDoc/extwait/internal/middleware"
	"github.com/MrSnakeDoc/extwait/internal/prebuild"
	"github.com/MrSnakeDoc/extwait/internal/readiness"
	"github.com/MrSnakeDoc/extwait/internal/settings"

	"github.com/spf13/cobra"
)

// newPrebuildManager is swapped in tests.
var newPrebuildManager = func(s *settings.Settings) *prebuild.Manager {
	return prebuild.New(s, nil)
}

func NewPrebuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prebuild",
		Short: "Write the build id and wait for the extension runner",
		Long: `Run before the frontend build is published.
This command will:
- Resolve the build id (NEXT_PUBLIC_EXT_BUILD_ID, else COMMIT_REF shortened to 7 chars)
- Write NEXT_PUBLIC_EXT_BUILD_ID=<id> to .env.production.local
- Poll <host>/status/extensionrunner until it is up for that build id

Set NETLIFY_PLUGIN_COMMERCETOOLS_FRONTEND_WAIT_DISABLE=1 to skip the wait.`,
		Example: `  COMMIT_REF=56664e5d NEXT_PUBLIC_FRONTASTIC_HOST=https://demo.frontastic.io extwait prebuild
  extwait prebuild --build-id foobar --max-tries 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := middleware.Get[*settings.Settings](cmd, middleware.CtxKeySettings)
			if err != nil {
				return err
			}
			id, err := middleware.Get[string](cmd, middleware.CtxKeyBuildID)
			if err != nil {
				return err
			}

			m := newPrebuildManager(s)
			err = m.Execute(cmd.Context(), id)

			var exhausted *readiness.ExhaustedError
			switch {
			case err == nil:
				return nil
			case errors.As(err, &exhausted):
				return middleware.LoggedError(err, errs.BackendNotUp, id, exhausted.Attempts, exhausted.Last.Detail())
			case errors.Is(err, settings.ErrMissingHost):
				return middleware.LoggedError(err, errs.MissingHost, cmd.Name(), s.StatusPath)
			default:
				return err
			}
		},
	}

	settings.RegisterFlags(cmd.Flags(), config.DefaultPrebuildConfig())

	return cmd
}
