package middleware

import (
	"context"
	"errors"

	"github.com/MrSnakeDoc/extwait/internal/buildid"
	"github.com/MrSnakeDoc/extwait/internal/config"
	"github.com/MrSnakeDoc/extwait/internal/errs"
	"github.com/MrSnakeDoc/extwait/internal/settings"
	"github.com/spf13/cobra"
)

// LoadSettings layers flags, environment, the optional --config file and
// defaults, and stores the result under CtxKeySettings.
func LoadSettings(defaults config.Config) MiddlewareFunc {
	return func(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
		loader := settings.NewLoader(defaults)
		if err := loader.BindFlags(cmd.Flags()); err != nil {
			return err
		}

		if path, _ := cmd.Flags().GetString("config"); path != "" {
			if err := loader.ReadFile(path); err != nil {
				return LoggedError(err, errs.InvalidConfig, err)
			}
		}

		s, err := loader.Load()
		if err != nil {
			return LoggedError(err, errs.InvalidConfig, err)
		}

		cmd.SetContext(context.WithValue(ctxOf(cmd), CtxKeySettings, s))
		return next(cmd, args)
	}
}

// ResolveBuildID requires LoadSettings earlier in the chain.
func ResolveBuildID(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	s, err := Get[*settings.Settings](cmd, CtxKeySettings)
	if err != nil {
		return err
	}

	id, err := buildid.Resolve(s.CommitRef, s.BuildID)
	if errors.Is(err, buildid.ErrNoCommitRef) {
		return LoggedError(err, errs.MissingBuildID, cmd.Name())
	}
	if err != nil {
		return err
	}

	cmd.SetContext(context.WithValue(ctxOf(cmd), CtxKeyBuildID, id))
	return next(cmd, args)
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
