package middleware

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/MrSnakeDoc/extwait/internal/config"
	"github.com/MrSnakeDoc/extwait/internal/errs"
	"github.com/MrSnakeDoc/extwait/internal/logger"
	"github.com/MrSnakeDoc/extwait/internal/settings"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

func TestUseMiddlewareChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) MiddlewareFunc {
		return func(cmd *cobra.Command, args []string, next func(*cobra.Command, []string) error) error {
			order = append(order, name)
			return next(cmd, args)
		}
	}

	factory := UseMiddlewareChain(mw("a"), mw("b"))(func() *cobra.Command {
		return &cobra.Command{
			Use: "x",
			PreRunE: func(*cobra.Command, []string) error {
				order = append(order, "pre")
				return nil
			},
			RunE: func(*cobra.Command, []string) error { return nil },
		}
	})

	cmd := factory()
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, []string{"a", "b", "pre"}, order)
}

func TestUseMiddlewareChain_StopsOnError(t *testing.T) {
	ran := false
	boom := errors.New("boom")
	stop := func(*cobra.Command, []string, func(*cobra.Command, []string) error) error { return boom }

	cmd := UseMiddlewareChain(stop)(func() *cobra.Command {
		return &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error {
			ran = true
			return nil
		}}
	})()
	cmd.SetArgs([]string{})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	assert.ErrorIs(t, cmd.Execute(), boom)
	assert.False(t, ran)
}

func TestLoadSettingsAndResolveBuildID(t *testing.T) {
	for _, env := range settings.EnvVars() {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
	t.Setenv("COMMIT_REF", "56664e5d0c1f")

	var gotID string
	var gotSettings *settings.Settings
	cmd := UseMiddlewareChain(LoadSettings(config.DefaultPrebuildConfig()), ResolveBuildID)(func() *cobra.Command {
		c := &cobra.Command{Use: "x", RunE: func(c *cobra.Command, _ []string) error {
			var err error
			if gotSettings, err = Get[*settings.Settings](c, CtxKeySettings); err != nil {
				return err
			}
			gotID, err = Get[string](c, CtxKeyBuildID)
			return err
		}}
		settings.RegisterFlags(c.Flags(), config.DefaultPrebuildConfig())
		return c
	})()
	cmd.SetArgs([]string{"--max-tries", "5"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "56664e5", gotID)
	assert.Equal(t, 5, gotSettings.MaxTries)
}

func TestGet_WrongType(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.WithValue(context.Background(), CtxKeyBuildID, 42))

	_, err := Get[string](cmd, CtxKeyBuildID)
	assert.Error(t, err)

	_, err = Get[string](cmd, CtxKeySettings)
	assert.Error(t, err)
}

func TestLoggedError(t *testing.T) {
	cause := errors.New("cause")
	err := LoggedError(cause, errs.InvalidConfig, cause)
	assert.ErrorIs(t, err, ErrLogged)
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, ErrLogged, LoggedError(nil, errs.MissingBuildID, "prebuild"))
}
