package internal

import (
	"github.com/MrSnakeDoc/extwait/internal/logger"
	"github.com/MrSnakeDoc/extwait/internal/version"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extwait",
		Short: "Wait for the extension runner before publishing a frontend build",
		Long: `Extwait is a pre-build gate for frontend deployments.
It writes the build id for the frontend bundle and polls the backend
extension runner until it reports ready for that same build version.`,
		Example: `extwait prebuild --host https://my-project.frontastic.io`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.ConfigureLoggerFromFlags()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			versionFlag, _ := cmd.Flags().GetBool("version")
			if versionFlag {
				version.Print(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().BoolP("version", "v", false, "Print version information")
	cmd.PersistentFlags().CountVarP(&logger.FlagVerboseCount, "verbose", "V", "Verbose output (repeatable)")
	cmd.PersistentFlags().BoolVarP(&logger.FlagQuiet, "quiet", "q", false, "Only print errors")
	cmd.PersistentFlags().BoolVarP(&logger.FlagSilent, "silent", "s", false, "Print nothing")
	cmd.PersistentFlags().BoolVar(&logger.FlagJSON, "json", false, "JSON log lines, for CI collectors")
	cmd.PersistentFlags().StringP("config", "c", "", "YAML or JSON settings file")

	RegisterSubCommands(cmd)

	return cmd
}

func Execute() error {
	root := NewRootCmd()
	logger.ConfigureLoggerFromFlags()

	if err := root.Execute(); err != nil {
		logger.Debug("Failed to execute root command: %v", err)
		return err
	}
	return nil
}
