package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var envFileFlag string

	ctx := newCommandContext(&configFlag, &envFileFlag)

	rootCmd := &cobra.Command{
		Use:           "creditsync",
		Short:         "Fill missing song credits in the traffic system from a streaming catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			if err := ctx.loadEnvFile(); err != nil {
				return err
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", ".env", "Environment file loaded before the configuration")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newResolveCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
