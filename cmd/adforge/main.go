package main

import (
	"adforge/internal/di"
	"adforge/internal/structures"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	flags := &structures.CliFlags{}

	rootCmd := &cobra.Command{
		Use:           "adforge",
		Short:         "Ad creative generator with a versioned campaign history",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(flags)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "Path to the yaml config file")
	rootCmd.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "Log to the console at debug level")

	rootCmd.AddCommand(serveCmd(flags), exportCmd(flags))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(flags)
		},
	}
}

func serve(flags *structures.CliFlags) error {
	_, err := di.InitApp(flags)
	return err
}

func exportCmd(flags *structures.CliFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump the stored sessions as JSON",
		Long: `Reads the persisted session collection and writes it as plain JSON.

Examples:
  adforge export                  # print to stdout
  adforge export -o sessions.json # write to a file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			persister, err := di.InitExporter(flags)
			if err != nil {
				return err
			}
			defer persister.Close()

			data, err := persister.Export(context.Background())
			if err != nil {
				return err
			}
			if data == nil {
				data = []byte("[]")
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			return os.WriteFile(output, data, 0644)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
