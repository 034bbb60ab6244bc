// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"fmt"

	"github.com/dalzilio/aterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func init() {
	rootCmd.AddCommand(newConfigCmd())
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `The config command prints, in YAML, the configuration obtained from the
defaults, the file given with --config and the ATERM_* environment variables.

Example:
  atermstat config --config aterm.yaml
  ATERM_TABLE_SIZE=1024 atermstat config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := aterm.LoadConfig(configPath)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(config)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
