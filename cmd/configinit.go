package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config.yaml with the current effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		const path = "config.yaml"

		if !configInitForce {
			if _, err := os.Stat(path); err == nil {
				return eris.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}

		out := *cfg
		out.Anthropic.Key = "" // never write secrets to disk

		data, err := yaml.Marshal(&out)
		if err != nil {
			return eris.Wrap(err, "config init: marshal")
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return eris.Wrap(err, "config init: write")
		}

		zap.L().Info("config written", zap.String("path", path))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config.yaml")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
