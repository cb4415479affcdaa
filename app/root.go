// Package app implements the main application commands.
package app

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vigil-vms/vigil/internal/config"
	"github.com/vigil-vms/vigil/internal/logger"
)

var (
	configPath string // directory holding main.toml
	envFile    string // optional dotenv file loaded before the config

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "vigil",
	Short: "vigil is the backend of a video surveillance system",
	Long: `vigil manages users, roles, locations, cameras, recorded videos and
detection events through a JSON REST API secured with bearer tokens.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "directory of main.toml")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with VIGIL_* overrides, ignored if missing")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// readConfig applies the dotenv file, if any, and reads the configuration.
func readConfig() (config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config.Config{}, err //nolint:wrapcheck
		}
	}

	return config.ReadConfig(configPath) //nolint:wrapcheck
}

// loadConfig reads the configuration and initializes logging.
func loadConfig() error {
	var err error
	if cfg, err = readConfig(); err != nil {
		return err
	}

	if err = logger.Init(cfg.Log); err != nil {
		return err //nolint:wrapcheck
	}

	log.Debug().Str("config", configPath).Msg("configuration loaded")

	return nil
}
