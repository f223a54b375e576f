package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "KGSEARCH"

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "kgsearch-indexer",
		Short: "Indexes the Knowledge Graph into the search engine",
		Long: `kgsearch-indexer translates the instances of the Knowledge Graph into search
documents and writes them to the public and curated indices.

Settings are read from KGSEARCH_* environment variables. An optional YAML file
fills the variables which are not set, nested keys joined by underscores
(kg.endpoint becomes KGSEARCH_KG_ENDPOINT).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig merges the config file and the flags into the environment
// config.LoadConfig reads. Variables already set win.
func initConfig() error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}

	for _, key := range viper.AllKeys() {
		name := envName(key)
		if _, ok := os.LookupEnv(name); ok {
			continue
		}
		value := envValue(key)
		if value == "" {
			continue
		}
		if err := os.Setenv(name, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", name, err)
		}
	}
	return nil
}

func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func envValue(key string) string {
	if _, ok := viper.Get(key).([]interface{}); ok {
		return strings.Join(viper.GetStringSlice(key), ",")
	}
	return viper.GetString(key)
}
