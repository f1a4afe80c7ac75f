package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mwellsmd/praxis/internal/config"
	"github.com/mwellsmd/praxis/internal/logger"
)

var (
	cfgFile   string
	appConfig config.Config
	log       *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "praxis",
	Short: "Content engine and site builder for the practice website",
	Long: `Praxis reads the markdown content store (blog posts, patient guides,
office locations), answers listing and relevance queries over it, and renders
the static site. In serve mode it also exposes the content queries and the
visitor interest tracker as a JSON API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(cmd); err != nil {
			return err
		}
		var err error
		log, err = logger.New(appConfig.Development)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

func initializeConfig(_ *cobra.Command) error {
	v := viper.New()

	v.SetDefault("siteTitle", "Praxis")
	v.SetDefault("baseURL", "")
	v.SetDefault("contentDir", "content")
	v.SetDefault("layoutsDir", "layouts")
	v.SetDefault("staticDir", "static")
	v.SetDefault("outputDir", "public")
	v.SetDefault("dataDir", ".praxis/data")
	v.SetDefault("personalization", "")
	v.SetDefault("port", 1313)
	v.SetDefault("development", false)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PRAXIS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFile != "" {
				return fmt.Errorf("config file %s not found: %w", cfgFile, err)
			}
			// No config file is fine, defaults and env cover everything.
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return nil
}
