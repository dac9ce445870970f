package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/cvmatch/internal/backend"
	"github.com/spigell/cvmatch/internal/upload"
)

const (
	app = "cvmatch"
)

type Config struct {
	APIBase              string        `mapstructure:"api-base" validate:"required,url"`
	APITokenFile         string        `mapstructure:"api-token-file"`
	UserAgent            string        `mapstructure:"user-agent"`
	Timeout              time.Duration `mapstructure:"timeout" validate:"gte=0"`
	MaxRequestsPerSecond float64       `mapstructure:"max-requests-per-second" validate:"gte=0"`
	MetricsAddr          string        `mapstructure:"metrics-addr"`
	Search               *SearchConfig `mapstructure:"search" validate:"required"`
	Upload               *UploadConfig `mapstructure:"upload" validate:"required"`
	AI                   *AIConfig     `mapstructure:"ai"`
}

type SearchConfig struct {
	TopK       int           `mapstructure:"top-k" validate:"min=1,max=100"`
	SortBy     string        `mapstructure:"sort-by" validate:"oneof=score date salary"`
	SessionTTL time.Duration `mapstructure:"session-ttl" validate:"gte=0"`
}

type UploadConfig struct {
	ProgressInterval time.Duration `mapstructure:"progress-interval" validate:"gte=0"`
}

type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cvmatch uploads a CV to the matching service and browses the jobs ranked for it",
	}
)

// Execute executes the root command. Interrupt cancels requests in flight.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	for key, env := range map[string]string{
		"api-base":               "CVMATCH_API_BASE",
		"api-token-file":         "CVMATCH_API_TOKEN_FILE",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cvmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Only commands talking to the backend resolve the api base. Others leave it empty.
	if !backendCommandCalled() {
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional, but a broken one is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func backendCommandCalled() bool {
	for _, c := range []*cobra.Command{uploadCmd, analyzeCmd, searchCmd, runCmd} {
		if c.CalledAs() != "" {
			return true
		}
	}
	return false
}

func setDefaults() {
	viper.SetDefault("api-base", backend.DefaultAPIURL)
	viper.SetDefault("timeout", 30*time.Second)
	viper.SetDefault("search.top-k", backend.DefaultTopK)
	viper.SetDefault("search.sort-by", "score")
	viper.SetDefault("upload.progress-interval", upload.DefaultProgressInterval)
	viper.SetDefault("ai.enabled", false)
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config == nil {
		return errors.New("config is empty")
	}

	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if config.AI != nil && config.AI.Enabled && config.AI.Gemini == nil {
		return errors.New("invalid config: ai.gemini section is required when ai is enabled")
	}

	return nil
}
