package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/ai"
	"github.com/spigell/cvmatch/internal/ai/gemini"
	"github.com/spigell/cvmatch/internal/backend"
	"github.com/spigell/cvmatch/internal/candidate"
	"github.com/spigell/cvmatch/internal/logger"
	"github.com/spigell/cvmatch/internal/metrics"
	"github.com/spigell/cvmatch/internal/secrets"
	"github.com/spigell/cvmatch/internal/upload"
)

// setup builds the logger and the validated config shared by backend commands.
func setup() (*Config, *zap.Logger) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config.MetricsAddr != "" {
		err := metrics.Serve(config.MetricsAddr, func(err error) {
			logger.Warn("metrics server stopped", zap.Error(err))
		})
		if err != nil {
			logger.Fatal("registering metrics", zap.Error(err))
		}
		logger.Info("serving metrics", zap.String("addr", config.MetricsAddr))
	}

	return config, logger
}

func newBackend(config *Config, logger *zap.Logger) *backend.Client {
	token, err := secrets.LoadOptional(secrets.Source{Name: "api token", File: config.APITokenFile})
	if err != nil {
		logger.Fatal(
			"loading api token",
			zap.Error(err),
			zap.String("hint", "set CVMATCH_API_TOKEN_FILE environment variable or the 'api-token-file' key in the configuration file"),
		)
	}

	client := backend.New(logger, config.APIBase, token)
	client.SetUserAgent(config.UserAgent)
	client.SetTimeout(config.Timeout)
	client.SetRateLimit(config.MaxRequestsPerSecond)

	return client
}

// newPitcher returns nil when the assistant is disabled.
func newPitcher(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Pitcher, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	return gemini.NewPitcher(generator, logger, cfg.Gemini.MaxLogLength), nil
}

func newOrchestrator(config *Config, client *backend.Client, logger *zap.Logger, opts ...upload.Option) *upload.Orchestrator {
	opts = append([]upload.Option{
		upload.WithProgressInterval(config.Upload.ProgressInterval),
		upload.WithProgressObserver(func(progress int) {
			logger.Info("uploading", zap.Int("progress", progress))
		}),
	}, opts...)

	return upload.New(client, logger, opts...)
}

// uploadFile submits the CV at path. The declared type comes from the extension.
func uploadFile(ctx context.Context, o *upload.Orchestrator, path string) (*candidate.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cv: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat cv: %w", err)
	}

	return o.Submit(ctx, upload.File{
		Name:        info.Name(),
		ContentType: upload.ContentTypeFor(path),
		Size:        info.Size(),
		Reader:      f,
	})
}
