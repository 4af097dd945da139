package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/tessa/internal/ai"
	"github.com/spigell/tessa/internal/config"
	"github.com/spigell/tessa/internal/document"
	"github.com/spigell/tessa/internal/logger"
	"github.com/spigell/tessa/internal/screening"
	"github.com/spigell/tessa/internal/secrets"
)

const (
	app = "tessa"
)

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "tessa screens resumes against job descriptions with a language model",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := config.Setup(viper.GetViper()); err != nil {
		log.Fatalf("setting up configuration: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is tessa.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Defaults and environment are enough to run, so only an explicitly
	// requested or broken config file is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

// workspace is what every command starts with: a logger, the validated
// configuration and a loaded document cache.
type workspace struct {
	config *config.Config
	logger *zap.Logger
	cache  *document.Cache
}

func prepare(ctx context.Context) *workspace {
	logger, err := newLogger()
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the tessa", zap.String("version", version))
	logger.Debug("starting with config",
		zap.String("source", cfg.Source.Type),
		zap.String("provider", cfg.AI.Provider),
		zap.String("model", cfg.AI.Model),
		zap.Int("concurrency", cfg.AI.Concurrency),
	)

	jds, resumes, err := newSources(cfg)
	if err != nil {
		logger.Fatal("creating document sources", zap.Error(err))
	}

	cache := document.NewCache(jds, resumes, logger)
	if err := cache.Load(ctx); err != nil {
		logger.Fatal("loading documents", zap.Error(err))
	}

	return &workspace{config: cfg, logger: logger, cache: cache}
}

func newLogger() (*zap.Logger, error) {
	return logger.New(logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
		File:  viper.GetString("log.file"),
	})
}

func newSources(cfg *config.Config) (jds, resumes document.Source, err error) {
	switch cfg.Source.Type {
	case config.SourceMinIO:
		m := cfg.Source.MinIO

		secretKey, err := secrets.LoadOptional(secrets.Source{
			Name:  "minio secret key",
			Value: m.SecretKey,
			File:  m.SecretKeyFile,
		})
		if err != nil {
			return nil, nil, err
		}

		client, err := document.NewMinIOClient(document.MinIOOptions{
			Endpoint:  m.Endpoint,
			Bucket:    m.Bucket,
			AccessKey: m.AccessKey,
			SecretKey: secretKey,
			UseSSL:    m.UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}

		return document.NewMinIOSource(client, m.Bucket, m.JobDescriptionsPrefix),
			document.NewMinIOSource(client, m.Bucket, m.ResumesPrefix), nil
	case config.SourceFolder:
		return document.NewFolderSource(cfg.Folders.JobDescriptions),
			document.NewFolderSource(cfg.Folders.Resumes), nil
	default:
		return nil, nil, fmt.Errorf("unsupported source type: %s", cfg.Source.Type)
	}
}

func (w *workspace) newClient(ctx context.Context) *ai.Client {
	client, err := ai.New(ctx, w.config.AI, w.logger)
	if err != nil {
		w.logger.Fatal("creating a language model client",
			zap.Error(err),
			zap.String("provider", w.config.AI.Provider),
		)
	}
	return client
}

func (w *workspace) newScreener(ctx context.Context, concurrency int) *screening.Screener {
	tmpl := w.config.Prompts.ResumeAnalysis

	return screening.NewScreener(
		w.cache,
		w.newClient(ctx),
		screening.Prompt{System: tmpl.System, User: tmpl.User},
		concurrency,
		w.logger,
	)
}

// jobDescription returns the text of name or stops with the list of known names.
func (w *workspace) jobDescription(name string) string {
	text, ok := w.cache.Get(document.JobDescription, name)
	if !ok {
		w.logger.Fatal("job description not found",
			zap.String(logger.FieldJobDescription, name),
			zap.String("available", strings.Join(w.cache.Names(document.JobDescription), ", ")),
		)
	}
	return text
}
