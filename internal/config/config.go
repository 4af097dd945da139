package config

import (
	_ "embed"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	ProviderGemini      = "gemini"
	ProviderVertex      = "vertex"
	ProviderOpenAI      = "openai"
	ProviderAzureOpenAI = "azure-openai"

	SourceFolder = "folder"
	SourceMinIO  = "minio"

	DefaultAzureAPIVersion = "2025-01-01-preview"
	DefaultTimeout         = 60 * time.Second
	DefaultMaxLogLength    = 200
	DefaultMaxRetries      = 3
)

var (
	//go:embed prompts/resume_analysis_system.md
	defaultAnalysisSystem string
	//go:embed prompts/resume_analysis_user.md
	defaultAnalysisUser string
	//go:embed prompts/interview_questions_system.md
	defaultQuestionsSystem string
	//go:embed prompts/interview_questions_user.md
	defaultQuestionsUser string
)

type Config struct {
	Debug   bool          `mapstructure:"debug"`
	JSON    bool          `mapstructure:"json"`
	Log     LogConfig     `mapstructure:"log"`
	Folders FoldersConfig `mapstructure:"folders"`
	Source  SourceConfig  `mapstructure:"source"`
	AI      AIConfig      `mapstructure:"ai"`
	Prompts PromptsConfig `mapstructure:"prompts"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

type FoldersConfig struct {
	JobDescriptions string `mapstructure:"job-descriptions"`
	Resumes         string `mapstructure:"resumes"`
}

type SourceConfig struct {
	Type  string      `mapstructure:"type"`
	MinIO MinIOConfig `mapstructure:"minio"`
}

type MinIOConfig struct {
	Endpoint              string `mapstructure:"endpoint"`
	Bucket                string `mapstructure:"bucket"`
	AccessKey             string `mapstructure:"access-key"`
	SecretKey             string `mapstructure:"secret-key"`
	SecretKeyFile         string `mapstructure:"secret-key-file"`
	UseSSL                bool   `mapstructure:"use-ssl"`
	JobDescriptionsPrefix string `mapstructure:"job-descriptions-prefix"`
	ResumesPrefix         string `mapstructure:"resumes-prefix"`
}

type AIConfig struct {
	Provider     string        `mapstructure:"provider"`
	Model        string        `mapstructure:"model"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max-retries"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	Concurrency  int           `mapstructure:"concurrency"`
	Gemini       GeminiConfig  `mapstructure:"gemini"`
	Vertex       VertexConfig  `mapstructure:"vertex"`
	OpenAI       OpenAIConfig  `mapstructure:"openai"`
	Azure        AzureConfig   `mapstructure:"azure"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

// VertexConfig is the enterprise gateway variant of the Gemini backend.
type VertexConfig struct {
	Project    string `mapstructure:"project"`
	Location   string `mapstructure:"location"`
	APIVersion string `mapstructure:"api-version"`
	BaseURL    string `mapstructure:"base-url"`
}

type OpenAIConfig struct {
	BaseURL    string `mapstructure:"base-url"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

type AzureConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	APIVersion string `mapstructure:"api-version"`
}

// Template is a system/user prompt pair.
type Template struct {
	System string `mapstructure:"system"`
	User   string `mapstructure:"user"`
}

type PromptsConfig struct {
	ResumeAnalysis     Template `mapstructure:"resume-analysis"`
	InterviewQuestions Template `mapstructure:"interview-questions"`
}

// envBindings maps config keys to the well-known variable names used by the
// providers' own tooling.
var envBindings = map[string][]string{
	"ai.gemini.api-key":       {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"ai.vertex.project":       {"GOOGLE_CLOUD_PROJECT"},
	"ai.vertex.location":      {"GOOGLE_CLOUD_LOCATION"},
	"ai.openai.api-key":       {"OPENAI_API_KEY"},
	"ai.openai.base-url":      {"OPENAI_API_BASE"},
	"ai.azure.endpoint":       {"AZURE_OPENAI_ENDPOINT"},
	"ai.azure.api-key":        {"AZURE_OPENAI_API_KEY"},
	"ai.azure.api-version":    {"AZURE_OPENAI_API_VERSION"},
	"source.minio.endpoint":   {"MINIO_ENDPOINT"},
	"source.minio.bucket":     {"MINIO_BUCKET"},
	"source.minio.access-key": {"MINIO_ACCESS_KEY"},
	"source.minio.secret-key": {"MINIO_SECRET_KEY"},
}

// Setup registers defaults and environment bindings on v.
func Setup(v *viper.Viper) error {
	v.SetDefault("folders.job-descriptions", "data/JDs")
	v.SetDefault("folders.resumes", "data/Resumes")
	v.SetDefault("source.type", SourceFolder)
	v.SetDefault("source.minio.job-descriptions-prefix", "jds/")
	v.SetDefault("source.minio.resumes-prefix", "resumes/")
	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("ai.timeout", DefaultTimeout)
	v.SetDefault("ai.max-retries", DefaultMaxRetries)
	v.SetDefault("ai.max-log-length", DefaultMaxLogLength)
	v.SetDefault("ai.concurrency", 1)
	v.SetDefault("ai.vertex.location", "us-central1")
	v.SetDefault("ai.azure.api-version", DefaultAzureAPIVersion)
	v.SetDefault("prompts.resume-analysis.system", strings.TrimSpace(defaultAnalysisSystem))
	v.SetDefault("prompts.resume-analysis.user", strings.TrimSpace(defaultAnalysisUser))
	v.SetDefault("prompts.interview-questions.system", strings.TrimSpace(defaultQuestionsSystem))
	v.SetDefault("prompts.interview-questions.user", strings.TrimSpace(defaultQuestionsUser))

	v.SetEnvPrefix("TESSA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, names := range envBindings {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("binding %s environment variables: %w", key, err)
		}
	}

	return nil
}

// Load decodes the settings held by v into a validated Config.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(durationHook, mapstructure.StringToSliceHookFunc(",")),
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("creating config decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// durationHook accepts Go duration strings ("90s") and bare numbers, which
// are taken as seconds.
func durationHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}

	switch value := data.(type) {
	case time.Duration:
		return value, nil
	case string:
		value = strings.TrimSpace(value)
		if secs, err := strconv.ParseFloat(value, 64); err == nil {
			return time.Duration(secs * float64(time.Second)), nil
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", value, err)
		}
		return d, nil
	case int:
		return time.Duration(value) * time.Second, nil
	case int64:
		return time.Duration(value) * time.Second, nil
	case float64:
		return time.Duration(value * float64(time.Second)), nil
	}

	return data, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Source.Type {
	case SourceFolder:
		if strings.TrimSpace(c.Folders.JobDescriptions) == "" || strings.TrimSpace(c.Folders.Resumes) == "" {
			return fmt.Errorf("folders.job-descriptions and folders.resumes must be set")
		}
	case SourceMinIO:
		if strings.TrimSpace(c.Source.MinIO.Endpoint) == "" {
			return fmt.Errorf("source.minio.endpoint must be set")
		}
		if strings.TrimSpace(c.Source.MinIO.Bucket) == "" {
			return fmt.Errorf("source.minio.bucket must be set")
		}
	default:
		return fmt.Errorf("unknown source type %q", c.Source.Type)
	}

	ai := c.AI
	switch ai.Provider {
	case ProviderGemini, ProviderOpenAI:
	case ProviderVertex:
		if strings.TrimSpace(ai.Vertex.Project) == "" {
			return fmt.Errorf("ai.vertex.project must be set for the %s provider", ProviderVertex)
		}
	case ProviderAzureOpenAI:
		if strings.TrimSpace(ai.Azure.Endpoint) == "" {
			return fmt.Errorf("ai.azure.endpoint must be set for the %s provider", ProviderAzureOpenAI)
		}
	default:
		return fmt.Errorf("unknown ai provider %q", ai.Provider)
	}

	if strings.TrimSpace(ai.Model) == "" {
		return fmt.Errorf("ai.model must be set")
	}
	if ai.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive, got %s", ai.Timeout)
	}
	if ai.Concurrency < 1 {
		return fmt.Errorf("ai.concurrency must be at least 1, got %d", ai.Concurrency)
	}
	if ai.MaxRetries < 0 {
		return fmt.Errorf("ai.max-retries must not be negative")
	}

	if err := c.Prompts.ResumeAnalysis.validate("prompts.resume-analysis"); err != nil {
		return err
	}

	return nil
}

func (t Template) validate(key string) error {
	if strings.TrimSpace(t.User) == "" {
		return fmt.Errorf("%s.user must be set", key)
	}
	if !strings.Contains(t.User, "{resume_text}") {
		return fmt.Errorf("%s.user must contain the {resume_text} placeholder", key)
	}
	return nil
}
