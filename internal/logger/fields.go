package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared across packages.
const (
	FieldProvider       = "ai_provider"
	FieldModel          = "ai_model"
	FieldJobDescription = "jd"
	FieldResume         = "resume"
)

// StringField is a key/value pair that becomes a zap.String when both sides are set.
type StringField struct {
	Key   string
	Value string
}

// StringFields trims every pair and drops the ones with an empty key or value.
func StringFields(fields ...StringField) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		key, value := strings.TrimSpace(f.Key), strings.TrimSpace(f.Value)
		if key == "" || value == "" {
			continue
		}
		out = append(out, zap.String(key, value))
	}
	return out
}

// WithFields returns log with fields attached. A nil log becomes a no-op logger.
func WithFields(log *zap.Logger, fields ...zap.Field) *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	if len(fields) == 0 {
		return log
	}
	return log.With(fields...)
}

// CommonFields names the language model backend and deployment.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

func WithCommonFields(log *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(log, CommonFields(provider, model)...)
}

// PairFields names one job description / resume pair.
func PairFields(jd, resume string) []zap.Field {
	return StringFields(
		StringField{Key: FieldJobDescription, Value: jd},
		StringField{Key: FieldResume, Value: resume},
	)
}
