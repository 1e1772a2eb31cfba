package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type EnvVars struct {
	OpenAIAPIKey   string `envconfig:"OPENAI_API_KEY"`
	DeepSeekAPIKey string `envconfig:"DEEPSEEK_API_KEY"`

	GmxBin string `envconfig:"GMX_BIN" default:"gmx"`

	LLMTimeout time.Duration `envconfig:"LLM_TIMEOUT" default:"120s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func LoadEnv() (*EnvVars, error) {
	var v EnvVars
	if err := envconfig.Process("", &v); err != nil {
		return nil, err
	}
	return &v, nil
}
