// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Advisory AdvisoryConfig `mapstructure:"advisory" yaml:"advisory"`
	Notifier NotifierConfig `mapstructure:"notifier" yaml:"notifier"`
	Workflow WorkflowConfig `mapstructure:"workflow" yaml:"workflow"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// DatabaseConfig holds the complaint store connection details.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// AdvisoryProvider selects the advisory backend.
type AdvisoryProvider string

const (
	ProviderGemini AdvisoryProvider = "gemini"
	// ProviderStatic serves canned responses; used for dry runs and tests.
	ProviderStatic AdvisoryProvider = "static"
)

// AdvisoryConfig configures the language-model advisory client.
type AdvisoryConfig struct {
	Provider          AdvisoryProvider `mapstructure:"provider" yaml:"provider"`
	Model             string           `mapstructure:"model" yaml:"model"`
	APIKey            string           `mapstructure:"api_key" yaml:"api_key"`
	Endpoint          string           `mapstructure:"endpoint" yaml:"endpoint"`
	APITimeout        time.Duration    `mapstructure:"api_timeout" yaml:"api_timeout"`
	Temperature       float32          `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens         int              `mapstructure:"max_tokens" yaml:"max_tokens"`
	RequestsPerMinute int              `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	SystemPrompt      string           `mapstructure:"system_prompt" yaml:"system_prompt"`
}

// KafkaConfig configures the agent alert producer.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers" yaml:"brokers"`
	Topic   string   `mapstructure:"topic" yaml:"topic"`
}

// SMTPConfig configures outbound customer email.
type SMTPConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	From     string `mapstructure:"from" yaml:"from"`
}

// NotifierConfig groups the outbound notification channels.
type NotifierConfig struct {
	Kafka KafkaConfig `mapstructure:"kafka" yaml:"kafka"`
	SMTP  SMTPConfig  `mapstructure:"smtp" yaml:"smtp"`
}

// WorkflowConfig tunes complaint run execution.
type WorkflowConfig struct {
	Timeout          time.Duration `mapstructure:"timeout" yaml:"timeout"`
	BatchConcurrency int           `mapstructure:"batch_concurrency" yaml:"batch_concurrency"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "crew-cli")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	v.SetDefault("database.url", "")

	v.SetDefault("advisory.provider", "static")
	v.SetDefault("advisory.model", "gemini-2.0-flash")
	v.SetDefault("advisory.api_timeout", "60s")
	v.SetDefault("advisory.temperature", 0.4)
	v.SetDefault("advisory.max_tokens", 1024)
	v.SetDefault("advisory.requests_per_minute", 30)
	v.SetDefault("advisory.system_prompt",
		"You are the operations advisor for VoltRide, a shared scooter fleet. "+
			"Answer with concrete, actionable guidance for the complaint crew.")

	v.SetDefault("notifier.kafka.brokers", []string{})
	v.SetDefault("notifier.kafka.topic", "crew.agent-alerts")
	v.SetDefault("notifier.smtp.port", 587)

	v.SetDefault("workflow.timeout", "5m")
	v.SetDefault("workflow.batch_concurrency", 4)
}

// Validate rejects configurations the application cannot run with.
func (c *Config) Validate() error {
	switch c.Advisory.Provider {
	case ProviderGemini:
		if c.Advisory.APIKey == "" {
			return fmt.Errorf("advisory.api_key is required for the gemini provider")
		}
	case ProviderStatic:
	default:
		return fmt.Errorf("unknown advisory provider %q", c.Advisory.Provider)
	}
	if c.Workflow.BatchConcurrency < 1 {
		return fmt.Errorf("workflow.batch_concurrency must be at least 1")
	}
	return nil
}
