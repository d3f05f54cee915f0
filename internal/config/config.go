package config

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Probe    ProbeConfig    `mapstructure:"probe"`
	Headless HeadlessConfig `mapstructure:"headless"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Slack    SlackConfig    `mapstructure:"slack"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type StorageConfig struct {
	DataDir       string `mapstructure:"data_dir"`
	ScreenshotDir string `mapstructure:"screenshot_dir"`
}

// ProbeConfig tunes C4, the bounded-concurrency probe executor.
type ProbeConfig struct {
	Concurrency     int `mapstructure:"concurrency"`
	DelayMs         int `mapstructure:"delay_ms"`
	TimeoutMs       int `mapstructure:"timeout_ms"`
	MaxRedirectHops int `mapstructure:"max_redirect_hops"`
	RetryAttempts   int `mapstructure:"retry_attempts"`
}

// HeadlessConfig tunes C5, the headless auditor.
type HeadlessConfig struct {
	PerformanceDelayMs int `mapstructure:"performance_delay_ms"`
	MobileDelayMs      int `mapstructure:"mobile_delay_ms"`
}

// PipelineConfig tunes C7's per-stage sample budgets.
type PipelineConfig struct {
	StatusCheckBudget  int `mapstructure:"status_check_budget"`
	SEOSampleBudget    int `mapstructure:"seo_sample_budget"`
	PerfSampleBudget   int `mapstructure:"perf_sample_budget"`
	MobileSampleBudget int `mapstructure:"mobile_sample_budget"`
}

type SlackConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`
	Enabled    bool   `mapstructure:"enabled"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"time_format"`
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
