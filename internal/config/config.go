package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const ConfigPathEnv = "RATES_CONFIG_PATH"

type PipelineConfig struct {
	Env           string              `yaml:"env" env:"ENV" env-default:"local"`
	Feed          FeedConfig          `yaml:"feed"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	HTTPServer    HTTPServer          `yaml:"http_server"`
	LogConfig     LogConfig           `yaml:"log_config"`
}

type FeedConfig struct {
	URL      string        `yaml:"url" env:"RATES_FEED_URL" env-default:"https://api.exchangerate-api.com/v4/latest/USD"`
	Interval time.Duration `yaml:"interval" env:"RATES_FEED_INTERVAL" env-default:"30s"`
	// Zero keeps the transport default.
	Timeout time.Duration `yaml:"timeout" env:"RATES_FEED_TIMEOUT"`
}

type KafkaConfig struct {
	Brokers       []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:"," env-default:"localhost:9092"`
	Topic         string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"exchange-rates"`
	GroupID       string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"elasticsearch-consumer"`
	TunnelTopic   string   `yaml:"tunnel_topic" env:"KAFKA_TUNNEL_TOPIC" env-default:"mon-tunnel-topic"`
	TunnelGroupID string   `yaml:"tunnel_group_id" env:"KAFKA_TUNNEL_GROUP_ID" env-default:"tunnel-consumer"`
}

type ElasticsearchConfig struct {
	URL   string `yaml:"url" env:"ELASTICSEARCH_URL" env-default:"http://localhost:9200"`
	Index string `yaml:"index" env:"ELASTICSEARCH_INDEX" env-default:"exchange-rates"`
}

type HTTPServer struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

func (s HTTPServer) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// Load reads the YAML file named by RATES_CONFIG_PATH when it is set and
// applies environment overrides and defaults on top of it.
func Load() (*PipelineConfig, error) {
	var cfg PipelineConfig

	if configPath := os.Getenv(ConfigPathEnv); configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("failed to find config file: %w", err)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *PipelineConfig {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *PipelineConfig) Validate() error {
	var errs []error
	if c.Feed.URL == "" {
		errs = append(errs, errors.New("feed.url is required"))
	}
	if c.Feed.Interval <= 0 {
		errs = append(errs, fmt.Errorf("feed.interval must be positive, got %s", c.Feed.Interval))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("kafka.brokers must list at least one broker"))
	}
	if c.Kafka.Topic == "" {
		errs = append(errs, errors.New("kafka.topic is required"))
	}
	if c.Kafka.GroupID == "" {
		errs = append(errs, errors.New("kafka.group_id is required"))
	}
	if c.Kafka.TunnelTopic == "" {
		errs = append(errs, errors.New("kafka.tunnel_topic is required"))
	}
	if c.Kafka.TunnelGroupID == "" {
		errs = append(errs, errors.New("kafka.tunnel_group_id is required"))
	}
	if c.Elasticsearch.URL == "" {
		errs = append(errs, errors.New("elasticsearch.url is required"))
	}
	if c.Elasticsearch.Index == "" {
		errs = append(errs, errors.New("elasticsearch.index is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
