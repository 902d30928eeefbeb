package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServiceConfig is the service.yaml configuration for the converter service.
type ServiceConfig struct {
	Version int `yaml:"version"`
	Service struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"service"`
	Network struct {
		HTTPPort int `yaml:"http_port"`
	} `yaml:"network"`
	Generator struct {
		Target string `yaml:"target"`
	} `yaml:"generator"`
	MQTT struct {
		Enabled       bool   `yaml:"enabled"`
		RequestTopic  string `yaml:"request_topic"`
		ResponseTopic string `yaml:"response_topic"`
	} `yaml:"mqtt"`
}

// HTTPPort returns the configured HTTP port, defaulting to 8080 if not set.
func (c *ServiceConfig) HTTPPort() int {
	if c.Network.HTTPPort == 0 {
		return 8080
	}
	return c.Network.HTTPPort
}

// GeneratorTarget returns the configured code-generation target,
// defaulting to "pyagrum".
func (c *ServiceConfig) GeneratorTarget() string {
	if c.Generator.Target == "" {
		return "pyagrum"
	}
	return c.Generator.Target
}

// RequestTopic returns the MQTT request topic, with a default.
func (c *ServiceConfig) RequestTopic() string {
	if c.MQTT.RequestTopic == "" {
		return "xdsl/convert/request"
	}
	return c.MQTT.RequestTopic
}

// ResponseTopic returns the MQTT response topic, with a default.
func (c *ServiceConfig) ResponseTopic() string {
	if c.MQTT.ResponseTopic == "" {
		return "xdsl/convert/response"
	}
	return c.MQTT.ResponseTopic
}

// LoadServiceConfig reads and validates service.yaml.
func LoadServiceConfig(path string) (*ServiceConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg ServiceConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}

	if cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported service.yaml version: %d", cfg.Version)
	}

	return &cfg, nil
}
