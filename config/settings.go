package config

import (
	"time"

	"github.com/kbukum/start/logger"
	"github.com/kbukum/start/observability"
	"github.com/kbukum/start/process"
	"github.com/kbukum/start/taskfile"
	"github.com/kbukum/start/validation"
)

// DefaultName is the service name reported in logs and telemetry.
const DefaultName = "start"

// Settings is the content of start.yml.
//
// Example:
//
//	name: my-project
//	logging:
//	  level: debug
//	reporter:
//	  format: plain
//	tracing:
//	  enabled: true
//	  endpoint: localhost:4318
//	pipelines:
//	  build:
//	    steps:
//	      - task: exec
//	        with: {binary: go, args: [build, ./...]}
type Settings struct {
	Name      string               `yaml:"name" mapstructure:"name"`
	Logging   logger.Config        `yaml:"logging" mapstructure:"logging"`
	Reporter  ReporterConfig       `yaml:"reporter" mapstructure:"reporter"`
	Tracing   TracingConfig        `yaml:"tracing" mapstructure:"tracing"`
	Metrics   MetricsConfig        `yaml:"metrics" mapstructure:"metrics"`
	Exec      process.Config       `yaml:"exec" mapstructure:"exec"`
	Pipelines taskfile.Definitions `yaml:"pipelines" mapstructure:"pipelines"`
}

// ReporterConfig selects how task events are shown.
type ReporterConfig struct {
	// Format is console, plain or silent.
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=console plain silent"`
}

// TracingConfig configures OTLP trace export.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=Enabled true"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// MetricsConfig configures OTLP metric export.
type MetricsConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=Enabled true"`
	Insecure bool          `yaml:"insecure" mapstructure:"insecure"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills unset fields.
func (s *Settings) ApplyDefaults() {
	if s.Name == "" {
		s.Name = DefaultName
	}
	s.Logging.ApplyDefaults()
	if s.Reporter.Format == "" {
		s.Reporter.Format = "console"
	}

	tracing := observability.DefaultTracerConfig(s.Name)
	if s.Tracing.Endpoint == "" {
		s.Tracing.Endpoint = tracing.Endpoint
	}
	if s.Tracing.SampleRate == 0 {
		s.Tracing.SampleRate = tracing.SampleRate
	}

	metrics := observability.DefaultMeterConfig(s.Name)
	if s.Metrics.Endpoint == "" {
		s.Metrics.Endpoint = metrics.Endpoint
	}
	if s.Metrics.Interval == 0 {
		s.Metrics.Interval = metrics.Interval
	}
}

// Validate checks struct tags, logging settings and pipeline definitions.
func (s *Settings) Validate() error {
	v := validation.New()
	v.Required("name", s.Name)
	v.Merge("", validation.Validate(s))
	if err := s.Logging.Validate(); err != nil {
		v.AddError("logging", err.Error())
	}
	v.Merge("", s.Pipelines.Validate())
	return v.Validate()
}

// TracerConfig returns the tracer settings for version of the binary.
func (s *Settings) TracerConfig(version string) observability.TracerConfig {
	return observability.TracerConfig{
		ServiceName:    s.Name,
		ServiceVersion: version,
		Environment:    "local",
		Endpoint:       s.Tracing.Endpoint,
		Insecure:       s.Tracing.Insecure,
		SampleRate:     s.Tracing.SampleRate,
	}
}

// MeterConfig returns the meter settings for version of the binary.
func (s *Settings) MeterConfig(version string) observability.MeterConfig {
	return observability.MeterConfig{
		ServiceName:    s.Name,
		ServiceVersion: version,
		Environment:    "local",
		Endpoint:       s.Metrics.Endpoint,
		Insecure:       s.Metrics.Insecure,
		Interval:       s.Metrics.Interval,
	}
}
