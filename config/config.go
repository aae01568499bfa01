package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// DefaultPaths are the YAML config files consulted, later files win
var DefaultPaths = []string{
	"~/.config/fakecheck/config.yaml",
	"fakecheck.yaml",
}

// Options are the global settings shared by every command
type Options struct {
	Endpoint string        `help:"Prediction endpoint URL" default:"http://localhost:8000/predict" env:"FAKECHECK_ENDPOINT"`
	Field    string        `help:"Multipart form field carrying the video" default:"video" env:"FAKECHECK_FIELD"`
	Timeout  time.Duration `help:"Request timeout, 0 waits forever" default:"0s" env:"FAKECHECK_TIMEOUT"`
	LogLevel string        `help:"Log level" default:"info" enum:"debug,info,warn,error" env:"FAKECHECK_LOG_LEVEL"`
	LogFile  string        `help:"Write logs to this file instead of stderr" type:"path" env:"FAKECHECK_LOG_FILE"`
}

// Validate checks the options before any command runs
func (o *Options) Validate() error {
	u, err := url.Parse(o.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", o.Endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint must be an absolute http(s) URL, got %q", o.Endpoint)
	}
	if o.Field == "" {
		return errors.New("form field name must not be empty")
	}
	if o.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", o.Timeout)
	}
	return nil
}

// Default returns the options a command sees when nothing was configured
func Default() *Options {
	return &Options{
		Endpoint: "http://localhost:8000/predict",
		Field:    "video",
		LogLevel: "info",
	}
}
