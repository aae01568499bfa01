package config

import (
	"errors"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// YAML is a kong.ConfigurationLoader for YAML files.
// Keys are flag names with dashes or underscores, e.g. "log-level" or "log_level".
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	var f kong.ResolverFunc = func(context *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if raw, ok := values[flag.Name]; ok {
			return raw, nil
		}
		if raw, ok := values[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
			return raw, nil
		}
		return nil, nil
	}
	return f, nil
}
