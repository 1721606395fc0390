package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// configKeys maps flag names to YAML keys where they differ.
var configKeys = map[string]string{
	"ua": "user_agent",
}

// YAMLConfig is a kong configuration loader for YAML files:
//
//	exclude_sections: [參考文獻, 外部連結]
//	user_agent: "mybot/1.0 (me@example.com)"
//	variant: zh-tw
//	rate: 1
//	concurrency: 4
//	timeout: 20s
//
// Keys are flag names with dashes replaced by underscores.
func YAMLConfig(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		key, ok := configKeys[flag.Name]
		if !ok {
			key = strings.ReplaceAll(flag.Name, "-", "_")
		}
		v, ok := values[key]
		if !ok || v == nil {
			return nil, nil
		}
		return configValue(v), nil
	}
	return f, nil
}

// configValue renders a YAML value as a flag string. Lists are joined
// with commas.
func configValue(v any) string {
	list, ok := v.([]any)
	if !ok {
		return fmt.Sprint(v)
	}
	parts := make([]string, len(list))
	for i, item := range list {
		parts[i] = fmt.Sprint(item)
	}
	return strings.Join(parts, ",")
}
