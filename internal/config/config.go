package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const envPrefix = "TRANSFORMNODE_"

// LoadConfig fills opts from the TOML config file and environment with
// precedence CLI flags > env vars > file. Fields opt in through struct
// tags: `toml:"section.key"` for the file and `env:"KEY"` for the
// TRANSFORMNODE_-prefixed variable. When cmd is given, flags the user set
// on the command line are left untouched.
func LoadConfig(opts any, cmd *cobra.Command) error {
	v := reflect.ValueOf(opts).Elem()
	skip := cliChangedFlags(cmd)

	if path := configFilePath(v); path != "" {
		if err := applyTOMLFile(v, path, skip); err != nil {
			return err
		}
	}

	applyEnv(v, skip)
	return nil
}

// cliChangedFlags returns the flag names the user set explicitly.
func cliChangedFlags(cmd *cobra.Command) map[string]bool {
	changed := make(map[string]bool)
	if cmd == nil {
		return changed
	}
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			changed[f.Name] = true
		}
	})
	return changed
}

// configFilePath reads the Config field, which names the TOML file.
func configFilePath(v reflect.Value) string {
	field := v.FieldByName("Config")
	if !field.IsValid() || field.Kind() != reflect.String {
		return ""
	}
	return field.String()
}

// applyTOMLFile merges values from the config file into tagged fields.
// A missing file is fine; the defaults stand.
func applyTOMLFile(v reflect.Value, path string, skip map[string]bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("failed to parse TOML config: %w", err)
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fieldType := t.Field(i)
		if skip[flagNameForField(fieldType.Name)] {
			continue
		}
		tomlPath := fieldType.Tag.Get("toml")
		if tomlPath == "" {
			continue
		}
		if value := tomlLookup(tree, tomlPath); value != nil {
			setFromTOML(v.Field(i), value)
		}
	}
	return nil
}

// applyEnv merges TRANSFORMNODE_* environment variables into tagged fields.
func applyEnv(v reflect.Value, skip map[string]bool) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fieldType := t.Field(i)
		if skip[flagNameForField(fieldType.Name)] {
			continue
		}
		envKey := fieldType.Tag.Get("env")
		if envKey == "" {
			continue
		}
		if envValue := os.Getenv(envPrefix + envKey); envValue != "" {
			setFromString(v.Field(i), envValue)
		}
	}
}

// flagNameForField converts a field name to its CLI flag name, the same
// way humacli does: "LoggingLevel" -> "logging-level".
func flagNameForField(fieldName string) string {
	var result []rune
	for i, r := range fieldName {
		if i > 0 && unicode.IsUpper(r) {
			result = append(result, '-')
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}

// tomlLookup resolves a dotted path like "server.port" in the parsed tree.
func tomlLookup(tree map[string]any, path string) any {
	parts := strings.Split(path, ".")
	current := tree

	for i, part := range parts {
		if i == len(parts)-1 {
			return current[part]
		}
		next, ok := current[part].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return nil
}

// setFromTOML assigns a decoded TOML value to a field when types line up.
func setFromTOML(field reflect.Value, value any) {
	if !field.CanSet() {
		return
	}

	switch field.Kind() {
	case reflect.String:
		if s, ok := value.(string); ok {
			field.SetString(s)
		}
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			field.SetBool(b)
		}
	case reflect.Int:
		// go-toml decodes integers as int64
		switch i := value.(type) {
		case int64:
			field.SetInt(i)
		case int:
			field.SetInt(int64(i))
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return
		}
		arr, ok := value.([]any)
		if !ok {
			return
		}
		slice := make([]string, len(arr))
		for i, item := range arr {
			if s, ok := item.(string); ok {
				slice[i] = s
			}
		}
		field.Set(reflect.ValueOf(slice))
	}
}

// setFromString assigns an env var string to a field, parsing as needed.
// Slices split on commas with whitespace trimmed.
func setFromString(field reflect.Value, value string) {
	if !field.CanSet() {
		return
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		if b, err := strconv.ParseBool(value); err == nil {
			field.SetBool(b)
		}
	case reflect.Int:
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			field.SetInt(i)
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return
		}
		parts := strings.Split(value, ",")
		slice := make([]string, len(parts))
		for i, part := range parts {
			slice[i] = strings.TrimSpace(part)
		}
		field.Set(reflect.ValueOf(slice))
	}
}
