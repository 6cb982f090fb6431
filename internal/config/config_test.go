package config

import (
	"os"
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

type testOptions struct {
	Config string `help:"Config file path"`

	StringField string   `toml:"test.string_field" env:"STRING_FIELD"`
	BoolField   bool     `toml:"test.bool_field" env:"BOOL_FIELD"`
	IntField    int      `toml:"test.int_field" env:"INT_FIELD"`
	SliceField  []string `toml:"test.slice_field" env:"SLICE_FIELD"`

	NestedString string `toml:"nested.value" env:"NESTED_VALUE"`
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "config_*.toml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(f.Name()) })
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	f.Close()
	return f.Name()
}

func TestLoadConfigFromTOML(t *testing.T) {
	path := writeTempConfig(t, `
[test]
string_field = "hello world"
bool_field = true
int_field = 42
slice_field = ["item1", "item2", "item3"]

[nested]
value = "nested value"
`)

	opts := &testOptions{Config: path}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.StringField != "hello world" {
		t.Errorf("StringField = %q, want %q", opts.StringField, "hello world")
	}
	if !opts.BoolField {
		t.Errorf("BoolField = %v, want true", opts.BoolField)
	}
	if opts.IntField != 42 {
		t.Errorf("IntField = %d, want 42", opts.IntField)
	}
	if want := []string{"item1", "item2", "item3"}; !reflect.DeepEqual(opts.SliceField, want) {
		t.Errorf("SliceField = %v, want %v", opts.SliceField, want)
	}
	if opts.NestedString != "nested value" {
		t.Errorf("NestedString = %q, want %q", opts.NestedString, "nested value")
	}
}

func TestLoadConfigFromEnvVars(t *testing.T) {
	t.Setenv("TRANSFORMNODE_STRING_FIELD", "env string")
	t.Setenv("TRANSFORMNODE_BOOL_FIELD", "false")
	t.Setenv("TRANSFORMNODE_INT_FIELD", "123")
	t.Setenv("TRANSFORMNODE_SLICE_FIELD", "a,b,c")
	t.Setenv("TRANSFORMNODE_NESTED_VALUE", "env nested")

	opts := &testOptions{}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.StringField != "env string" {
		t.Errorf("StringField = %q, want %q", opts.StringField, "env string")
	}
	if opts.BoolField {
		t.Errorf("BoolField = %v, want false", opts.BoolField)
	}
	if opts.IntField != 123 {
		t.Errorf("IntField = %d, want 123", opts.IntField)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(opts.SliceField, want) {
		t.Errorf("SliceField = %v, want %v", opts.SliceField, want)
	}
	if opts.NestedString != "env nested" {
		t.Errorf("NestedString = %q, want %q", opts.NestedString, "env nested")
	}
}

func TestLoadConfigEnvOverridesTOML(t *testing.T) {
	path := writeTempConfig(t, `
[test]
string_field = "toml value"
bool_field = true
int_field = 100
slice_field = ["toml1", "toml2"]
`)

	t.Setenv("TRANSFORMNODE_STRING_FIELD", "env override")
	t.Setenv("TRANSFORMNODE_BOOL_FIELD", "false")

	opts := &testOptions{Config: path}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.StringField != "env override" {
		t.Errorf("StringField = %q, want env override", opts.StringField)
	}
	if opts.BoolField {
		t.Errorf("BoolField = %v, want false from env", opts.BoolField)
	}
	if opts.IntField != 100 {
		t.Errorf("IntField = %d, want 100 from TOML", opts.IntField)
	}
	if want := []string{"toml1", "toml2"}; !reflect.DeepEqual(opts.SliceField, want) {
		t.Errorf("SliceField = %v, want %v from TOML", opts.SliceField, want)
	}
}

func TestLoadConfigCLIFlagWins(t *testing.T) {
	path := writeTempConfig(t, `
[test]
string_field = "toml value"
int_field = 100
`)

	cmd := &cobra.Command{}
	cmd.Flags().String("string-field", "", "")
	cmd.Flags().Int("int-field", 0, "")
	if err := cmd.Flags().Set("string-field", "cli value"); err != nil {
		t.Fatal(err)
	}

	opts := &testOptions{Config: path, StringField: "cli value"}
	if err := LoadConfig(opts, cmd); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.StringField != "cli value" {
		t.Errorf("StringField = %q, CLI flag should not be overwritten", opts.StringField)
	}
	if opts.IntField != 100 {
		t.Errorf("IntField = %d, want 100 from TOML for unset flag", opts.IntField)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	opts := &testOptions{Config: "nonexistent_file.toml"}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig should not fail for a missing file: %v", err)
	}
}

func TestTomlLookup(t *testing.T) {
	tree := map[string]any{
		"level1": map[string]any{
			"level2": map[string]any{
				"value": "nested_value",
			},
			"simple": "simple_value",
		},
		"root": "root_value",
	}

	tests := []struct {
		path string
		want any
	}{
		{"root", "root_value"},
		{"level1.simple", "simple_value"},
		{"level1.level2.value", "nested_value"},
		{"nonexistent", nil},
		{"level1.nonexistent", nil},
	}

	for _, tt := range tests {
		if got := tomlLookup(tree, tt.path); got != tt.want {
			t.Errorf("tomlLookup(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSetFromTOML(t *testing.T) {
	var target struct {
		S  string
		B  bool
		I  int
		SL []string
	}
	v := reflect.ValueOf(&target).Elem()

	setFromTOML(v.FieldByName("S"), "text")
	setFromTOML(v.FieldByName("B"), true)
	setFromTOML(v.FieldByName("I"), int64(42))
	setFromTOML(v.FieldByName("SL"), []any{"a", "b"})

	if target.S != "text" || !target.B || target.I != 42 {
		t.Errorf("scalar fields wrong: %+v", target)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(target.SL, want) {
		t.Errorf("SL = %v, want %v", target.SL, want)
	}

	// Mismatched types leave the field alone
	setFromTOML(v.FieldByName("I"), "not a number")
	if target.I != 42 {
		t.Errorf("I = %d after type mismatch, want unchanged 42", target.I)
	}
}

func TestSetFromString(t *testing.T) {
	var target struct {
		S  string
		B  bool
		I  int
		SL []string
	}
	v := reflect.ValueOf(&target).Elem()

	setFromString(v.FieldByName("S"), "text")
	setFromString(v.FieldByName("B"), "true")
	setFromString(v.FieldByName("I"), "123")
	setFromString(v.FieldByName("SL"), " x , y , z ")

	if target.S != "text" || !target.B || target.I != 123 {
		t.Errorf("scalar fields wrong: %+v", target)
	}
	if want := []string{"x", "y", "z"}; !reflect.DeepEqual(target.SL, want) {
		t.Errorf("SL = %v, want %v", target.SL, want)
	}

	setFromString(v.FieldByName("I"), "garbage")
	if target.I != 123 {
		t.Errorf("I = %d after bad parse, want unchanged 123", target.I)
	}
}

func TestFlagNameForField(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"Port", "port"},
		{"LoggingLevel", "logging-level"},
		{"CapabilitiesWatch", "capabilities-watch"},
		{"AuthUsername", "auth-username"},
	}
	for _, tt := range tests {
		if got := flagNameForField(tt.field); got != tt.want {
			t.Errorf("flagNameForField(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestLoadConfigModuleLevels(t *testing.T) {
	path := writeTempConfig(t, `
[logging]
level = "info"
format = "text"
presets = "debug"
planner = "debug"
capability = "warn"
api = "error"
`)

	var opts struct {
		Config            string
		LoggingLevel      string `toml:"logging.level" env:"LOGGING_LEVEL"`
		LoggingFormat     string `toml:"logging.format" env:"LOGGING_FORMAT"`
		LoggingPresets    string `toml:"logging.presets" env:"LOGGING_PRESETS"`
		LoggingPlanner    string `toml:"logging.planner" env:"LOGGING_PLANNER"`
		LoggingCapability string `toml:"logging.capability" env:"LOGGING_CAPABILITY"`
		LoggingAPI        string `toml:"logging.api" env:"LOGGING_API"`
	}
	opts.Config = path

	if err := LoadConfig(&opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.LoggingLevel != "info" || opts.LoggingFormat != "text" {
		t.Errorf("global logging config wrong: level=%q format=%q", opts.LoggingLevel, opts.LoggingFormat)
	}
	if opts.LoggingPresets != "debug" || opts.LoggingPlanner != "debug" {
		t.Errorf("module levels wrong: presets=%q planner=%q", opts.LoggingPresets, opts.LoggingPlanner)
	}
	if opts.LoggingCapability != "warn" || opts.LoggingAPI != "error" {
		t.Errorf("module levels wrong: capability=%q api=%q", opts.LoggingCapability, opts.LoggingAPI)
	}
}
