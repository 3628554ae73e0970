package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/elmgen/errors"
)

// isolate points HOME and the working directory at fresh temp dirs and
// clears cached state.
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(project)
	Reset()
	configFileOverride = ""
	t.Cleanup(func() {
		configFileOverride = ""
		Reset()
	})
	return home, project
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, DefaultMarker, cfg.Marker)
	assert.Equal(t, DefaultDebounceMS, cfg.Watch.DebounceMS)
	assert.Empty(t, cfg.Module)
	assert.False(t, cfg.Strict)
	assert.False(t, cfg.Log.JSON)
	assert.Zero(t, cfg.Log.Verbosity)
}

func TestLoadPrecedence(t *testing.T) {
	home, project := isolate(t)

	writeFile(t, filepath.Join(home, UserConfigDir, ConfigFileName), `
marker = "UserMarker"
strict = true

[log]
verbosity = 2
`)
	writeFile(t, filepath.Join(project, ConfigFileName), `
module = "Api.Types"
marker = "ProjectMarker"
`)
	t.Setenv("ELMGEN_STRICT", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Api.Types", cfg.Module)
	assert.Equal(t, "ProjectMarker", cfg.Marker, "project file wins over user file")
	assert.False(t, cfg.Strict, "environment wins over files")
	assert.Equal(t, 2, cfg.Log.Verbosity, "user file fills keys the project leaves unset")
}

func TestLoadWalksUp(t *testing.T) {
	_, project := isolate(t)
	writeFile(t, filepath.Join(project, ConfigFileName), `module = "Root"`)

	nested := filepath.Join(project, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0755))
	t.Chdir(nested)

	assert.Equal(t, filepath.Join(project, ConfigFileName), FindProjectConfig(nested))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Root", cfg.Module)
}

func TestLoadCaches(t *testing.T) {
	_, project := isolate(t)
	writeFile(t, filepath.Join(project, ConfigFileName), `module = "First"`)

	first, err := Load()
	require.NoError(t, err)

	writeFile(t, filepath.Join(project, ConfigFileName), `module = "Second"`)
	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, again)

	Reset()
	reloaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Second", reloaded.Module)
}

func TestSetConfigFile(t *testing.T) {
	_, project := isolate(t)
	other := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, other, `module = "Custom"`)
	writeFile(t, filepath.Join(project, ConfigFileName), `module = "Ignored"`)

	SetConfigFile(other)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Custom", cfg.Module)

	SetConfigFile(filepath.Join(project, "missing.toml"))
	_, err = Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestLoadRejectsBadTOML(t *testing.T) {
	_, project := isolate(t)
	writeFile(t, filepath.Join(project, ConfigFileName), "module = \n")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, "module = \"Game.Types\"\ninput = \"src/types.rs\"\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Game.Types", cfg.Module)
	assert.Equal(t, "src/types.rs", cfg.Input)
	assert.Equal(t, DefaultMarker, cfg.Marker)
}

func TestInputFormat(t *testing.T) {
	tests := []struct {
		input, format, want string
	}{
		{"types.rs", "", FormatRust},
		{"tree.yaml", "", FormatTree},
		{"tree.YML", "", FormatTree},
		{"tree.json", "", FormatTree},
		{"types", "", FormatRust},
		{"tree.yaml", FormatRust, FormatRust},
	}
	for _, tt := range tests {
		cfg := Config{Input: tt.input, Format: tt.format}
		assert.Equal(t, tt.want, cfg.InputFormat(), tt.input)
	}
}

func TestWritesStdout(t *testing.T) {
	assert.True(t, (&Config{}).WritesStdout())
	assert.True(t, (&Config{Output: "-"}).WritesStdout())
	assert.False(t, (&Config{Output: "Api.elm"}).WritesStdout())
}

func TestIntrospect(t *testing.T) {
	_, project := isolate(t)
	path := filepath.Join(project, ConfigFileName)
	writeFile(t, path, `module = "Api"`)
	t.Setenv("ELMGEN_STRICT", "true")

	settings, err := Introspect()
	require.NoError(t, err)

	byKey := make(map[string]SettingInfo)
	for _, s := range settings {
		byKey[s.Key] = s
	}

	assert.Equal(t, SourceProject, byKey["module"].Source)
	assert.Equal(t, path, byKey["module"].SourcePath)
	assert.Equal(t, SourceEnvironment, byKey["strict"].Source)
	assert.Equal(t, "ELMGEN_STRICT", byKey["strict"].SourcePath)
	assert.Equal(t, SourceDefault, byKey["marker"].Source)
	assert.Equal(t, DefaultMarker, byKey["marker"].Value)
}
