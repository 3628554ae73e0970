package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/tools/txtar"

	"github.com/teranos/elmgen/am"
	"github.com/teranos/elmgen/errors"
	"github.com/teranos/elmgen/logger"
)

// =============================================================================
// Harness
// =============================================================================

// resetFlags restores every flag in the tree to its default, so the
// package-level commands can be executed more than once in a process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// syncBuffer is a bytes.Buffer safe for the watcher's callback goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// workspace isolates HOME and the working directory
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(dir)
	t.Cleanup(func() {
		am.SetConfigFile("")
		logger.Logger = zap.NewNop().Sugar()
	})
	return dir
}

// run executes the command line and returns stdout, stderr and exit code
func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	resetFlags(RootCmd)

	var stdout, stderr bytes.Buffer
	RootCmd.SetOut(&stdout)
	RootCmd.SetErr(&stderr)
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})

	code := Execute()
	return stdout.String(), stderr.String(), code
}

type fixture struct {
	module, input, want string
}

func loadFixture(t *testing.T, name string) fixture {
	t.Helper()
	ar, err := txtar.ParseFile(filepath.Join("..", "..", "..", "typegen", "elm", "testdata", name+".txtar"))
	require.NoError(t, err)

	var fx fixture
	for _, f := range ar.Files {
		switch f.Name {
		case "module":
			fx.module = strings.TrimSpace(string(f.Data))
		case "input.rs":
			fx.input = string(f.Data)
		case "want.elm":
			fx.want = string(f.Data)
		}
	}
	require.NotEmpty(t, fx.input)
	return fx
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// =============================================================================
// generate
// =============================================================================

func TestGenerateToStdout(t *testing.T) {
	fx := loadFixture(t, "person")
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "types.rs"), fx.input)

	stdout, _, code := run(t, "generate", "-i", "types.rs", "-m", fx.module)
	require.Equal(t, ExitOK, code)
	assert.Equal(t, fx.want, stdout)

	stdout, _, code = run(t, "generate", "-i", "types.rs", "-m", fx.module, "-o", "-")
	require.Equal(t, ExitOK, code)
	assert.Equal(t, fx.want, stdout)
}

func TestGenerateToFile(t *testing.T) {
	fx := loadFixture(t, "vectors")
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "src", "types.rs"), fx.input)

	stdout, stderr, code := run(t, "generate",
		"--input", "src/types.rs",
		"--output", "elm/Game/Types.elm",
		"--module", fx.module)
	require.Equal(t, ExitOK, code, stderr)

	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Generated elm/Game/Types.elm")
	assert.Equal(t, fx.want, readFile(t, filepath.Join(dir, "elm", "Game", "Types.elm")))

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Join(dir, "elm", "Game"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGenerateFromConfig(t *testing.T) {
	fx := loadFixture(t, "message")
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "types.rs"), fx.input)
	writeFile(t, filepath.Join(dir, am.ConfigFileName), `
module = "`+fx.module+`"
input = "types.rs"
output = "Message.elm"
`)

	_, stderr, code := run(t, "generate")
	require.Equal(t, ExitOK, code, stderr)
	assert.Equal(t, fx.want, readFile(t, filepath.Join(dir, "Message.elm")))

	// flags override the file
	stdout, stderr, code := run(t, "generate", "-o", "-", "-m", "Other.Name")
	require.Equal(t, ExitOK, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "module Other.Name exposing (..)\n"))

	// environment overrides the file
	t.Setenv("ELMGEN_MODULE", "From.Env")
	stdout, stderr, code = run(t, "generate", "-o", "-")
	require.Equal(t, ExitOK, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "module From.Env exposing (..)\n"))
}

func TestGenerateExplicitConfigFile(t *testing.T) {
	fx := loadFixture(t, "person")
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "types.rs"), fx.input)
	writeFile(t, filepath.Join(dir, "conf", "custom.toml"), `module = "Custom"`+"\ninput = \"types.rs\"\n")

	stdout, stderr, code := run(t, "--config", "conf/custom.toml", "generate")
	require.Equal(t, ExitOK, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "module Custom exposing (..)\n"))

	_, stderr, code = run(t, "--config", "conf/missing.toml", "generate")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "missing.toml")
}

func TestGenerateCheck(t *testing.T) {
	fx := loadFixture(t, "person")
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "types.rs"), fx.input)
	args := []string{"generate", "-i", "types.rs", "-o", "Person.elm", "-m", fx.module, "--check"}

	_, stderr, code := run(t, args...)
	assert.Equal(t, ExitDrift, code)
	assert.Contains(t, stderr, "does not exist")
	assert.NoFileExists(t, filepath.Join(dir, "Person.elm"), "--check never writes")

	writeFile(t, filepath.Join(dir, "Person.elm"), fx.want)
	_, stderr, code = run(t, args...)
	assert.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stderr, "Person.elm is up to date")

	writeFile(t, filepath.Join(dir, "Person.elm"), strings.Replace(fx.want, "age : Int", "age : String", 1))
	_, stderr, code = run(t, args...)
	assert.Equal(t, ExitDrift, code)
	assert.Contains(t, stderr, "-    { age : String\n")
	assert.Contains(t, stderr, "+    { age : Int\n")
	assert.Contains(t, stderr, "run elmgen generate to update it")
}

func TestGenerateCheckNeedsOutput(t *testing.T) {
	fx := loadFixture(t, "person")
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "types.rs"), fx.input)

	_, stderr, code := run(t, "generate", "-i", "types.rs", "-m", "Person", "--check")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "--check needs an output file")
}

func TestGenerateParseErrorShowsExcerpt(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "types.rs"), "struct Person {\n    age: u32\n    name: String,\n}\n")

	_, stderr, code := run(t, "generate", "-i", "types.rs", "-m", "Person")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "types.rs:3:5")
	assert.Contains(t, stderr, "   3 |     name: String,\n")
	assert.Contains(t, stderr, "^")
}

func TestGenerateFailureWritesNothing(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "types.rs"), `
struct Person { age: u32 }
impl ElmExport for Person {}
impl ElmExport for Missing {}
`)
	writeFile(t, filepath.Join(dir, "Person.elm"), "previous\n")

	_, stderr, code := run(t, "generate", "-i", "types.rs", "-o", "Person.elm", "-m", "Person")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "Missing")
	assert.Equal(t, "previous\n", readFile(t, filepath.Join(dir, "Person.elm")))
}

func TestGenerateUnsupportedType(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "maybe.rs"), `
struct Maybe { value: Option<u32> }
impl ElmExport for Maybe {}
`)

	_, stderr, code := run(t, "generate", "-i", "maybe.rs", "-m", "Maybe")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "Option<u32>")
}

func TestGenerateStrict(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "types.rs"), `
struct Outer { inner: Inner }
struct Inner { x: u8 }
impl ElmExport for Outer {}
`)

	_, stderr, code := run(t, "generate", "-i", "types.rs", "-m", "Api")
	assert.Equal(t, ExitOK, code, stderr)

	_, stderr, code = run(t, "generate", "-i", "types.rs", "-m", "Api", "--strict")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "Outer -> Inner")
}

func TestGenerateCustomMarker(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "types.rs"), `
struct A { x: u8 }
impl ToElm for A {}
`)

	stdout, _, code := run(t, "generate", "-i", "types.rs", "-m", "Api", "--marker", "ToElm")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "type alias A =")

	stdout, _, code = run(t, "generate", "-i", "types.rs", "-m", "Api")
	require.Equal(t, ExitOK, code)
	assert.NotContains(t, stdout, "type alias A =")
}

func TestGenerateValidation(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "types.rs"), "")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"generate", "-i", "types.rs"}, "module name is required"},
		{[]string{"generate", "-i", "types.rs", "-m", "lower"}, "not a valid Elm module name"},
		{[]string{"generate", "-m", "Api"}, "input is required"},
		{[]string{"generate", "-i", "types.rs", "-m", "Api", "--format", "xml"}, `format "xml"`},
		{[]string{"generate", "-i", "nope.rs", "-m", "Api"}, "failed to read nope.rs"},
	}
	for _, tt := range tests {
		_, stderr, code := run(t, tt.args...)
		assert.Equal(t, ExitFailure, code, tt.args)
		assert.Contains(t, stderr, tt.want, tt.args)
	}
}

// =============================================================================
// tree
// =============================================================================

func TestTreeRoundTrip(t *testing.T) {
	fx := loadFixture(t, "message")
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "types.rs"), fx.input)

	doc, stderr, code := run(t, "tree", "-i", "types.rs")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, doc, "enum:")
	assert.Contains(t, doc, "name: RemoteMessage")
	assert.Contains(t, doc, "trait: ElmExport")

	writeFile(t, filepath.Join(dir, "types.yaml"), doc)
	stdout, stderr, code := run(t, "generate", "-i", "types.yaml", "-m", fx.module)
	require.Equal(t, ExitOK, code, stderr)
	assert.Equal(t, fx.want, stdout, "tree documents generate the same module")
}

func TestTreeNeedsInput(t *testing.T) {
	workspace(t)
	_, stderr, code := run(t, "tree")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "input is required")
}

// =============================================================================
// init / config / version
// =============================================================================

func TestInit(t *testing.T) {
	dir := workspace(t)

	_, stderr, code := run(t, "init", "-m", "Api.Types", "-i", "src/types.rs", "-o", "elm/Api/Types.elm")
	require.Equal(t, ExitOK, code, stderr)

	cfg, err := am.LoadFromFile(filepath.Join(dir, am.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, "Api.Types", cfg.Module)
	assert.Equal(t, "src/types.rs", cfg.Input)
	assert.Equal(t, "elm/Api/Types.elm", cfg.Output)
	assert.Equal(t, am.DefaultMarker, cfg.Marker)

	_, stderr, code = run(t, "init", "-m", "Api.Other")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "already exists")

	_, stderr, code = run(t, "init", "-m", "Api.Other", "--force")
	require.Equal(t, ExitOK, code, stderr)
	assert.FileExists(t, filepath.Join(dir, am.ConfigFileName+".back1"))
}

func TestInitCustomPath(t *testing.T) {
	dir := workspace(t)

	_, stderr, code := run(t, "--config", "conf/elmgen.toml", "init", "-m", "Api")
	require.Equal(t, ExitOK, code, stderr)
	assert.FileExists(t, filepath.Join(dir, "conf", "elmgen.toml"))
}

func TestInitRejectsBadModule(t *testing.T) {
	dir := workspace(t)

	_, stderr, code := run(t, "init", "-m", "api.types")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "not a valid Elm module name")
	assert.NoFileExists(t, filepath.Join(dir, am.ConfigFileName))
}

func TestConfigShow(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, am.ConfigFileName), `module = "Api"`)

	stdout, stderr, code := run(t, "config", "show", "--format", "json")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, `"Module": "Api"`)

	stdout, _, code = run(t, "config", "show")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "module = 'Api'")

	_, stderr, code = run(t, "config", "show", "--format", "ini")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "unsupported format")
}

func TestConfigWhere(t *testing.T) {
	dir := workspace(t)
	path := filepath.Join(dir, am.ConfigFileName)
	writeFile(t, path, `module = "Api"`)

	stdout, stderr, code := run(t, "config", "where")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "[PROJECT]      "+path)
	assert.Contains(t, stdout, "project")
	assert.Contains(t, stdout, "default")
}

func TestConfigValidate(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, am.ConfigFileName), "module = \"Api\"\ninput = \"types.rs\"\n")

	_, stderr, code := run(t, "config", "validate")
	assert.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stderr, "Configuration is valid")

	writeFile(t, filepath.Join(dir, am.ConfigFileName), "module = \"api\"\n")
	_, stderr, code = run(t, "config", "validate")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "configuration validation failed")
}

func TestVersion(t *testing.T) {
	workspace(t)

	stdout, _, code := run(t, "version")
	require.Equal(t, ExitOK, code)
	assert.True(t, strings.HasPrefix(stdout, "elmgen "))

	stdout, _, code = run(t, "version", "--json")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, `"go_version"`)
}

func TestVerboseLogging(t *testing.T) {
	fx := loadFixture(t, "person")
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "types.rs"), fx.input)

	_, stderr, code := run(t, "-vv", "generate", "-i", "types.rs", "-m", "Person")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stderr, "Generated module")

	_, stderr, code = run(t, "generate", "-i", "types.rs", "-m", "Person", "--json-logs", "-v")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stderr, `"msg":"Generated module"`)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitDrift, ExitCode(errors.Wrap(errors.ErrDrift, "Api.elm")))
	assert.Equal(t, ExitFailure, ExitCode(errors.ErrParse))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
}
