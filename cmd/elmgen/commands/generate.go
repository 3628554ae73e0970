package commands

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/elmgen/am"
	"github.com/teranos/elmgen/errors"
	"github.com/teranos/elmgen/logger"
	"github.com/teranos/elmgen/syntax"
	"github.com/teranos/elmgen/syntax/rustsrc"
	"github.com/teranos/elmgen/syntax/tree"
	"github.com/teranos/elmgen/typegen"
	"github.com/teranos/elmgen/typegen/elm"
)

// GenerateCmd writes the Elm module for one input file
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an Elm module from a Rust source file",
	Long: `Generate an Elm module from the exported declarations of a Rust file.

Every "impl ElmExport for Name {}" marks Name for export. Exported structs
become Elm records, exported enums become Elm custom types, each with an
encoder and a decoder. Nothing is written unless generation succeeds.

Input may also be a tree document (YAML or JSON, see "elmgen tree"),
selected with --format tree or by a .yaml/.yml/.json extension.

With --check the module is compared with the existing output file instead
of written; a stale or missing file prints a diff and exits with status 1.

Examples:
  elmgen generate -i src/types.rs -o elm/Api/Types.elm -m Api.Types
  elmgen generate -i src/types.rs -m Api.Types          # to stdout
  elmgen generate --strict                              # settings from elmgen.toml
  elmgen generate --check`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

var generateBindings = []binding{
	{"input", "input"},
	{"output", "output"},
	{"module", "module"},
	{"format", "format"},
	{"marker", "marker"},
	{"strict", "strict"},
}

func init() {
	addGenerateFlags(GenerateCmd)
	GenerateCmd.Flags().Bool("check", false, "Compare with the output file instead of writing it")
}

// addGenerateFlags registers the flags shared by generate and watch
func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "Rust source file or tree document")
	cmd.Flags().StringP("output", "o", "", `Elm file to write ("-" or empty for stdout)`)
	cmd.Flags().StringP("module", "m", "", "Elm module name, e.g. Api.Types")
	cmd.Flags().String("format", "", "Input format: rust or tree (default: from extension)")
	cmd.Flags().String("marker", am.DefaultMarker, "Trait whose impls mark exports")
	cmd.Flags().Bool("strict", false, "Fail when an export references an unexported type")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, generateBindings...)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	check, _ := cmd.Flags().GetBool("check")
	if check && cfg.WritesStdout() {
		return errors.WithHint(
			errors.Wrap(errors.ErrInvalidConfig, "--check needs an output file"),
			"pass -o <file> or set output in elmgen.toml",
		)
	}

	out, result, err := generate(cfg)
	if err != nil {
		return err
	}
	status := pterm.Success.WithWriter(cmd.ErrOrStderr())

	if check {
		res, err := typegen.CheckFile(cfg.Output, out)
		if err != nil {
			return err
		}
		if err := res.Err(); err != nil {
			return err
		}
		status.Printfln("%s is up to date", cfg.Output)
		return nil
	}

	if cfg.WritesStdout() {
		_, err := io.WriteString(cmd.OutOrStdout(), out)
		return err
	}

	if err := writeAtomic(cfg.Output, []byte(out)); err != nil {
		return err
	}
	status.Printfln("Generated %s (%d records, %d unions)", cfg.Output,
		len(result.Exports.Records), len(result.Exports.Unions))
	return nil
}

// generate runs the whole pipeline for cfg and returns the module text
func generate(cfg *am.Config) (string, *typegen.Result, error) {
	start := time.Now()
	log := logger.ComponentLogger("cli.generate")

	file, err := readSource(cfg.Input, cfg.InputFormat())
	if err != nil {
		return "", nil, err
	}

	result, err := typegen.Build(file, typegen.Options{
		Module: cfg.Module,
		Marker: cfg.Marker,
		Strict: cfg.Strict,
	})
	if err != nil {
		return "", nil, err
	}

	out := elm.NewGenerator().GenerateFile(result)
	log.Infow("Generated module",
		logger.FieldFile, cfg.Input,
		logger.FieldModule, cfg.Module,
		logger.FieldRecords, len(result.Exports.Records),
		logger.FieldUnions, len(result.Exports.Unions),
		logger.FieldBytes, len(out),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return out, result, nil
}

// readSource reads path as Rust source or as a tree document. Rust parse
// errors carry the offending line with a caret as error detail.
func readSource(path, format string) (*syntax.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithHint(errors.Wrapf(err, "failed to read %s", path), "check --input")
	}

	if format == am.FormatTree {
		return tree.Decode(path, data)
	}

	file, err := rustsrc.ParseFile(path, string(data))
	if err != nil {
		var perr *rustsrc.Error
		if errors.As(err, &perr) {
			// the excerpt repeats the message on its first line
			if _, body, ok := strings.Cut(perr.Excerpt(string(data), colorOutput), "\n"); ok {
				return nil, errors.WithDetail(err, body)
			}
		}
		return nil, err
	}
	return file, nil
}

// writeAtomic replaces path with data via a temp file in the same directory,
// so readers never see a half-written module.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, am.DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file in %s", dir)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write %s", tmp.Name())
	}
	if err := tmp.Chmod(am.DefaultFilePermissions); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to chmod %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
