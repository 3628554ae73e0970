package typegen

import (
	"os"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/teranos/elmgen/errors"
)

// CheckResult holds the result of comparing generated output with the file
// on disk.
type CheckResult struct {
	UpToDate bool
	// Path is the file that was compared
	Path string
	// Missing is set when the file does not exist yet
	Missing bool
	// Diff is a line diff from the file on disk to the generated text,
	// empty when UpToDate
	Diff string
}

// number of unchanged lines shown around each change
const diffContext = 2

// CheckFile compares generated with the contents of path. Line endings are
// normalized before comparing, so a checkout with CRLF endings is not drift.
func CheckFile(path, generated string) (*CheckResult, error) {
	existing, err := os.ReadFile(path)
	missing := false
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		missing = true
	}

	want := normalizeLineEndings(generated)
	have := normalizeLineEndings(string(existing))
	if !missing && want == have {
		return &CheckResult{UpToDate: true, Path: path}, nil
	}
	return &CheckResult{Path: path, Missing: missing, Diff: LineDiff(have, want)}, nil
}

// Err returns errors.ErrDrift with the diff as detail, or nil when up to date.
func (r *CheckResult) Err() error {
	if r.UpToDate {
		return nil
	}
	err := errors.Wrapf(errors.ErrDrift, "%s", r.Path)
	if r.Missing {
		err = errors.Wrapf(errors.ErrDrift, "%s does not exist", r.Path)
	}
	return errors.WithHint(errors.WithDetail(err, r.Diff), "run elmgen generate to update it")
}

func normalizeLineEndings(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// LineDiff renders a line-oriented diff from one text to another: removed lines are
// prefixed with "-", added lines with "+", context lines with a space, and
// skipped unchanged runs with "...".
func LineDiff(from, to string) string {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	type line struct {
		op   diffpatch.Operation
		text string
	}
	var all []line
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			all = append(all, line{op: d.Type, text: text})
		}
	}

	// keep changed lines and diffContext lines around them
	keep := make([]bool, len(all))
	for i, l := range all {
		if l.op == diffpatch.DiffEqual {
			continue
		}
		for j := max(0, i-diffContext); j <= min(len(all)-1, i+diffContext); j++ {
			keep[j] = true
		}
	}

	var sb strings.Builder
	skipped := false
	for i, l := range all {
		if !keep[i] {
			skipped = true
			continue
		}
		if skipped {
			sb.WriteString("...\n")
			skipped = false
		}
		switch l.op {
		case diffpatch.DiffDelete:
			sb.WriteString("-")
		case diffpatch.DiffInsert:
			sb.WriteString("+")
		default:
			sb.WriteString(" ")
		}
		sb.WriteString(l.text)
		sb.WriteString("\n")
	}
	if skipped && sb.Len() > 0 {
		sb.WriteString("...\n")
	}
	return sb.String()
}

// splitLines splits text into lines without their terminators. A missing
// final newline does not produce an empty trailing line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
