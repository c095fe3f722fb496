package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kbmatrix/pkg/buildinfo"
	"github.com/matzehuels/kbmatrix/pkg/errors"
)

const sampleDump = `{"row":1,"col":0,"state":{"x":3,"y":4}} {"row":0,"col":0,"state":{}}`

type testCLI struct {
	*CLI
	out, errOut, logs *bytes.Buffer
}

func newTestCLI() *testCLI {
	tc := &testCLI{out: &bytes.Buffer{}, errOut: &bytes.Buffer{}, logs: &bytes.Buffer{}}
	tc.CLI = New(tc.logs, log.InfoLevel)
	tc.Out = tc.out
	tc.ErrOut = tc.errOut
	return tc
}

func (tc *testCLI) execute(args ...string) error {
	root := tc.RootCommand()
	root.SetArgs(args)
	root.SetOut(tc.out)
	root.SetErr(tc.errOut)
	return root.ExecuteContext(context.Background())
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "dump.json", sampleDump)
	out := filepath.Join(dir, "keys.jsonl")

	tc := newTestCLI()
	if err := tc.execute("convert", in, "-o", out); err != nil {
		t.Fatalf("convert: %v", err)
	}

	want := "{\"matrix\":[1,0],\"x\":3,\"y\":4,\"r\":0,\"rx\":0,\"ry\":0}\n" +
		"{\"matrix\":[0,0],\"x\":0,\"y\":0,\"r\":0,\"rx\":0,\"ry\":0}\n"
	if got := readFile(t, out); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	summary := tc.out.String()
	for _, s := range []string{"Wrote 2 records to " + out, "kbmatrix sort " + out} {
		if !strings.Contains(summary, s) {
			t.Errorf("summary missing %q:\n%s", s, summary)
		}
	}
	if !strings.Contains(tc.logs.String(), "Found top-level objects") {
		t.Errorf("logs missing object count:\n%s", tc.logs.String())
	}
}

func TestConvertCommandDefaults(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "data.json", sampleDump)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	tc := newTestCLI()
	if err := tc.execute("convert"); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "output.jsonl")); err != nil {
		t.Errorf("default output not written: %v", err)
	}
}

func TestConvertCommandStdout(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "dump.json", `{"row":"A","col":"<b>"}`)

	tc := newTestCLI()
	if err := tc.execute("convert", in, "-o", "-"); err != nil {
		t.Fatalf("convert: %v", err)
	}

	want := "{\"matrix\":[\"A\",\"<b>\"],\"x\":0,\"y\":0,\"r\":0,\"rx\":0,\"ry\":0}\n"
	if tc.out.String() != want {
		t.Errorf("stdout = %q, want only the record %q", tc.out.String(), want)
	}
	if !strings.Contains(tc.errOut.String(), "Wrote 1 records to stdout") {
		t.Errorf("summary should go to stderr, got %q", tc.errOut.String())
	}
}

func TestConvertCommandSkips(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "dump.json", `{"row":0,"col":0} {"row":1} {"row":2,"col":"x",}} {"oops": }`)
	out := filepath.Join(dir, "keys.jsonl")

	tc := newTestCLI()
	if err := tc.execute("convert", in, "-o", out); err != nil {
		t.Fatalf("convert: %v", err)
	}

	summary := tc.out.String()
	for _, s := range []string{"Wrote 2 records", "2 skipped", "MISSING_REQUIRED_FIELD", "OBJECT_PARSE_FAILURE"} {
		if !strings.Contains(summary, s) {
			t.Errorf("summary missing %q:\n%s", s, summary)
		}
	}
	if !strings.Contains(tc.logs.String(), "JSON parse failed") {
		t.Errorf("logs missing parse warning:\n%s", tc.logs.String())
	}
}

func TestConvertCommandFailures(t *testing.T) {
	dir := t.TempDir()
	empty := writeInput(t, dir, "empty.json", "nothing here")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing input", []string{"convert", filepath.Join(dir, "nope.json"), "-o", filepath.Join(dir, "a.jsonl")}, errors.ErrCodeMissingInputFile},
		{"no objects", []string{"convert", empty, "-o", filepath.Join(dir, "b.jsonl")}, errors.ErrCodeNoObjectsFound},
		{"bad config", []string{"convert", "-c", filepath.Join(dir, "nope.toml")}, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestCLI().execute(tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSortCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "keys.jsonl", "{\"matrix\":[1,0],\"x\":1}\n{\"matrix\":[0,0],\"x\":2}\n")
	out := filepath.Join(dir, "sorted.jsonl")

	tc := newTestCLI()
	if err := tc.execute("sort", in, "-o", out); err != nil {
		t.Fatalf("sort: %v", err)
	}

	want := "{\"matrix\":[0,0],\"x\":2}\n{\"matrix\":[1,0],\"x\":1}\n"
	if got := readFile(t, out); got != want {
		t.Errorf("sorted = %q, want %q", got, want)
	}
	if !strings.Contains(tc.out.String(), "Sorted 2 records to "+out) {
		t.Errorf("summary = %q", tc.out.String())
	}
}

func TestSortCommandFailure(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "keys.jsonl", "{\"matrix\":[0,0]}\n{broken\n")

	err := newTestCLI().execute("sort", in, "-o", filepath.Join(dir, "sorted.jsonl"))
	if !errors.Is(err, errors.ErrCodeSortParse) {
		t.Fatalf("error = %v, want %s", err, errors.ErrCodeSortParse)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q should name the line", err)
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "dump.json", sampleDump)
	converted := filepath.Join(dir, "out.jsonl")
	sorted := filepath.Join(dir, "sorted.jsonl")

	tc := newTestCLI()
	if err := tc.execute("run", in, "-o", converted, "--sorted", sorted); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := "{\"matrix\":[0,0],\"x\":0,\"y\":0,\"r\":0,\"rx\":0,\"ry\":0}\n" +
		"{\"matrix\":[1,0],\"x\":3,\"y\":4,\"r\":0,\"rx\":0,\"ry\":0}\n"
	if got := readFile(t, sorted); got != want {
		t.Errorf("sorted = %q, want %q", got, want)
	}
	if !strings.Contains(tc.out.String(), "Sorted 2 records") {
		t.Errorf("summary = %q", tc.out.String())
	}
}

func TestRunCommandStopsOnConvertFailure(t *testing.T) {
	dir := t.TempDir()
	sorted := filepath.Join(dir, "sorted.jsonl")

	err := newTestCLI().execute("run", filepath.Join(dir, "nope.json"), "-o", filepath.Join(dir, "out.jsonl"), "--sorted", sorted)
	if !errors.Is(err, errors.ErrCodeMissingInputFile) {
		t.Fatalf("error = %v, want %s", err, errors.ErrCodeMissingInputFile)
	}
	if _, err := os.Stat(sorted); !os.IsNotExist(err) {
		t.Error("sort should not run after a failed convert")
	}
}

func TestRunCommandRejectsStdoutIntermediate(t *testing.T) {
	err := newTestCLI().execute("run", "data.json", "-o", "-")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "layout.json", sampleDump)
	converted := filepath.Join(dir, "converted.jsonl")
	sorted := filepath.Join(dir, "final.jsonl")
	override := filepath.Join(dir, "override.jsonl")

	cfg := writeInput(t, dir, "kbmatrix.toml",
		"[convert]\ninput = "+quote(in)+"\noutput = "+quote(converted)+"\n\n[sort]\noutput = "+quote(sorted)+"\n")

	tc := newTestCLI()
	if err := tc.execute("run", "-c", cfg); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, p := range []string{converted, sorted} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("config path %s not written: %v", p, err)
		}
	}

	if err := newTestCLI().execute("convert", "-c", cfg, "-o", override); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if _, err := os.Stat(override); err != nil {
		t.Errorf("flag should override config: %v", err)
	}
}

func TestVerboseFlag(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "keys.jsonl", "{\"matrix\":[0,0]}\n")

	tc := newTestCLI()
	if err := tc.execute("sort", in, "-o", filepath.Join(dir, "s.jsonl"), "-v"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tc.logs.String(), "sort done") {
		t.Errorf("verbose logs missing debug output:\n%s", tc.logs.String())
	}
	if !strings.Contains(tc.logs.String(), buildinfo.String()) {
		t.Errorf("verbose logs missing build info:\n%s", tc.logs.String())
	}
}

func TestVersionFlag(t *testing.T) {
	tc := newTestCLI()
	if err := tc.execute("--version"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(tc.out.String(), "kbmatrix version ") {
		t.Errorf("version output = %q", tc.out.String())
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			tc := newTestCLI()
			if err := tc.execute("completion", shell); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(tc.out.String(), "kbmatrix") {
				t.Errorf("%s completion does not mention kbmatrix", shell)
			}
		})
	}

	if err := newTestCLI().execute("completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, errors.New(errors.ErrCodeNoObjectsFound, "no JSON objects found in x.json"))
	if !strings.Contains(buf.String(), "no JSON objects found in x.json [NO_OBJECTS_FOUND]") {
		t.Errorf("PrintError = %q", buf.String())
	}
}

func quote(s string) string {
	return "'" + s + "'"
}
