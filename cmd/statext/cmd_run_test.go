package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func resetRunGlobals() {
	runVerbose = false
	runOutputDir = ""
	runTranscripts = ""
	runMaxAttempts = 0
	runWorkers = 1
	runInterpret = false
	runJUnitPath = ""
}

// requirePython skips tests that need a real interpreter.
func requirePython(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not found in PATH")
	}
}

const goodParser = `def parse(pdf_path):
    return {
        "date": ["2024-01-05", "2024-01-06"],
        "description": ["COFFEE SHOP", "PAYROLL"],
        "amount": [-4.5, 2500.0],
    }
`

const badParser = `def parse(pdf_path):
    return {
        "date": ["2024-01-05", "2024-01-06"],
        "description": ["COFFEE SHOP", "PAYROLL"],
        "amount": [-4.5, 9999.0],
    }
`

// writeRunFixture lays out a job spec, reference CSV, dummy document, and a
// static routine in one directory.
func writeRunFixture(t *testing.T, parser string) string {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ref.csv"), []byte(
		"date,description,amount\n"+
			"2024-01-05,COFFEE SHOP,-4.50\n"+
			"2024-01-06,PAYROLL,2500.00\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "statement.pdf"), []byte("%PDF-1.4"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "parser.py"), []byte(parser), 0o644))

	job := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(job, []byte(
		"name: fixture\n"+
			"document: statement.pdf\n"+
			"reference: ref.csv\n"+
			"config:\n"+
			"  max_attempts: 2\n"+
			"generator:\n"+
			"  backend: static\n"+
			"  source_file: parser.py\n"), 0o644))

	return job
}

func TestRunCommand_MissingSpec(t *testing.T) {
	resetRunGlobals()

	cmd := newRootCommand()
	cmd.SetArgs([]string{"run", filepath.Join(t.TempDir(), "nope.yaml")})
	err := cmd.Execute()
	require.Error(t, err)

	var exhausted *ExhaustedError
	require.False(t, errors.As(err, &exhausted))
}

func TestRunCommand_StaticRoutineSucceeds(t *testing.T) {
	requirePython(t)
	resetRunGlobals()

	job := writeRunFixture(t, goodParser)
	outDir := filepath.Join(t.TempDir(), "out")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"run", job, "--output", outDir})
	require.NoError(t, cmd.Execute())

	// Result JSON and the winning routine are persisted.
	_, err := os.Stat(filepath.Join(outDir, "fixture-result.json"))
	require.NoError(t, err)
	src, err := os.ReadFile(filepath.Join(outDir, "fixture-parser.py"))
	require.NoError(t, err)
	require.Equal(t, goodParser, string(src))
}

func TestRunCommand_StaticRoutineExhausts(t *testing.T) {
	requirePython(t)
	resetRunGlobals()

	job := writeRunFixture(t, badParser)
	transcripts := filepath.Join(t.TempDir(), "transcripts")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"run", job, "--transcript-dir", transcripts})
	err := cmd.Execute()
	require.Error(t, err)

	var exhausted *ExhaustedError
	require.True(t, errors.As(err, &exhausted))

	// The transcript was written alongside the failure.
	entries, err := os.ReadDir(transcripts)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
