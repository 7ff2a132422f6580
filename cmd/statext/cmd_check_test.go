package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckCommand_ValidJob(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ref.csv"),
		[]byte("date,amount\n2024-01-05,-4.50\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "statement.pdf"),
		[]byte("%PDF-1.4"), 0o644))

	job := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(job,
		[]byte("name: ok\ndocument: statement.pdf\nreference: ref.csv\n"), 0o644))

	cmd := newRootCommand()
	cmd.SetArgs([]string{"check", job})
	require.NoError(t, cmd.Execute())
}

func TestCheckCommand_ReportsProblems(t *testing.T) {
	dir := t.TempDir()

	// Reference exists but has no rows; document is missing entirely.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ref.csv"),
		[]byte("date,amount\n"), 0o644))

	job := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(job,
		[]byte("name: broken\ndocument: missing.pdf\nreference: ref.csv\n"), 0o644))

	cmd := newRootCommand()
	cmd.SetArgs([]string{"check", job})
	require.Error(t, cmd.Execute())
}

func TestCheckCommand_SchemaViolation(t *testing.T) {
	dir := t.TempDir()

	job := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(job, []byte("name: incomplete\n"), 0o644))

	cmd := newRootCommand()
	cmd.SetArgs([]string{"check", job})
	require.Error(t, cmd.Execute())
}

func TestCheckJob_Problems(t *testing.T) {
	dir := t.TempDir()

	job := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(job,
		[]byte("name: x\ndocument: a.pdf\nreference: r.csv\n"), 0o644))

	problems := checkJob(job)
	require.NotEmpty(t, problems)
}
