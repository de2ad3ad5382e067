package main

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "leadexporter/internal/errors"
	"leadexporter/internal/shared/testutil"
	"leadexporter/pkg/contracts"
)

func quietEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LEADS_LOG_LEVEL", "error")
	t.Setenv("LEADS_LOG_OUTPUT", "console")
	t.Setenv("LEADS_TELEMETRY_TRACE_EXPORTER", "none")
	t.Setenv("LEADS_TELEMETRY_METRIC_EXPORTER", "none")
	t.Setenv("LEADS_CONFIG_FILE", "")
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	_, err := executeWithOutput(t, args...)
	return err
}

func executeWithOutput(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_WritesSponsorWorkbooks(t *testing.T) {
	quietEnv(t)
	dir := t.TempDir()
	input := testutil.WriteWorkbook(t, dir, "leads.xlsx", "", testutil.LeadHeader, testutil.SampleLeadRows())
	outDir := filepath.Join(dir, "exports")

	require.NoError(t, execute(t, input, "--output-dir", outDir))

	assert.FileExists(t, filepath.Join(outDir, "One_devbcn-25-leads.xlsx"))
	assert.FileExists(t, filepath.Join(outDir, "Two_devbcn-25-leads.xlsx"))
}

func TestRootCmd_ShortOutputFlag(t *testing.T) {
	quietEnv(t)
	dir := t.TempDir()
	input := testutil.WriteWorkbook(t, dir, "leads.xlsx", "", testutil.LeadHeader, testutil.SampleLeadRows())
	outDir := filepath.Join(dir, "short")

	require.NoError(t, execute(t, input, "-o", outDir))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRootCmd_DefaultOutputDir(t *testing.T) {
	quietEnv(t)
	dir := t.TempDir()
	input := testutil.WriteWorkbook(t, dir, "leads.xlsx", "", testutil.LeadHeader, testutil.SampleLeadRows())
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, execute(t, input))
	assert.FileExists(t, filepath.Join(dir, "output", "One_devbcn-25-leads.xlsx"))
}

func TestRootCmd_Errors(t *testing.T) {
	quietEnv(t)
	dir := t.TempDir()

	t.Run("no arguments", func(t *testing.T) {
		assert.Error(t, execute(t))
	})

	t.Run("too many arguments", func(t *testing.T) {
		assert.Error(t, execute(t, "a.xlsx", "b.xlsx"))
	})

	t.Run("missing input", func(t *testing.T) {
		err := execute(t, filepath.Join(dir, "absent.xlsx"), "-o", filepath.Join(dir, "out"))
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrTypeLoad, apperrors.KindOf(err))
	})

	t.Run("invalid logging config", func(t *testing.T) {
		t.Setenv("LEADS_LOG_FORMAT", "xml")
		input := testutil.WriteWorkbook(t, dir, "leads.xlsx", "", testutil.LeadHeader, testutil.SampleLeadRows())

		err := execute(t, input, "-o", filepath.Join(dir, "never"))
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrTypeConfig, apperrors.KindOf(err))
		assert.NoDirExists(t, filepath.Join(dir, "never"))
	})
}

func TestRootCmd_Version(t *testing.T) {
	out, err := executeWithOutput(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, contracts.GetVersionString())
}

func TestRootCmd_Help(t *testing.T) {
	out, err := executeWithOutput(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "--output-dir")
	assert.Contains(t, out, "-o")
}

func TestCloseLogFile(t *testing.T) {
	t.Run("close failure is logged", func(t *testing.T) {
		logger, logs := testutil.NewTestLogger(t)
		closeLogFile(logger, func() error { return errors.New("file already closed") })

		testutil.AssertLogContains(t, logs, slog.LevelWarn, "Failed to close log file")
		assert.True(t, logs.ContainsAttr("error", "file already closed"))
	})

	t.Run("clean close logs nothing", func(t *testing.T) {
		logger, logs := testutil.NewTestLogger(t)
		closed := false
		closeLogFile(logger, func() error {
			closed = true
			return nil
		})

		assert.True(t, closed)
		assert.Zero(t, logs.Count())
	})
}
