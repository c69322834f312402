package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Harshitk-cp/keml-analysis/internal/domain"
	"github.com/Harshitk-cp/keml-analysis/internal/postprocess"
	"github.com/Harshitk-cp/keml-analysis/internal/service"
)

const tripFile = "../../internal/loader/testdata/conversation.json"

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}

// execute runs the root command with a clean environment and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("KEML_ENV", filepath.Join(t.TempDir(), "none.env"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ANALYSIS_OUTPUT_DIR", "")
	t.Setenv("POSTPROCESS_COMMAND", "")
	for _, c := range rootCmd.Commands() {
		resetFlags(c)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"analyze", "trust", "runs", "version"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestAnalyzeCommand_Flags(t *testing.T) {
	for _, name := range []string{"min-weight", "max-weight", "author", "distinguished", "record"} {
		assert.NotNil(t, analyzeCmd.Flags().Lookup(name), "analyze should have --%s flag", name)
	}
	assert.Equal(t, "2", analyzeCmd.Flags().Lookup("min-weight").DefValue)
	assert.Equal(t, "10", analyzeCmd.Flags().Lookup("max-weight").DefValue)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "keml "))
}

func TestTrustCommand(t *testing.T) {
	out, err := execute(t, "trust", tripFile, "--all", "1", "--partner", "Friend=0.5")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "TimeStamp\tMessage\tInitialTrust\tCurrentTrust", lines[0])
	assert.True(t, strings.HasPrefix(lines[5], "4\tFlights were expensive\t0.50\t"))
}

func TestTrustCommand_MissingPartner(t *testing.T) {
	_, err := execute(t, "trust", tripFile, "--partner", "LLM=1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Friend")
}

func TestParsePartnerTrust(t *testing.T) {
	got, err := parsePartnerTrust([]string{"LLM=0.5", " Friend = -1 "})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"LLM": 0.5, "Friend": -1}, got)

	_, err = parsePartnerTrust([]string{"LLM"})
	assert.Error(t, err)
	_, err = parsePartnerTrust([]string{"=1"})
	assert.Error(t, err)
	_, err = parsePartnerTrust([]string{"LLM=high"})
	assert.Error(t, err)
	_, err = parsePartnerTrust([]string{"LLM=NaN"})
	assert.ErrorIs(t, err, service.ErrInvalidTrust)
}

func setupFolder(t *testing.T) string {
	t.Helper()
	folder := t.TempDir()
	in := filepath.Join(folder, inputDirName)
	require.NoError(t, os.MkdirAll(in, 0o755))

	data, err := os.ReadFile(tripFile)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(in, "trip.json"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.json"), []byte(`{"partners":["Author"]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("ignored"), 0o644))
	return folder
}

func TestAnalyzeCommand_ContinuesAfterFailure(t *testing.T) {
	folder := setupFolder(t)

	out, err := execute(t, "analyze", folder, "--max-weight", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 conversations failed: broken.json")

	dir := filepath.Join(folder, "analysis", "trip")
	assert.Contains(t, out, dir)
	assert.FileExists(t, filepath.Join(dir, "trip-general.csv"))
	assert.FileExists(t, filepath.Join(dir, "trip-w3-trust.xlsx"))
	assert.NoFileExists(t, filepath.Join(dir, "trip-w4-trust.xlsx"))
}

func TestAnalyzeJob_RunsHook(t *testing.T) {
	if _, err := exec.LookPath("touch"); err != nil {
		t.Skip("touch not available")
	}
	folder := setupFolder(t)
	require.NoError(t, os.Remove(filepath.Join(folder, inputDirName, "broken.json")))
	marker := filepath.Join(t.TempDir(), "hooked")

	opts := service.DefaultSweepOptions()
	opts.MaxWeight = opts.MinWeight
	job := analyzeJob{
		inputDir:  filepath.Join(folder, inputDirName),
		outputDir: filepath.Join(folder, "out"),
		opts:      opts,
		hook:      postprocess.NewHook("touch "+marker, zap.NewNop()),
		logger:    zap.NewNop(),
	}

	done, err := job.run(context.Background())
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.FileExists(t, marker)
}

func TestAnalyzeJob_EmptyFolder(t *testing.T) {
	folder := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(folder, inputDirName), 0o755))

	job := analyzeJob{
		inputDir: filepath.Join(folder, inputDirName),
		opts:     service.DefaultSweepOptions(),
		hook:     postprocess.NewHook("", nil),
		logger:   zap.NewNop(),
	}
	_, err := job.run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conversation files")
}

func TestOutputDir(t *testing.T) {
	assert.Equal(t, filepath.Join("base", "analysis"), outputDir("base", "analysis"))
	assert.Equal(t, "/abs/out", outputDir("base", "/abs/out"))
}

func TestPrintRuns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRuns(&buf, nil))
	assert.Equal(t, "No runs found.\n", buf.String())

	buf.Reset()
	id := uuid.New()
	require.NoError(t, printRuns(&buf, []domain.AnalysisRun{{
		ID: id, Title: "trip", InformationCount: 5, ArgumentCount: 5,
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}}))
	assert.Contains(t, buf.String(), id.String())
	assert.Contains(t, buf.String(), "2026-03-01T00:00:00Z")
}

func TestRunsCommand_RequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := execute(t, "runs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
}
