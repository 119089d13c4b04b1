package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/spboyer/mfbench"
)

func TestSampleCommand_DeterministicInSeed(t *testing.T) {
	run := func() string {
		cmd := newSampleCommand()
		var output bytes.Buffer
		cmd.SetOut(&output)
		cmd.SetArgs([]string{"mfh3_good", "--seed", "7", "-n", "3"})
		require.NoError(t, cmd.Execute())
		return output.String()
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)

	lines := strings.Split(strings.TrimSpace(first), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.Contains(t, line, "x0=")
		assert.Contains(t, line, "x1=")
		assert.Contains(t, line, "x2=")
	}
}

func TestSampleCommand_SeedChangesDraws(t *testing.T) {
	run := func(seed string) string {
		cmd := newSampleCommand()
		var output bytes.Buffer
		cmd.SetOut(&output)
		cmd.SetArgs([]string{"mfh3_good", "--seed", seed})
		require.NoError(t, cmd.Execute())
		return output.String()
	}

	assert.NotEqual(t, run("1"), run("2"))
}

func TestSampleCommand_JSON(t *testing.T) {
	cmd := newSampleCommand()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetArgs([]string{"mfh3_good", "-n", "2", "--format", "json"})

	require.NoError(t, cmd.Execute())

	var got []map[string]any
	require.NoError(t, json.Unmarshal(output.Bytes(), &got))
	require.Len(t, got, 2)
	for _, cfg := range got {
		for _, name := range []string{"x0", "x1", "x2"} {
			v, ok := cfg[name].(float64)
			require.True(t, ok, "expected %s to be a number", name)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestSampleCommand_YAML(t *testing.T) {
	cmd := newSampleCommand()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetArgs([]string{"mfh6_good", "--format", "yaml"})

	require.NoError(t, cmd.Execute())

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(output.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "x5")
}

func TestSampleCommand_TableBackedDrawsRecordedConfigs(t *testing.T) {
	dataDir := t.TempDir()
	writeSpaceDir(t, dataDir, "lm1b_transformer_2048", true)

	cmd := newSampleCommand()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetArgs([]string{"lm1b_transformer_2048", "--data-dir", dataDir})

	require.NoError(t, cmd.Execute())

	// The fixture table records a single configuration.
	assert.Equal(t, "depth=2,lr=0.1\n", output.String())
}

func TestSampleCommand_UnknownBenchmark(t *testing.T) {
	cmd := newSampleCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"no-such-benchmark"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, mfbench.ErrNotFound)
}

func TestSampleCommand_BenchmarkFromProjectConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".mfbench.yaml"),
		[]byte("benchmark: mfh3_good\n"), 0o644))
	chdir(t, dir)

	cmd := newSampleCommand()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, output.String(), "x0=")
}

func TestSampleCommand_NoBenchmarkAnywhere(t *testing.T) {
	chdir(t, t.TempDir())

	cmd := newSampleCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no benchmark named")
}

func TestSampleCommand_CountFromProjectConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".mfbench.yaml"),
		[]byte("benchmark: mfh3_good\ndefaults:\n  samples: 4\n"), 0o644))
	chdir(t, dir)

	cmd := newSampleCommand()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Len(t, strings.Split(strings.TrimSpace(output.String()), "\n"), 4)
}

// chdir switches the working directory for one test. Project config
// discovery walks up from the working directory, so tests that
// exercise the fallback pin it to a temp dir.
func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(origDir) //nolint:errcheck // best-effort cleanup
	})
}
