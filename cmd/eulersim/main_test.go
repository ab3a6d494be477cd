package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestDefaultRun(t *testing.T) {
	code, out, stderr := execute(t)
	require.Equal(t, exitOK, code, stderr)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "y(0) = 1", lines[0])
	assert.Equal(t, "y(0.01) = 0.98", lines[1])
	assert.Empty(t, stderr)
}

func TestPrintFlag(t *testing.T) {
	code, out, _ := execute(t, "--steps", "0")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "y(0) = 1\n", out)

	code, out, _ = execute(t, "--print", "3", "--y0", "2")
	require.Equal(t, exitOK, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "y(0) = 2", lines[0])
}

func TestInvalidParameterExitCode(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero step", []string{"--h", "0"}},
		{"negative step", []string{"--h", "-0.5"}},
		{"negative steps", []string{"--steps", "-1"}},
		{"malformed float", []string{"--h", "abc"}},
		{"unknown flag", []string{"--bogus"}},
		{"unknown equation", []string{"--equation", "nope"}},
		{"unknown method", []string{"--method", "leapfrog"}},
		{"unknown preset", []string{"--preset", "nope"}},
		{"missing config", []string{"--config", "/nonexistent/eulersim.yaml"}},
		{"extra argument", []string{"decay"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, stderr := execute(t, tt.args...)
			assert.Equal(t, exitInvalidParameter, code)
			assert.Empty(t, out)
			assert.True(t, strings.HasPrefix(stderr, "InvalidParameter:"), "stderr: %q", stderr)
		})
	}
}

func TestNumericalErrorExitCode(t *testing.T) {
	code, out, stderr := execute(t, "--equation", "riccati", "--steps", "2000")
	assert.Equal(t, exitNumerical, code)
	assert.Empty(t, out)
	assert.True(t, strings.HasPrefix(stderr, "NumericalError:"), "stderr: %q", stderr)
	assert.Contains(t, stderr, "step ")
}

func TestPresetAndConfigLayering(t *testing.T) {
	code, out, _ := execute(t, "--preset", "coarse", "--print", "2")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "y(0) = 1\ny(0.1) = 0.8\n", out)

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("y0: 4\nprint: 1\n"), 0644))

	code, out, _ = execute(t, "--config", path)
	require.Equal(t, exitOK, code)
	assert.Equal(t, "y(0) = 4\n", out)

	// explicit flags win over the file
	code, out, _ = execute(t, "--config", path, "--y0", "3")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "y(0) = 3\n", out)
}

func TestExplicitZeroRate(t *testing.T) {
	code, out, _ := execute(t, "--rate", "0", "--print", "2")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "y(0) = 1\ny(0.01) = 1\n", out)

	code, out, _ = execute(t, "--rate", "1", "--print", "2")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "y(0) = 1\ny(0.01) = 0.99\n", out)
}

func TestSaveListExport(t *testing.T) {
	dir := t.TempDir()

	code, _, stderr := execute(t, "--data", dir, "--save", "--steps", "20")
	require.Equal(t, exitOK, code, stderr)
	require.Contains(t, stderr, "saved run ")
	id := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(stderr), "saved run "))
	require.True(t, strings.HasPrefix(id, "decay_"), id)

	code, out, _ := execute(t, "list", "--data", dir)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "euler")

	code, out, _ = execute(t, "export-csv", id, "--data", dir)
	require.Equal(t, exitOK, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 22)
	assert.Equal(t, "t,y", lines[0])
	assert.Equal(t, "0,1", lines[1])

	code, out, _ = execute(t, "export-json", id, "--data", dir)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, `"equation": "decay"`)

	code, out, _ = execute(t, "export-svg", id, "--data", dir, "--width", "100", "--height", "50")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, `width="100" height="50"`)

	code, out, _ = execute(t, "plot", id, "--data", dir)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "samples: 21")

	code, _, stderr = execute(t, "plot", "../escape", "--data", dir)
	assert.Equal(t, exitInvalidParameter, code, stderr)
}

func TestSaveWhenExactSolutionOverflows(t *testing.T) {
	dir := t.TempDir()

	// exp(710) overflows; the Euler value at t=710 is still finite
	code, out, stderr := execute(t, "--data", dir, "--save", "--equation", "growth", "--steps", "71000", "--print", "1")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "y(0) = 1\n", out)
	require.Contains(t, stderr, "saved run growth_")

	code, out, _ = execute(t, "list", "--data", dir)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "growth_")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	meta, err := os.ReadFile(filepath.Join(dir, entries[0].Name(), "metadata.json"))
	require.NoError(t, err)
	assert.Contains(t, string(meta), `"non_finite"`)
}

func TestListEmpty(t *testing.T) {
	code, out, _ := execute(t, "list", "--data", filepath.Join(t.TempDir(), "none"))
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "no runs found")
}

func TestCompare(t *testing.T) {
	code, out, stderr := execute(t, "compare", "--steps", "100")
	require.Equal(t, exitOK, code, stderr)
	for _, m := range []string{"euler", "heun", "rk4"} {
		assert.Contains(t, out, m)
	}

	code, _, _ = execute(t, "compare", "leapfrog")
	assert.Equal(t, exitInvalidParameter, code)
}

func TestConverge(t *testing.T) {
	code, out, stderr := execute(t, "converge", "--levels", "4", "--h", "0.1", "--steps", "10")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, out, "fitted order")

	code, _, _ = execute(t, "converge", "--equation", "riccati")
	assert.Equal(t, exitInvalidParameter, code)

	code, _, _ = execute(t, "converge", "--levels", "1")
	assert.Equal(t, exitInvalidParameter, code)
}

func TestCatalogCommands(t *testing.T) {
	code, out, _ := execute(t, "equations")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "decay")
	assert.Contains(t, out, "riccati")

	code, out, _ = execute(t, "presets", "stiff")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "explicit_limit")
	assert.NotContains(t, out, "coffee")

	code, _, _ = execute(t, "presets", "nope")
	assert.Equal(t, exitInvalidParameter, code)
}

func TestDownsample(t *testing.T) {
	ys := make([]float64, 101)
	for i := range ys {
		ys[i] = float64(i)
	}
	got := downsample(ys, 11)
	require.Len(t, got, 11)
	assert.Equal(t, 0.0, got[0])
	assert.Equal(t, 100.0, got[10])
	assert.Len(t, downsample(ys[:5], 11), 5)
}
