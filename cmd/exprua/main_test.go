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
)

func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEvalArgs(t *testing.T) {
	out, errOut, err := execute(t, "", "eval", "x = 2 m", "x * 3", "F = 5 kg * 9.8 m/s^2")
	require.NoError(t, err, errOut)
	assert.Equal(t, "2 m\n6 m\n49 N\n", out)
	assert.Empty(t, errOut)
}

func TestEvalError(t *testing.T) {
	out, errOut, err := execute(t, "", "eval", "1 + 1", "5 m + 3 s")
	require.Error(t, err)
	assert.Equal(t, "1 of 2 expressions failed", err.Error())
	assert.Equal(t, "2\n", out)
	assert.Contains(t, errOut, "error[EVL3020]")
	assert.Contains(t, errOut, "--> <args>:2:1")
	assert.Contains(t, errOut, "= note:")
}

func TestEvalQuietHidesNotes(t *testing.T) {
	_, errOut, err := execute(t, "", "--quiet", "eval", "sin(1, 2)")
	require.Error(t, err)
	assert.Contains(t, errOut, "error[")
	assert.NotContains(t, errOut, "note:")
}

func TestEvalFiles(t *testing.T) {
	a := writeTemp(t, "a.expr", "# speed\nd = 100 m\nt = 9.58 s\nd / t\n")
	b := writeTemp(t, "b.expr", "x = 1 km\n\nconvert(x, 1 m)\n")

	out, errOut, err := execute(t, "", "eval", "-j", "2", "-f", a, "-f", b)
	require.NoError(t, err, errOut)
	assert.Contains(t, out, "==> "+a+" <==\n100 m\n9.58 s\n10.4384133612 m/s\n")
	assert.Contains(t, out, "==> "+b+" <==\n1 km\n1000 m\n")
	assert.Less(t, strings.Index(out, a), strings.Index(out, b))
}

func TestEvalFileErrorLocation(t *testing.T) {
	path := writeTemp(t, "bad.expr", "x = 1\n\n1 / 0\n")
	_, errOut, err := execute(t, "", "eval", "-f", path)
	require.Error(t, err)
	assert.Contains(t, errOut, "--> "+path+":3:5")
	assert.Contains(t, errOut, "3 | 1 / 0")
}

func TestEvalFailuresCountedAcrossFiles(t *testing.T) {
	a := writeTemp(t, "a.expr", "1 m + 1 s\n2\n")
	b := writeTemp(t, "b.expr", "1 / 0\n1 m / (-273.15 degC)\n3\n")
	_, errOut, err := execute(t, "", "eval", "-f", a, "-f", b)
	require.Error(t, err)
	assert.Equal(t, "3 of 5 expressions failed", err.Error())
	assert.Contains(t, errOut, "--> "+b+":2:8")
}

func TestEvalStdin(t *testing.T) {
	out, errOut, err := execute(t, "a = 3\nb = 4\nhypot(a, b)\n", "eval")
	require.NoError(t, err, errOut)
	assert.Equal(t, "3\n4\n5\n", out)
}

func TestEvalJSON(t *testing.T) {
	out, _, err := execute(t, "", "eval", "--format", "json", "y = 2 s", "y + z")
	require.Error(t, err)

	var payload []evalInputJSON
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload, 1)
	in := payload[0]
	assert.Equal(t, "<args>", in.Name)
	require.Len(t, in.Lines, 2)
	assert.Equal(t, "2 s", in.Lines[0].Result)
	require.NotNil(t, in.Lines[1].Error)
	assert.Equal(t, "EVL3005", in.Lines[1].Error.Code)
	assert.Equal(t, "<args>:2", in.Lines[1].Error.Origin)

	names := []string{}
	for _, s := range in.Symbols {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "y")
}

func TestEvalMsgpack(t *testing.T) {
	out, _, err := execute(t, "", "eval", "--format", "msgpack", "1 + 1")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.False(t, strings.HasPrefix(out, "["), "msgpack output looks like JSON")
}

func TestVarsAndPrecision(t *testing.T) {
	out, errOut, err := execute(t, "", "--var", "g0=9.80665 m/s^2", "--precision", "4", "eval", "2 kg * g0")
	require.NoError(t, err, errOut)
	assert.Equal(t, "19.61 N\n", out)

	_, _, err = execute(t, "", "--var", "novalue", "eval", "1")
	require.ErrorIs(t, err, errEmptyVarName)

	_, _, err = execute(t, "", "--var", "sin=3", "eval", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "predefined variable sin")

	out, _, err = execute(t, "", "--var", "pi=3", "eval", "pi * 2")
	require.NoError(t, err)
	assert.Equal(t, "6\n", out)
}

func TestConfigFile(t *testing.T) {
	path := writeTemp(t, "exprua.toml", `
[engine]
precision = 3

[vars]
mass = "2 kg"
g = "9.81 m/s^2"
weight = "mass * g"
`)
	out, errOut, err := execute(t, "", "--config", path, "eval", "weight")
	require.NoError(t, err, errOut)
	assert.Equal(t, "19.6 N\n", out)

	out, _, err = execute(t, "", "--config", path, "--precision", "5", "eval", "weight")
	require.NoError(t, err)
	assert.Equal(t, "19.62 N\n", out)

	bad := writeTemp(t, "exprua.toml", "[engine]\nspeed = 1\n")
	_, _, err = execute(t, "", "--config", bad, "eval", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys")
}

func TestTokensCmd(t *testing.T) {
	out, _, err := execute(t, "", "tokens", "x = 9.8m/s^2")
	require.NoError(t, err)
	assert.Contains(t, out, `Ident`)
	assert.Contains(t, out, `"x"`)
	assert.Contains(t, out, "Number")

	out, _, err = execute(t, "", "tokens", "--format", "json", "1 + 2")
	require.NoError(t, err)
	var toks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &toks))
	require.Len(t, toks, 4)
	assert.Equal(t, "Plus", toks[1]["kind"])

	_, errOut, err := execute(t, "", "tokens", "2 $ 3")
	require.Error(t, err)
	assert.Contains(t, errOut, "error[LEX")
}

func TestASTCmd(t *testing.T) {
	out, _, err := execute(t, "", "ast", "F", "=", "-2 m * 3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Assignment F\n"), out)
	assert.Contains(t, out, "BinaryOp *")

	out, _, err = execute(t, "sqrt(4)\n", "ast", "--format", "json")
	require.NoError(t, err)
	var node map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &node))
	assert.Equal(t, "FunctionCall", node["type"])
	assert.Equal(t, "sqrt", node["name"])

	_, errOut, err := execute(t, "", "ast", "(1 + 2")
	require.Error(t, err)
	assert.Contains(t, errOut, "error[SYN")
}

func TestSymbolsCmd(t *testing.T) {
	out, _, err := execute(t, "", "--var", "v=3 m/s", "symbols")
	require.NoError(t, err)
	assert.Contains(t, out, "pi")
	assert.Contains(t, out, "3 m/s")
	assert.Contains(t, out, "(3 symbols)")
	assert.NotContains(t, out, "sin")

	out, _, err = execute(t, "", "symbols", "--functions")
	require.NoError(t, err)
	assert.Contains(t, out, "sin")
	assert.Contains(t, out, "function")

	out, _, err = execute(t, "", "symbols", "--format", "json")
	require.NoError(t, err)
	var syms []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &syms))
	assert.Greater(t, len(syms), 2)
}

func TestREPLPiped(t *testing.T) {
	stdin := strings.Join([]string{
		"v = 3 m / 1 s",
		"# comment",
		".symbols",
		".ast",
		".tokens 1 + 2",
		"v + 1 kg",
		".bogus",
		".quit",
		"1 + 1",
	}, "\n")
	out, errOut, err := execute(t, stdin, "repl")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "3 m/s\n"), out)
	assert.Contains(t, out, "variable")
	assert.Contains(t, out, "Assignment v")
	assert.Contains(t, out, "Plus")
	assert.NotContains(t, out, "\n2\n")

	assert.Contains(t, errOut, "error[EVL3020]")
	assert.Contains(t, errOut, "unknown command: .bogus")
}

func TestREPLHelp(t *testing.T) {
	out, _, err := execute(t, ".help\n", "repl")
	require.NoError(t, err)
	assert.Contains(t, out, ".symbols")
	assert.Contains(t, out, ".quit")
}

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(t, "", "version", "--format", "json", "--full")
	require.NoError(t, err)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "exprua", payload.Tool)
	assert.NotEmpty(t, payload.Version)
	assert.NotEmpty(t, payload.GitCommit)
	assert.Greater(t, payload.Units, 20)
	assert.Greater(t, payload.Functions, 5)

	out, _, err = execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "exprua "), out)
	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "engine: ")
	assert.NotContains(t, out, "commit:")

	_, _, err = execute(t, "", "version", "--format", "yaml")
	require.Error(t, err)
}

func TestTraceAndTimings(t *testing.T) {
	_, errOut, err := execute(t, "", "--trace", "-", "eval", "1 + 1")
	require.NoError(t, err)
	assert.Contains(t, errOut, "batch")
	assert.Contains(t, errOut, "session.parse")

	_, errOut, err = execute(t, "", "--timings", "eval", "1 + 1")
	require.NoError(t, err)
	assert.Contains(t, errOut, "timings:")
	assert.Contains(t, errOut, "batch")

	_, errOut, err = execute(t, "", "--trace-level", "phase", "--trace-mode", "ring", "eval", "1 / 0")
	require.Error(t, err)
	assert.Contains(t, errOut, "session.evaluate")

	_, _, err = execute(t, "", "--trace-level", "loud", "eval", "1")
	require.Error(t, err)
}

func TestProfileFlags(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	_, errOut, err := execute(t, "", "--cpu-profile", cpu, "--mem-profile", mem, "eval", "2 m * 3 m")
	require.NoError(t, err, errOut)
	assert.FileExists(t, cpu)
	assert.FileExists(t, mem)

	_, _, err = execute(t, "", "--cpu-profile", filepath.Join(dir, "nope", "cpu.pprof"), "eval", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cpu profile")
}

func TestWantsColor(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, wantsColor("on", &buf))
	assert.False(t, wantsColor("off", &buf))
	assert.False(t, wantsColor("auto", &buf))
}
