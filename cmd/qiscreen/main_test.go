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

const testBank = `
q1:
  id: q1
  text: 此刻你最先注意到什么？
  stage: 1
  options:
    - label: 一切都很清楚
    - label: 只有身体的感觉
  next: {"0": END, "1": q2}
q2:
  id: q2
  text: 抬头看看四周。
  options:
    - label: 看见了
  next: {"0": END}
q3:
  id: q3
  text: 没有人指向这里。
  options:
    - label: 好
  next: {"0": END}
`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeBank(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bank.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testBank), 0o644))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "qiscreen version "))
}

func TestValidateCommand(t *testing.T) {
	path := writeBank(t)

	out, err := execute(t, "", "validate", "--bank", path)
	assert.Error(t, err, "q3 is unreachable")
	assert.Contains(t, out, "unreachable: q3")

	_, err = execute(t, "", "validate", "--bank", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "", "graph", "--bank", writeBank(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, "q1((")
	assert.Contains(t, out, "class q3 unreachable")
}

func TestCheckCommand(t *testing.T) {
	req := `{"breath": {"如是": 0.5, "无垠": 0.3, "破暗": 0.05, "涓流": 0.5, "映照": 0.3}, "qiMax": 0.8}`
	out, err := execute(t, req, "check")
	require.NoError(t, err)
	assert.Contains(t, out, `"action": "intervene"`)
	assert.Contains(t, out, `"Shield_2"`)

	_, err = execute(t, `{"breath": {}}`, "check")
	assert.Error(t, err)
}
