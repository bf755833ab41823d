package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/qiscreen/pkg/adapters/file"
	"github.com/aretw0/qiscreen/pkg/bank"
	"github.com/aretw0/qiscreen/pkg/domain"
	contract "github.com/aretw0/qiscreen/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const yamlBank = `
_meta:
  name: sample
q1:
  id: q1
  text: 此刻你在哪里？
  stage: 1
  options:
    - label: 室内
      effects: {厚载: 1, 触: 1}
    - label: 户外
      effects: {萌动: 1, 视: 1}
  next: {0: q2, 1: q2}
q2:
  id: q2
  text: 周围安静吗？
  stage: 如是轮
  options: [安静, 嘈杂]
  next: {0: END, 1: END}
`

const jsonBank = `{"a": {"id": "a", "text": "t", "options": ["x"], "next": {"0": "END"}}}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSource_ContractYAML(t *testing.T) {
	contract.BankSourceContractTest(t, file.New(writeFile(t, "bank.yaml", yamlBank)), []string{"q1", "q2"})
}

func TestSource_ContractJSON(t *testing.T) {
	contract.BankSourceContractTest(t, file.New(writeFile(t, "bank.json", jsonBank)), []string{"a"})
}

func TestSource_ForcedFormat(t *testing.T) {
	path := writeFile(t, "bank.txt", jsonBank)
	raw, err := file.New(path, file.WithFormat(bank.FormatJSON)).Load(context.Background())
	require.NoError(t, err)
	g, err := bank.Load(raw)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
}

func TestSource_LoadErrors(t *testing.T) {
	_, err := file.New(filepath.Join(t.TempDir(), "missing.yaml")).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrLoad)

	_, err = file.New(writeFile(t, "broken.json", "{")).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrLoad)
}

func TestSource_Watch(t *testing.T) {
	path := writeFile(t, "bank.yaml", yamlBank)
	src := file.New(path, file.WithDebounce(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	changes, err := src.Watch(ctx)
	require.NoError(t, err)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.yaml"), []byte("x: 1"), 0o644))
	select {
	case <-changes:
		t.Fatal("unexpected signal for unrelated file")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte(jsonBank), 0o644))
	select {
	case _, ok := <-changes:
		require.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("no change signal")
	}

	cancel()
	select {
	case _, ok := <-changes:
		for ok {
			_, ok = <-changes
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch channel not closed after cancel")
	}
}
