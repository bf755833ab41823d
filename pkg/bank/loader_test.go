package bank_test

import (
	"testing"

	"github.com/aretw0/qiscreen/pkg/bank"
	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "_meta": {"version": "1.0"},
  "q1": {
    "id": "q1", "text": "你此刻最先注意到什么？", "stage": 1,
    "options": [
      {"label": "光线", "effects": {"炎明": 2, "视": 1}},
      {"id": "quiet", "label": "声音", "effects": {"静守": 1, "听": 2, "敛藏": 1}}
    ],
    "next": {"0": "q2", "quiet": "q3"}
  },
  "q2": {
    "id": "q2", "text": "身体哪里最放松？", "stage": 2,
    "options": [{"label": "肩膀", "effects": {"厚载": 1, "触": 1}}],
    "next": {"0": "END"}
  },
  "q3": {
    "id": "q3", "text": "想到什么气味？", "stage": "涓流轮",
    "options": ["雨后泥土", "茶香"],
    "next": {"0": "ghost", "1": "q1"}
  }
}`

func loadJSON(t *testing.T, src string) any {
	t.Helper()
	raw, err := bank.Decode([]byte(src), bank.FormatJSON)
	require.NoError(t, err)
	return raw
}

func TestLoad_ValidBank(t *testing.T) {
	g, warnings, err := bank.NewLoader().Inspect(loadJSON(t, sampleJSON))
	require.NoError(t, err)

	assert.Equal(t, []string{"q1", "q2", "q3"}, g.IDs(), "metadata key must be stripped")

	q1, ok := g.Get("q1")
	require.True(t, ok)
	assert.Equal(t, 1, q1.Stage)
	assert.Equal(t, 2.0, q1.Options[0].Effects.Qi[2])
	assert.Equal(t, 1.0, q1.Options[1].Effects.Rhythm[2])

	next, ok := q1.NextFor(1)
	require.True(t, ok)
	assert.Equal(t, "q3", next)

	q3, ok := g.Get("q3")
	require.True(t, ok)
	assert.Equal(t, 3, q3.Stage, "wheel name resolves to its tier")
	assert.Equal(t, "茶香", q3.Options[1].Label, "short option form")
	assert.Equal(t, domain.TerminalID, q3.Next["0"], "dangling target rewritten")

	require.Len(t, warnings, 1)
	assert.Equal(t, "q3", warnings[0].QuestionID)
	assert.Contains(t, warnings[0].Reason, "ghost")
}

func TestLoad_SkipsInvalidRecords(t *testing.T) {
	raw := map[string]any{
		"ok": map[string]any{
			"id": "ok", "text": "fine",
			"options": []any{map[string]any{"label": "yes"}},
			"next":    map[string]any{"0": "END"},
		},
		"no_text": map[string]any{
			"id": "no_text", "options": []any{"a"}, "next": map[string]any{},
		},
		"mismatch": map[string]any{
			"id": "other", "text": "t", "options": []any{"a"}, "next": map[string]any{},
		},
		"bad_stage": map[string]any{
			"id": "bad_stage", "text": "t", "stage": 9, "options": []any{"a"}, "next": map[string]any{},
		},
		"bad_channel": map[string]any{
			"id": "bad_channel", "text": "t",
			"options": []any{map[string]any{"label": "a", "effects": map[string]any{"第六感": 1}}},
			"next":    map[string]any{},
		},
		"no_label": map[string]any{
			"id": "no_label", "text": "t",
			"options": []any{map[string]any{"effects": map[string]any{}}},
			"next":    map[string]any{},
		},
		"scalar": "not a record",
	}

	g, warnings, err := bank.NewLoader().Inspect(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, g.IDs())

	skipped := make([]string, 0, len(warnings))
	for _, w := range warnings {
		skipped = append(skipped, w.QuestionID)
	}
	want := []string{"bad_channel", "bad_stage", "mismatch", "no_label", "no_text", "scalar"}
	if diff := cmp.Diff(want, skipped); diff != "" {
		t.Errorf("skipped records mismatch (-want +got):\n%s", diff)
	}

	ok, _ := g.Get("ok")
	assert.Equal(t, domain.MinStage, ok.Stage, "missing stage defaults to the first wheel")
}

func TestLoad_DropsInvalidNextKeys(t *testing.T) {
	raw := map[string]any{
		"q": map[string]any{
			"id": "q", "text": "t",
			"options": []any{"a"},
			"next":    map[string]any{"0": "END", "5": "q", "nobody": "q"},
		},
	}
	g, warnings, err := bank.NewLoader().Inspect(raw)
	require.NoError(t, err)

	q, _ := g.Get("q")
	assert.Equal(t, map[string]string{"0": domain.TerminalID}, q.Next)
	assert.Len(t, warnings, 2)
}

func TestLoad_ZeroStageDefaults(t *testing.T) {
	raw := map[string]any{
		"q": map[string]any{
			"id": "q", "text": "t", "stage": 0, "options": []any{"a"}, "next": map[string]any{"0": "END"},
		},
	}
	g, err := bank.Load(raw)
	require.NoError(t, err)

	q, _ := g.Get("q")
	assert.Equal(t, domain.MinStage, q.Stage)
}

func TestLoad_ListForm(t *testing.T) {
	src := `
questions:
  - id: b
    text: second
    options: [x]
    next: {0: END}
  - id: a
    text: first
    stage: 2
    options: [x, y]
    next: {0: b, 1: END}
`
	raw, err := bank.Decode([]byte(src), bank.FormatYAML)
	require.NoError(t, err)

	g, err := bank.Load(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, g.IDs())

	a, _ := g.Get("a")
	next, ok := a.NextFor(0)
	require.True(t, ok)
	assert.Equal(t, "b", next)
}

func TestLoad_Fatal(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"Nil Root", nil},
		{"List Root", []any{"a"}},
		{"Only Metadata", map[string]any{"_meta": map[string]any{"v": 1}}},
		{"No Valid Questions", map[string]any{"q": map[string]any{"id": "q"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := bank.Load(tt.raw, bank.WithSourceName("test"))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrLoad)

			var le *domain.LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, "test", le.Source)
		})
	}
}

func TestDecode_InvalidInput(t *testing.T) {
	_, err := bank.Decode([]byte("{not json"), bank.FormatJSON)
	assert.ErrorIs(t, err, domain.ErrLoad)

	_, err = bank.Decode([]byte("a: [b"), bank.FormatYAML)
	assert.ErrorIs(t, err, domain.ErrLoad)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, bank.FormatJSON, bank.FormatFromPath("bank.JSON"))
	assert.Equal(t, bank.FormatYAML, bank.FormatFromPath("bank.yml"))
	assert.Equal(t, bank.FormatYAML, bank.FormatFromPath("bank"))
}

func TestLoad_Deterministic(t *testing.T) {
	first, w1, err := bank.NewLoader().Inspect(loadJSON(t, sampleJSON))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		g, w, err := bank.NewLoader().Inspect(loadJSON(t, sampleJSON))
		require.NoError(t, err)
		assert.Equal(t, first.IDs(), g.IDs())
		assert.Equal(t, w1, w)
	}
}
