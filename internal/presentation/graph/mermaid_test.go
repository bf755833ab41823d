package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/qiscreen/internal/presentation/graph"
	"github.com/aretw0/qiscreen/pkg/domain"
)

func sample() *domain.QuestionGraph {
	return domain.NewQuestionGraph([]*domain.Question{
		{
			ID: "q-1", Text: `说 "是" 或 "否"`, Stage: 1,
			Options: []domain.Option{{Label: "是"}, {Label: "否"}, {Label: "跳过"}},
			Next:    map[string]string{"0": "q.2", "1": domain.TerminalID},
		},
		{
			ID: "q.2", Text: "第二题", Stage: 3,
			Options: []domain.Option{{ID: "ok", Label: "好"}},
			Next:    map[string]string{"ok": domain.TerminalID},
		},
		{ID: "orphan", Text: "孤立", Stage: 3, Options: []domain.Option{{Label: "x"}}, Next: map[string]string{"0": "q-1"}},
	})
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		entry    string
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name:  "Shapes And Edges",
			entry: "q-1",
			contains: []string{
				`q_1(("q-1 <br/> 说 '是' 或 '否'"))`,
				`q_2[/"q.2 <br/> 第二题"/]`,
				`q_1 -- "是" --> q_2`,
				`q_1 -- "否" --> END`,
				`q_2 -- "好" --> END`,
				"END((END))",
			},
			excludes: []string{`"跳过"`},
		},
		{
			name:  "Default Entry Is First ID",
			entry: "",
			contains: []string{
				`orphan(("orphan <br/> 孤立"))`,
			},
		},
		{
			name: "Stage Classes",
			contains: []string{
				"class q_1 stage1;",
				"class orphan,q_2 stage3;",
			},
			excludes: []string{"stage2"},
		},
		{
			name: "Overlay",
			overlay: &graph.GraphOverlay{
				VisitedNodes:     []string{"q-1", "q-1", "ghost"},
				CurrentNode:      "q.2",
				UnreachableNodes: []string{"orphan"},
			},
			contains: []string{
				"class q_1 visited;",
				"class q_2 current;",
				"class orphan unreachable;",
			},
			excludes: []string{"ghost"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(sample(), tt.entry, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, bad)
				}
			}
			if n := strings.Count(got, "class q_1 visited;"); n > 1 {
				t.Errorf("visited class repeated %d times", n)
			}
		})
	}
}
