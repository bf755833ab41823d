package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/qiscreen"
	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/aretw0/qiscreen/pkg/shield"
)

// QuestionMarkdown formats a question with numbered options (1-based).
func QuestionMarkdown(q *domain.Question, p domain.Progress) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### 第 %d 题", p.Answered+1)
	if wheel, ok := domain.StageNames[q.Stage]; ok {
		fmt.Fprintf(&sb, " · %s", wheel)
	}
	fmt.Fprintf(&sb, "\n\n%s\n\n", q.Text)
	for i, opt := range q.Options {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, opt.Label)
	}
	return sb.String()
}

// AssessmentMarkdown formats breath signals, rhythm and guidance.
func AssessmentMarkdown(a *qiscreen.Assessment) string {
	var sb strings.Builder
	sb.WriteString("## 呼吸\n\n| 信号 | 数值 |\n|---|---|\n")
	values := a.Breath.Map()
	for _, name := range domain.BreathNames {
		fmt.Fprintf(&sb, "| %s | %.2f |\n", name, values[name])
	}
	fmt.Fprintf(&sb, "\n**节奏**：%s\n", a.Rhythm)

	if len(a.Guidance) > 0 {
		sb.WriteString("\n## 建议\n\n")
		for _, g := range a.Guidance {
			fmt.Fprintf(&sb, "- %s", g.Forward)
			if g.Reverse != "" {
				fmt.Fprintf(&sb, "（%s）", g.Reverse)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// GuidanceMarkdown formats a shield's remediation guidance.
func GuidanceMarkdown(g shield.Guidance) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n%s\n", g.Label, g.Message)
	if g.GroundingTask != "" {
		fmt.Fprintf(&sb, "\n> %s\n", g.GroundingTask)
	}
	return sb.String()
}
