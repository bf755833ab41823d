package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/qiscreen/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes     []string
	CurrentNode      string
	UnreachableNodes []string
}

const terminalNode = "END((END))"

// stageStyles colours each Lumin wheel tier.
var stageStyles = map[int]string{
	1: "fill:#fff8e1,stroke:#f9a825",
	2: "fill:#e8f5e9,stroke:#2e7d32",
	3: "fill:#e3f2fd,stroke:#1565c0",
	4: "fill:#f3e5f5,stroke:#6a1b9a",
	5: "fill:#eceff1,stroke:#37474f",
}

// GenerateMermaid produces a Mermaid flowchart of a question graph.
// The entry question is drawn as a circle, others as parallelograms; edges carry the
// option label and every branch ending at END meets a single terminal node.
// Questions are styled by stage and, if an overlay is given, by visit state.
func GenerateMermaid(g *domain.QuestionGraph, entry string, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	if entry == "" {
		entry, _ = g.First()
	}

	usesTerminal := false
	stages := make(map[int][]string)
	for _, q := range g.Questions() {
		safeID := sanitizeMermaidID(q.ID)
		stages[q.Stage] = append(stages[q.Stage], safeID)

		opener, closer := "[/", "/]"
		if q.ID == entry {
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s <br/> %s\"%s\n", safeID, opener, q.ID, escape(q.Text), closer)

		for i, opt := range q.Options {
			to, ok := q.NextFor(i)
			if !ok {
				continue
			}
			target := sanitizeMermaidID(to)
			if to == domain.TerminalID {
				target = "END"
				usesTerminal = true
			}
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, escape(opt.Label), target)
		}
	}
	if usesTerminal {
		sb.WriteString("    " + terminalNode + "\n")
	}

	sb.WriteString("\n    %% Stage Styles\n")
	for stage := domain.MinStage; stage <= domain.MaxStage; stage++ {
		ids := stages[stage]
		if len(ids) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "    classDef stage%d %s;\n", stage, stageStyles[stage])
		fmt.Fprintf(&sb, "    class %s stage%d;\n", strings.Join(ids, ","), stage)
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef unreachable stroke-dasharray:5 5,color:#9e9e9e;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && g.Has(id) {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		for _, id := range overlay.UnreachableNodes {
			fmt.Fprintf(&sb, "    class %s unreachable;\n", sanitizeMermaidID(id))
		}
		if overlay.CurrentNode != "" && g.Has(overlay.CurrentNode) {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

// escape keeps labels inside their quotes.
func escape(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.ReplaceAll(s, "\n", " ")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	if s == "END" {
		s = "q_END"
	}
	return s
}
