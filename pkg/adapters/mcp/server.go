package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/qiscreen"
	"github.com/aretw0/qiscreen/pkg/breath"
	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/aretw0/qiscreen/pkg/guidance"
	"github.com/aretw0/qiscreen/pkg/shield"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GraphURI is the resource that exposes the loaded question graph.
const GraphURI = "qiscreen://graph"

// Engine defines what the MCP server needs from qiscreen.
type Engine interface {
	Graph() *domain.QuestionGraph
	Guide(ctx context.Context, id domain.ShieldID) (shield.Guidance, error)
	Suggest(qi domain.QiVector, lumin domain.LuminVector, rhythm string, opts guidance.Options) []guidance.Suggestion
}

// Server wraps the Engine and exposes its evaluators as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine: engine,
		mcpServer: server.NewMCPServer("qiscreen-mcp", strings.TrimSpace(qiscreen.Version),
			server.WithToolCapabilities(true),
			server.WithResourceCapabilities(false, true),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// VectorArgs carries Qi and Lumin values keyed by dimension name.
type VectorArgs struct {
	Qi    map[string]float64 `json:"qi"`
	Lumin map[string]float64 `json:"lumin"`
}

// DetectArgs is the input of detect_shields.
type DetectArgs struct {
	Breath map[string]float64 `json:"breath"`
	Qi     map[string]float64 `json:"qi"`
}

// DetectResult is the output of detect_shields.
type DetectResult struct {
	Active    []domain.ShieldID `json:"active" jsonschema_description:"Active shields in presentation priority"`
	Presented *domain.ShieldID  `json:"presented,omitempty" jsonschema_description:"The shield to present, if any"`
}

// ReleaseArgs is the input of can_release_shield.
type ReleaseArgs struct {
	Shield  string             `json:"shield"`
	Breath  map[string]float64 `json:"breath"`
	Actions domain.UserActions `json:"actions"`
}

// ReleaseResult is the output of can_release_shield.
type ReleaseResult struct {
	Shield     domain.ShieldID `json:"shield"`
	CanRelease bool            `json:"can_release"`
	ActionMet  bool            `json:"action_met" jsonschema_description:"Whether the remediation action alone is satisfied"`
}

// GuidanceArgs is the input of select_guidance.
type GuidanceArgs struct {
	VectorArgs
	Rhythm   string   `json:"rhythm"`
	MaxCount int      `json:"max_count"`
	Tags     []string `json:"tags"`
}

// GuidanceResult is the output of select_guidance.
type GuidanceResult struct {
	Suggestions []guidance.Suggestion `json:"suggestions"`
}

func (s *Server) registerTools() {
	// TOOL: compute_breath
	s.mcpServer.AddTool(mcp.NewTool("compute_breath",
		mcp.WithDescription("Derive the five breath signals (如是 无垠 破暗 涓流 映照) from Qi and Lumin values. All eight Qi dimensions and five Lumin channels are required."),
		mcp.WithObject("qi", mcp.Required(), mcp.Description("Qi values keyed by dimension: 厚载 萌动 炎明 肃降 通透 刚健 静守 润下")),
		mcp.WithObject("lumin", mcp.Required(), mcp.Description("Lumin values keyed by channel: 视 听 触 味 嗅")),
		mcp.WithOutputSchema[domain.Breath](),
	), mcp.NewStructuredToolHandler(s.handleComputeBreath))

	// TOOL: detect_shields
	s.mcpServer.AddTool(mcp.NewTool("detect_shields",
		mcp.WithDescription("List the safety shields triggered by a set of breath signals."),
		mcp.WithObject("breath", mcp.Required(), mcp.Description("Breath signals in [0,1] keyed by name")),
		mcp.WithObject("qi", mcp.Description("Qi values keyed by dimension, used by the meaning-void shield")),
		mcp.WithOutputSchema[DetectResult](),
	), mcp.NewStructuredToolHandler(s.handleDetectShields))

	// TOOL: can_release_shield
	s.mcpServer.AddTool(mcp.NewTool("can_release_shield",
		mcp.WithDescription("Check whether a presented shield may be released given the user's actions and breath signals."),
		mcp.WithString("shield", mcp.Required(), mcp.Description("Shield ID"), mcp.Enum("Shield_1", "Shield_2", "Shield_3", "Shield_4")),
		mcp.WithObject("breath", mcp.Required(), mcp.Description("Breath signals in [0,1] keyed by name")),
		mcp.WithObject("actions", mcp.Description("grounding_answers, pattern_statement, boundary_set, concrete_actions")),
		mcp.WithOutputSchema[ReleaseResult](),
	), mcp.NewStructuredToolHandler(s.handleCanRelease))

	// TOOL: select_guidance
	s.mcpServer.AddTool(mcp.NewTool("select_guidance",
		mcp.WithDescription("Select everyday guidance for a rhythm, scored against the strongest Qi dimensions and Lumin channel."),
		mcp.WithString("rhythm", mcp.Required(), mcp.Description("Rhythm label"), mcp.Enum(domain.RhythmLabels[:]...)),
		mcp.WithObject("qi", mcp.Description("Qi values keyed by dimension; missing ones count as zero")),
		mcp.WithObject("lumin", mcp.Description("Lumin values keyed by channel; missing ones count as zero")),
		mcp.WithNumber("max_count", mcp.Description("Maximum number of suggestions (default 3)")),
		mcp.WithArray("tags", mcp.Description("Preferred tags"), mcp.WithStringItems()),
		mcp.WithOutputSchema[GuidanceResult](),
	), mcp.NewStructuredToolHandler(s.handleSelectGuidance))

	// TOOL: shield_guidance
	s.mcpServer.AddTool(mcp.NewTool("shield_guidance",
		mcp.WithDescription("Get the remediation message and grounding task for a shield."),
		mcp.WithString("shield", mcp.Required(), mcp.Description("Shield ID"), mcp.Enum("Shield_1", "Shield_2", "Shield_3", "Shield_4")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("shield")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		g, err := s.engine.Guide(ctx, domain.ShieldID(id))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("guidance failed: %v", err)), nil
		}
		return mcp.NewToolResultText(g.Message + "\n\n" + g.GroundingTask), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleComputeBreath(ctx context.Context, request mcp.CallToolRequest, args VectorArgs) (domain.Breath, error) {
	qi, err := qiSlice(args.Qi, true)
	if err != nil {
		return domain.Breath{}, err
	}
	return breath.Compute(qi, args.Lumin)
}

func (s *Server) handleDetectShields(ctx context.Context, request mcp.CallToolRequest, args DetectArgs) (DetectResult, error) {
	b, err := breath.FromMap(args.Breath)
	if err != nil {
		return DetectResult{}, err
	}
	var qi []float64
	if len(args.Qi) > 0 {
		if qi, err = qiSlice(args.Qi, false); err != nil {
			return DetectResult{}, err
		}
	}
	res := DetectResult{Active: shield.Detect(b, qi)}
	if top, ok := shield.Present(res.Active); ok {
		res.Presented = &top
	}
	return res, nil
}

func (s *Server) handleCanRelease(ctx context.Context, request mcp.CallToolRequest, args ReleaseArgs) (ReleaseResult, error) {
	id := domain.ShieldID(args.Shield)
	if !id.Known() {
		return ReleaseResult{}, fmt.Errorf("%w: %q", domain.ErrUnknownShield, args.Shield)
	}
	b, err := breath.FromMap(args.Breath)
	if err != nil {
		return ReleaseResult{}, err
	}
	return ReleaseResult{
		Shield:     id,
		CanRelease: shield.CanRelease(id, b, args.Actions),
		ActionMet:  shield.ActionMet(id, args.Actions),
	}, nil
}

func (s *Server) handleSelectGuidance(ctx context.Context, request mcp.CallToolRequest, args GuidanceArgs) (GuidanceResult, error) {
	if kind, _ := domain.LookupDimension(args.Rhythm); kind != domain.DimensionRhythm {
		return GuidanceResult{}, &domain.ContractError{Field: "rhythm", Reason: fmt.Sprintf("unknown rhythm %q", args.Rhythm)}
	}
	qi, err := qiSlice(args.Qi, false)
	if err != nil {
		return GuidanceResult{}, err
	}
	var q domain.QiVector
	copy(q[:], qi)

	var l domain.LuminVector
	for name, v := range args.Lumin {
		kind, i := domain.LookupDimension(name)
		if kind != domain.DimensionLumin {
			return GuidanceResult{}, &domain.ContractError{Field: "lumin." + name, Reason: "unknown channel"}
		}
		l[i] = v
	}

	out := s.engine.Suggest(q, l, args.Rhythm, guidance.Options{MaxCount: args.MaxCount, Tags: args.Tags})
	return GuidanceResult{Suggestions: out}, nil
}

// qiSlice orders named Qi values canonically. Unknown names are rejected; missing ones
// are an error when strict, zero otherwise.
func qiSlice(named map[string]float64, strict bool) ([]float64, error) {
	out := make([]float64, len(domain.QiNames))
	for name, v := range named {
		kind, i := domain.LookupDimension(name)
		if kind != domain.DimensionQi {
			return nil, &domain.ContractError{Field: "qi." + name, Reason: "unknown dimension"}
		}
		out[i] = v
	}
	if strict {
		for _, name := range domain.QiNames {
			if _, ok := named[name]; !ok {
				return nil, &domain.ContractError{Field: "qi." + name, Reason: "missing dimension"}
			}
		}
	}
	return out, nil
}

func (s *Server) registerResources() {
	// EXPOSE: qiscreen://graph
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Current Question Graph",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.engine.Graph().Questions())
		if err != nil {
			return nil, fmt.Errorf("failed to encode graph: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      GraphURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
