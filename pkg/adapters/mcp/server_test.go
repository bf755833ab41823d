package mcp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/aretw0/qiscreen"
	mcpadapter "github.com/aretw0/qiscreen/pkg/adapters/mcp"
	"github.com/aretw0/qiscreen/pkg/adapters/memory"
	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *mcpadapter.Server {
	t.Helper()
	src, err := memory.NewFromQuestions(&domain.Question{
		ID: "q1", Text: "你好", Options: []domain.Option{{Label: "好"}}, Next: map[string]string{"0": domain.TerminalID},
	})
	require.NoError(t, err)
	eng, err := qiscreen.New(context.Background(), src)
	require.NoError(t, err)
	return mcpadapter.NewServer(eng)
}

// rpc sends one JSON-RPC request and returns the decoded response.
func rpc(t *testing.T, s *mcpadapter.Server, method string, params any) map[string]any {
	t.Helper()
	p, err := json.Marshal(params)
	require.NoError(t, err)
	msg := fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":%q,"params":%s}`, method, p)

	resp := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(msg))
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func callTool(t *testing.T, s *mcpadapter.Server, name string, args map[string]any) map[string]any {
	t.Helper()
	out := rpc(t, s, "tools/call", map[string]any{"name": name, "arguments": args})
	require.NotContains(t, out, "error", "JSON-RPC error: %v", out["error"])
	result, ok := out["result"].(map[string]any)
	require.True(t, ok, "unexpected response: %v", out)
	return result
}

func TestToolsList(t *testing.T) {
	out := rpc(t, newServer(t), "tools/list", map[string]any{})
	result := out["result"].(map[string]any)

	var names []string
	for _, tool := range result["tools"].([]any) {
		names = append(names, tool.(map[string]any)["name"].(string))
	}
	assert.ElementsMatch(t, []string{"compute_breath", "detect_shields", "can_release_shield", "select_guidance", "shield_guidance"}, names)
}

func TestComputeBreath(t *testing.T) {
	s := newServer(t)
	qi := map[string]any{}
	for _, name := range domain.QiNames {
		qi[name] = 0.0
	}
	qi["厚载"] = 1.0

	result := callTool(t, s, "compute_breath", map[string]any{
		"qi":    qi,
		"lumin": map[string]any{"视": 0.5, "听": 0.5, "触": 1, "味": 0, "嗅": 0},
	})
	assert.NotEqual(t, true, result["isError"])
	structured := result["structuredContent"].(map[string]any)
	assert.InDelta(t, 1.0, structured["如是"], 1e-9)
	assert.InDelta(t, 1.0, structured["无垠"], 1e-9)

	delete(qi, "润下")
	result = callTool(t, s, "compute_breath", map[string]any{"qi": qi, "lumin": map[string]any{}})
	assert.Equal(t, true, result["isError"], "missing dimension is a contract violation")
}

func TestDetectShields(t *testing.T) {
	result := callTool(t, newServer(t), "detect_shields", map[string]any{
		"breath": map[string]any{"如是": 0.1, "无垠": 0.75, "破暗": 0.1, "涓流": 0.5, "映照": 0.4},
	})
	structured := result["structuredContent"].(map[string]any)
	assert.Equal(t, []any{"Shield_1", "Shield_2"}, structured["active"])
	assert.Equal(t, "Shield_1", structured["presented"])
}

func TestCanReleaseShield(t *testing.T) {
	s := newServer(t)
	safe := map[string]any{"如是": 0.5, "无垠": 0.5, "破暗": 0.5, "涓流": 0.5, "映照": 0.5}

	result := callTool(t, s, "can_release_shield", map[string]any{
		"shield":  "Shield_3",
		"breath":  safe,
		"actions": map[string]any{"boundary_set": true},
	})
	structured := result["structuredContent"].(map[string]any)
	assert.Equal(t, true, structured["can_release"])

	result = callTool(t, s, "can_release_shield", map[string]any{"shield": "Shield_7", "breath": safe})
	assert.Equal(t, true, result["isError"])
}

func TestSelectGuidance(t *testing.T) {
	result := callTool(t, newServer(t), "select_guidance", map[string]any{
		"rhythm": "敛藏",
		"qi":     map[string]any{"肃降": 2, "静守": 1},
		"lumin":  map[string]any{"听": 1},
	})
	structured := result["structuredContent"].(map[string]any)
	suggestions := structured["suggestions"].([]any)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, 4.0, suggestions[0].(map[string]any)["score"])
}

func TestShieldGuidance(t *testing.T) {
	result := callTool(t, newServer(t), "shield_guidance", map[string]any{"shield": "Shield_2"})
	assert.NotEqual(t, true, result["isError"])
	content := result["content"].([]any)
	require.NotEmpty(t, content)
	assert.NotEmpty(t, content[0].(map[string]any)["text"])
}

func TestGraphResource(t *testing.T) {
	out := rpc(t, newServer(t), "resources/read", map[string]any{"uri": mcpadapter.GraphURI})
	result := out["result"].(map[string]any)
	contents := result["contents"].([]any)
	require.Len(t, contents, 1)
	assert.Contains(t, contents[0].(map[string]any)["text"], `"id":"q1"`)
}
