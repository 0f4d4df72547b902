package mcp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/aretw0/graficador"
	mcpadapter "github.com/aretw0/graficador/pkg/adapters/mcp"
	"github.com/aretw0/graficador/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toolResult struct {
	IsError           bool            `json:"isError"`
	StructuredContent json.RawMessage `json:"structuredContent"`
	Content           []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type harness struct {
	t   *testing.T
	srv *mcpadapter.Server
	seq int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	n := 0
	svc := graficador.New(graficador.WithIDFunc(func(st domain.ShapeType) string {
		n++
		return fmt.Sprintf("%s-%d", st, n)
	}))
	h := &harness{t: t, srv: mcpadapter.NewServer(svc, "test")}
	h.rpc("initialize", map[string]any{
		"protocolVersion": "2025-03-26",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test", "version": "1.0.0"},
	})
	return h
}

func (h *harness) rpc(method string, params any) json.RawMessage {
	h.t.Helper()
	h.seq++
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      h.seq,
		"method":  method,
		"params":  params,
	})
	require.NoError(h.t, err)

	out := h.srv.MCPServer().HandleMessage(context.Background(), msg)
	data, err := json.Marshal(out)
	require.NoError(h.t, err)

	var resp rpcResponse
	require.NoError(h.t, json.Unmarshal(data, &resp))
	require.Nil(h.t, resp.Error, "rpc %s failed", method)
	return resp.Result
}

func (h *harness) call(tool string, args map[string]any) toolResult {
	h.t.Helper()
	var res toolResult
	raw := h.rpc("tools/call", map[string]any{"name": tool, "arguments": args})
	require.NoError(h.t, json.Unmarshal(raw, &res))
	return res
}

func structured[T any](t *testing.T, res toolResult) T {
	t.Helper()
	require.False(t, res.IsError, "tool error: %+v", res.Content)
	var v T
	require.NoError(t, json.Unmarshal(res.StructuredContent, &v))
	return v
}

func TestListTools(t *testing.T) {
	h := newHarness(t)
	raw := h.rpc("tools/list", map[string]any{})

	var list struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(raw, &list))

	var names []string
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
	}
	for _, want := range []string{
		"list_templates", "list_designs", "create_design", "get_design", "get_layers",
		"add_shape", "delete_shape", "move_forward", "move_backward", "select_shape",
		"group_shapes", "ungroup_shapes", "insert_template", "export_project",
	} {
		assert.Contains(t, names, want)
	}
}

func TestEditingTools(t *testing.T) {
	h := newHarness(t)

	design := structured[domain.Design](t, h.call("create_design", map[string]any{"id": "d1", "name": "Board"}))
	assert.Equal(t, "d1", design.ID)

	a := structured[domain.Shape](t, h.call("add_shape", map[string]any{
		"design_id": "d1", "type": "rectangle", "props": map[string]any{"x": 10, "fill": "#ff0000"},
	}))
	assert.Equal(t, "rectangle-1", a.ID)
	assert.Equal(t, 10.0, a.X)
	b := structured[domain.Shape](t, h.call("add_shape", map[string]any{"design_id": "d1", "type": "circle"}))

	moved := structured[mcpadapter.Changed](t, h.call("move_forward", map[string]any{"design_id": "d1", "shape_id": a.ID}))
	assert.True(t, moved.Changed)
	moved = structured[mcpadapter.Changed](t, h.call("move_forward", map[string]any{"design_id": "d1", "shape_id": a.ID}))
	assert.False(t, moved.Changed)

	group := structured[domain.Shape](t, h.call("group_shapes", map[string]any{"design_id": "d1", "ids": []string{a.ID, b.ID}}))
	assert.Equal(t, domain.ShapeGroup, group.Type)

	design = structured[domain.Design](t, h.call("get_design", map[string]any{"design_id": "d1"}))
	require.Len(t, design.Shapes, 1)
	assert.Equal(t, []string{b.ID, a.ID}, []string{design.Shapes[0].Children[0].ID, design.Shapes[0].Children[1].ID})
	assert.Equal(t, group.ID, design.SelectedID)

	ungrouped := structured[mcpadapter.Changed](t, h.call("ungroup_shapes", map[string]any{"design_id": "d1", "shape_id": group.ID}))
	assert.True(t, ungrouped.Changed)

	deleted := structured[mcpadapter.Changed](t, h.call("delete_shape", map[string]any{"design_id": "d1", "shape_id": b.ID}))
	assert.True(t, deleted.Changed)
	deleted = structured[mcpadapter.Changed](t, h.call("delete_shape", map[string]any{"design_id": "d1", "shape_id": b.ID}))
	assert.False(t, deleted.Changed)

	layers := h.call("get_layers", map[string]any{"design_id": "d1"})
	require.False(t, layers.IsError)
	require.NotEmpty(t, layers.Content)
	assert.Contains(t, layers.Content[0].Text, "# Layers: Board")
	assert.Contains(t, layers.Content[0].Text, a.ID)

	ids := structured[mcpadapter.NameList](t, h.call("list_designs", map[string]any{}))
	assert.Equal(t, []string{"d1"}, ids.Items)
}

func TestToolErrors(t *testing.T) {
	h := newHarness(t)
	structured[domain.Design](t, h.call("create_design", map[string]any{"id": "d1"}))

	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{name: "Missing design", tool: "get_design", args: map[string]any{"design_id": "nope"}},
		{name: "Unknown shape type", tool: "add_shape", args: map[string]any{"design_id": "d1", "type": "hexagon"}},
		{name: "Group needs two shapes", tool: "group_shapes", args: map[string]any{"design_id": "d1", "ids": []string{"x"}}},
		{name: "Unknown template", tool: "insert_template", args: map[string]any{"design_id": "d1", "name": "nope"}},
		{name: "Unknown target", tool: "export_project", args: map[string]any{"design_id": "d1", "target": "react"}},
		{name: "Duplicate design", tool: "create_design", args: map[string]any{"id": "d1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.call(tt.tool, tt.args)
			assert.True(t, res.IsError)
		})
	}
}

func TestTemplatesAndExport(t *testing.T) {
	h := newHarness(t)

	names := structured[mcpadapter.NameList](t, h.call("list_templates", map[string]any{}))
	assert.Contains(t, names.Items, "login")
	assert.Contains(t, names.Items, "calendar")

	structured[domain.Design](t, h.call("create_design", map[string]any{"id": "d1"}))
	inserted := structured[mcpadapter.ShapeList](t, h.call("insert_template", map[string]any{"design_id": "d1", "name": "login"}))
	require.NotEmpty(t, inserted.Shapes)

	t.Run("Angular", func(t *testing.T) {
		res := structured[mcpadapter.ExportResult](t, h.call("export_project", map[string]any{
			"design_id": "d1", "target": "angular", "project": "shop",
		}))
		assert.Equal(t, "shop", res.Project)
		assert.Contains(t, res.Files, "package.json")
		require.NotEmpty(t, res.Design)
		for p := range res.Design {
			assert.True(t, strings.HasPrefix(p, "src/app/components/design/"), p)
		}
	})

	t.Run("Flutter", func(t *testing.T) {
		res := structured[mcpadapter.ExportResult](t, h.call("export_project", map[string]any{
			"design_id": "d1", "target": "flutter",
		}))
		assert.Contains(t, res.Files, "pubspec.yaml")
		for p := range res.Design {
			assert.True(t, strings.HasPrefix(p, "lib/design/"), p)
		}
	})
}

func TestResources(t *testing.T) {
	h := newHarness(t)
	structured[domain.Design](t, h.call("create_design", map[string]any{"id": "d1", "name": "Board"}))

	var read struct {
		Contents []struct {
			URI  string `json:"uri"`
			Text string `json:"text"`
		} `json:"contents"`
	}
	raw := h.rpc("resources/read", map[string]any{"uri": "graficador://templates"})
	require.NoError(t, json.Unmarshal(raw, &read))
	require.Len(t, read.Contents, 1)
	assert.Contains(t, read.Contents[0].Text, "calendar")

	raw = h.rpc("resources/read", map[string]any{"uri": "graficador://designs/d1"})
	require.NoError(t, json.Unmarshal(raw, &read))
	require.Len(t, read.Contents, 1)

	var design domain.Design
	require.NoError(t, json.Unmarshal([]byte(read.Contents[0].Text), &design))
	assert.Equal(t, "Board", design.Name)
}
