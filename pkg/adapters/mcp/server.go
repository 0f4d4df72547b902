package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/graficador/internal/logging"
	"github.com/aretw0/graficador/internal/presentation/layers"
	"github.com/aretw0/graficador/pkg/domain"
	"github.com/aretw0/graficador/pkg/editor"
	"github.com/aretw0/graficador/pkg/export"
	"github.com/aretw0/graficador/pkg/templates"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// designURIPrefix addresses designs as resources.
const designURIPrefix = "graficador://designs/"

// Service is the part of the graficador facade exposed as tools.
type Service interface {
	CreateDesign(ctx context.Context, id, name string) (*domain.Design, error)
	Design(ctx context.Context, id string) (*domain.Design, error)
	Designs(ctx context.Context) ([]string, error)
	Edit(ctx context.Context, id string, fn func(*editor.Editor) error) (*domain.Design, error)
	Targets() []string
	Export(ctx context.Context, designID, target, project string) (*export.FileSet, error)
}

// NameList wraps a list of names so it can be returned as structured content.
type NameList struct {
	Items []string `json:"items" jsonschema_description:"Names in sorted order"`
}

// Changed reports whether an operation modified the design.
type Changed struct {
	Changed bool `json:"changed" jsonschema_description:"False when the id was unknown or the shape could not move"`
}

// ShapeList is the result of inserting a template.
// Tools returning shapes declare no output schema: the shape type is recursive.
type ShapeList struct {
	Shapes []domain.Shape `json:"shapes"`
}

// ExportResult summarizes a generated project.
type ExportResult struct {
	Project string   `json:"project"`
	Files   []string `json:"files" jsonschema_description:"Every generated file path"`
	// Design holds the contents of the files that render the shapes.
	Design map[string]string `json:"design" jsonschema_description:"Path to content of the design files"`
}

// Server exposes the editor and the exporters as an MCP Server.
type Server struct {
	svc       Service
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(svc Service, version string, opts ...Option) *Server {
	s := &Server{
		svc:       svc,
		mcpServer: server.NewMCPServer("graficador-mcp", version, server.WithToolCapabilities(false)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
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

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

type designArgs struct {
	DesignID string `json:"design_id"`
}

type shapeArgs struct {
	DesignID string `json:"design_id"`
	ShapeID  string `json:"shape_id"`
}

func (s *Server) registerTools() {
	designID := mcp.WithString("design_id", mcp.Required(), mcp.Description("Design ID"))
	shapeID := mcp.WithString("shape_id", mcp.Required(), mcp.Description("Shape ID"))

	s.mcpServer.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List the names of the template library."),
		mcp.WithOutputSchema[NameList](),
	), mcp.NewStructuredToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, _ map[string]any) (NameList, error) {
		return NameList{Items: templates.Names()}, nil
	}))

	s.mcpServer.AddTool(mcp.NewTool("list_designs",
		mcp.WithDescription("List stored design IDs."),
		mcp.WithOutputSchema[NameList](),
	), mcp.NewStructuredToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, _ map[string]any) (NameList, error) {
		ids, err := s.svc.Designs(ctx)
		if ids == nil {
			ids = []string{}
		}
		return NameList{Items: ids}, err
	}))

	s.mcpServer.AddTool(mcp.NewTool("create_design",
		mcp.WithDescription("Create an empty design. A random ID is generated when none is given."),
		mcp.WithString("id", mcp.Description("Design ID (optional)")),
		mcp.WithString("name", mcp.Description("Human readable name (optional)")),
	), mcp.NewStructuredToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}) (domain.Design, error) {
		return deref(s.svc.CreateDesign(ctx, args.ID, args.Name))
	}))

	s.mcpServer.AddTool(mcp.NewTool("get_design",
		mcp.WithDescription("Get a design with its full shape tree."),
		designID,
	), mcp.NewStructuredToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args designArgs) (domain.Design, error) {
		return deref(s.svc.Design(ctx, args.DesignID))
	}))

	s.mcpServer.AddTool(mcp.NewTool("get_layers",
		mcp.WithDescription("Get the layer tree of a design as a Markdown outline, bottom layer first."),
		designID,
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("design_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		design, err := s.svc.Design(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(layers.Outline(design, layers.Options{FullIDs: true})), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("add_shape",
		mcp.WithDescription("Add a shape on top of the design and select it."),
		designID,
		mcp.WithString("type", mcp.Required(), mcp.Enum(drawableTypes()...), mcp.Description("Shape type")),
		mcp.WithObject("props", mcp.Description("Shape properties such as x, y, width, height, fill, stroke, strokeWidth, rotation, text, fontSize, x2, y2")),
	), mcp.NewStructuredToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args struct {
		DesignID string         `json:"design_id"`
		Type     string         `json:"type"`
		Props    map[string]any `json:"props"`
	}) (domain.Shape, error) {
		var shape domain.Shape
		err := s.edit(ctx, args.DesignID, func(ed *editor.Editor) error {
			var err error
			shape, err = ed.AddShape(ctx, domain.ShapeType(args.Type), args.Props)
			return err
		})
		return shape, err
	}))

	for _, t := range []struct {
		name, desc string
		op         func(*editor.Editor, context.Context, string) bool
	}{
		{"delete_shape", "Delete a shape and everything inside it.", (*editor.Editor).DeleteShape},
		{"move_forward", "Move a shape one step up in z-order within its sibling list.", (*editor.Editor).MoveForward},
		{"move_backward", "Move a shape one step down in z-order within its sibling list.", (*editor.Editor).MoveBackward},
		{"select_shape", "Select a shape. An empty shape_id clears the selection.", (*editor.Editor).SelectShape},
	} {
		op := t.op
		s.mcpServer.AddTool(mcp.NewTool(t.name,
			mcp.WithDescription(t.desc),
			designID,
			shapeID,
			mcp.WithOutputSchema[Changed](),
		), mcp.NewStructuredToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args shapeArgs) (Changed, error) {
			var out Changed
			err := s.edit(ctx, args.DesignID, func(ed *editor.Editor) error {
				out.Changed = op(ed, ctx, args.ShapeID)
				return nil
			})
			return out, err
		}))
	}

	s.mcpServer.AddTool(mcp.NewTool("group_shapes",
		mcp.WithDescription("Wrap two or more sibling shapes into a new group."),
		designID,
		mcp.WithArray("ids", mcp.Required(), mcp.WithStringItems(), mcp.Description("IDs of the shapes to group")),
	), mcp.NewStructuredToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args struct {
		DesignID string   `json:"design_id"`
		IDs      []string `json:"ids"`
	}) (domain.Shape, error) {
		var group domain.Shape
		err := s.edit(ctx, args.DesignID, func(ed *editor.Editor) error {
			var err error
			group, err = ed.GroupShapes(ctx, args.IDs)
			return err
		})
		return group, err
	}))

	s.mcpServer.AddTool(mcp.NewTool("ungroup_shapes",
		mcp.WithDescription("Dissolve a group, splicing its children into its place."),
		designID,
		shapeID,
		mcp.WithOutputSchema[Changed](),
	), mcp.NewStructuredToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args shapeArgs) (Changed, error) {
		var out Changed
		err := s.edit(ctx, args.DesignID, func(ed *editor.Editor) error {
			var err error
			out.Changed, err = ed.UngroupShapes(ctx, args.ShapeID)
			return err
		})
		return out, err
	}))

	s.mcpServer.AddTool(mcp.NewTool("insert_template",
		mcp.WithDescription("Insert every shape of a library template on top of the design."),
		designID,
		mcp.WithString("name", mcp.Required(), mcp.Enum(templates.Names()...), mcp.Description("Template name")),
	), mcp.NewStructuredToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args struct {
		DesignID string `json:"design_id"`
		Name     string `json:"name"`
	}) (ShapeList, error) {
		var out ShapeList
		err := s.edit(ctx, args.DesignID, func(ed *editor.Editor) error {
			var err error
			out.Shapes, err = ed.InsertTemplate(ctx, args.Name)
			return err
		})
		return out, err
	}))

	s.mcpServer.AddTool(mcp.NewTool("export_project",
		mcp.WithDescription("Generate the project for a target and return its file list and design files."),
		designID,
		mcp.WithString("target", mcp.Required(), mcp.Enum(s.svc.Targets()...), mcp.Description("Export target")),
		mcp.WithString("project", mcp.Description("Project name (optional, target default otherwise)")),
		mcp.WithOutputSchema[ExportResult](),
	), mcp.NewStructuredToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args struct {
		DesignID string `json:"design_id"`
		Target   string `json:"target"`
		Project  string `json:"project"`
	}) (ExportResult, error) {
		fs, err := s.svc.Export(ctx, args.DesignID, args.Target, args.Project)
		if err != nil {
			return ExportResult{}, err
		}
		out := ExportResult{Project: fs.Project, Files: fs.Paths(), Design: make(map[string]string)}
		for _, f := range fs.Files() {
			if isDesignFile(f.Path) {
				out.Design[f.Path] = string(f.Content)
			}
		}
		return out, nil
	}))
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("graficador://templates", "Template library",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, _ := json.Marshal(NameList{Items: templates.Names()})
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(designURIPrefix+"{id}", "Design",
		mcp.WithTemplateMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := strings.TrimPrefix(request.Params.URI, designURIPrefix)
		design, err := s.svc.Design(ctx, id)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(design)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func (s *Server) edit(ctx context.Context, id string, fn func(*editor.Editor) error) error {
	_, err := s.svc.Edit(ctx, id, fn)
	if err != nil {
		s.logger.Debug("MCP edit failed", "design_id", id, "err", err)
	}
	return err
}

func deref[T any](v *T, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	return *v, nil
}

func drawableTypes() []string {
	types := domain.DrawableTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

// isDesignFile reports whether the path belongs to the generated design component.
func isDesignFile(p string) bool {
	return strings.Contains("/"+p, "/design/")
}
