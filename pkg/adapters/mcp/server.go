// Package mcp exposes the flow editor as an MCP server, so an AI assistant
// can inspect, edit, and export the flow alongside the human editor.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	storyflow "github.com/storyflow/storyflow"
	"github.com/storyflow/storyflow/pkg/domain"
)

// Server wraps a Workspace and exposes it as an MCP Server.
type Server struct {
	ws        *storyflow.Workspace
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance over the workspace.
func NewServer(ws *storyflow.Workspace) *Server {
	s := &Server{
		ws:        ws,
		mcpServer: server.NewMCPServer("storyflow-mcp", strings.TrimSpace(storyflow.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	// TOOL: inspect_graph
	s.mcpServer.AddTool(mcp.NewTool("inspect_graph",
		mcp.WithDescription("Get the full flow graph (nodes, edges, catalogs) as JSON."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.ws.Snapshot())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: export_document
	s.mcpServer.AddTool(mcp.NewTool("export_document",
		mcp.WithDescription("Build the training export document (intents, actions, stories) without delivering it."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, warnings, err := s.ws.BuildDocument()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
		}
		out := map[string]any{"document": doc}
		if len(warnings) > 0 {
			msgs := make([]string, 0, len(warnings))
			for _, w := range warnings {
				msgs = append(msgs, w.Message)
			}
			out["warnings"] = msgs
		}
		jsonBytes, _ := json.Marshal(out)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: add_node
	addTool := mcp.NewTool("add_node",
		mcp.WithDescription("Add a node to the flow. Kind is one of start, intent, action, end."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Node kind")),
	)
	s.mcpServer.AddTool(addTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind, err := request.RequireString("kind")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		node, err := s.ws.Store().AddNode(domain.NodeKind(kind), domain.Position{})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("add node failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(node)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: connect_nodes
	connectTool := mcp.NewTool("connect_nodes",
		mcp.WithDescription("Create a directed edge between two existing nodes."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Source node id")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Target node id")),
	)
	s.mcpServer.AddTool(connectTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		source, err := request.RequireString("source")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		target, err := request.RequireString("target")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		edge, err := s.ws.Store().Connect(source, target)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("connect failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(edge)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: remove_node
	removeTool := mcp.NewTool("remove_node",
		mcp.WithDescription("Remove a node and every edge touching it."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node id")),
	)
	s.mcpServer.AddTool(removeTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.ws.Store().RemoveNode(id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("remove failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("removed node %s", id)), nil
	})
}

func (s *Server) registerResources() {
	// EXPOSE: storyflow://graph
	s.mcpServer.AddResource(mcp.NewResource("storyflow://graph", "Current Flow Graph",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.ws.Snapshot())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal graph: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "storyflow://graph",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
