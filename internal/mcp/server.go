package mcp

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/tetra/internal/config"
	"github.com/hpungsan/tetra/internal/editor"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"buffer", "module", "setting", "event"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"buffer_new": {
		def:     bufferNewToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBufferNew },
	},
	"buffer_open": {
		def:     bufferOpenToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBufferOpen },
	},
	"buffer_list": {
		def:     bufferListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBufferList },
	},
	"buffer_get": {
		def:     bufferGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBufferGet },
	},
	"buffer_switch": {
		def:     bufferSwitchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBufferSwitch },
	},
	"buffer_set_text": {
		def:     bufferSetTextToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBufferSetText },
	},
	"buffer_save": {
		def:     bufferSaveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBufferSave },
	},
	"buffer_save_as": {
		def:     bufferSaveAsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBufferSaveAs },
	},
	"buffer_close": {
		def:     bufferCloseToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBufferClose },
	},
	"module_list": {
		def:     moduleListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleModuleList },
	},
	"module_enable": {
		def:     moduleEnableToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleModuleEnable },
	},
	"module_disable": {
		def:     moduleDisableToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleModuleDisable },
	},
	"setting_set": {
		def:     settingSetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSettingSet },
	},
	"setting_save": {
		def:     settingSaveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSettingSave },
	},
	"setting_export": {
		def:     settingExportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSettingExport },
	},
	"setting_import": {
		def:     settingImportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSettingImport },
	},
	"event_last": {
		def:     eventLastToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleEventLast },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	known := make(map[string]bool, len(KnownTypes))
	for _, t := range KnownTypes {
		known[t] = true
	}

	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "buffer_open" → "buffer").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name := range toolRegistry {
		if typeSet[GetTypeForTool(name)] {
			tools = append(tools, name)
		}
	}
	return tools
}

// NewServer creates a new MCP server exposing ed as tools.
// Tools listed in cfg.DisabledTools or belonging to cfg.DisabledTypes
// are excluded from registration.
func NewServer(ed *editor.Editor, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"tetra",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(ed)

	// Build set of disabled tools: first expand types, then add individual tools
	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(ed *editor.Editor, cfg *config.Config, version string) error {
	return server.ServeStdio(NewServer(ed, cfg, version))
}
