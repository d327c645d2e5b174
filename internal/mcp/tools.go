package mcp

import "github.com/mark3labs/mcp-go/mcp"

var handleParam = mcp.WithString("handle",
	mcp.Description("Buffer handle from buffer_list. Defaults to the current buffer."),
)

var bufferNewToolDef = mcp.NewTool("buffer_new",
	mcp.WithDescription("Create an empty buffer and make it current."),
)

var bufferOpenToolDef = mcp.NewTool("buffer_open",
	mcp.WithDescription("Open a file into a new current buffer. The file's encoding is detected."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Path of the file to open")),
)

var bufferListToolDef = mcp.NewTool("buffer_list",
	mcp.WithDescription("List open buffers in the order they were opened."),
)

var bufferGetToolDef = mcp.NewTool("buffer_get",
	mcp.WithDescription("Return a buffer's description and text."),
	handleParam,
)

var bufferSwitchToolDef = mcp.NewTool("buffer_switch",
	mcp.WithDescription("Make a buffer current."),
	mcp.WithString("handle", mcp.Required(), mcp.Description("Buffer handle from buffer_list")),
)

var bufferSetTextToolDef = mcp.NewTool("buffer_set_text",
	mcp.WithDescription("Replace a buffer's text. The buffer is left unsaved."),
	handleParam,
	mcp.WithString("text", mcp.Required(), mcp.Description("New buffer text")),
)

var bufferSaveToolDef = mcp.NewTool("buffer_save",
	mcp.WithDescription("Write a buffer to its linked file. Buffers without a file report status canceled; use buffer_save_as."),
	handleParam,
)

var bufferSaveAsToolDef = mcp.NewTool("buffer_save_as",
	mcp.WithDescription("Write a buffer to a new path and link it there."),
	handleParam,
	mcp.WithString("path", mcp.Required(), mcp.Description("Destination path")),
)

var bufferCloseToolDef = mcp.NewTool("buffer_close",
	mcp.WithDescription("Close a buffer. The last open buffer is never closed."),
	mcp.WithString("handle", mcp.Required(), mcp.Description("Buffer handle from buffer_list")),
	mcp.WithString("on_unsaved",
		mcp.Description("What to do with unsaved changes (default: cancel)"),
		mcp.Enum("save", "discard", "cancel"),
	),
)

var moduleListToolDef = mcp.NewTool("module_list",
	mcp.WithDescription("List modules with their state and live settings."),
)

var moduleEnableToolDef = mcp.NewTool("module_enable",
	mcp.WithDescription("Enable and load a module."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Module id")),
)

var moduleDisableToolDef = mcp.NewTool("module_disable",
	mcp.WithDescription("Disable and unload a module. Required modules cannot be disabled."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Module id")),
)

var settingSetToolDef = mcp.NewTool("setting_set",
	mcp.WithDescription("Set a live setting value. Call setting_save to persist it."),
	mcp.WithString("module", mcp.Required(), mcp.Description("Module id")),
	mcp.WithString("setting", mcp.Required(), mcp.Description("Setting id")),
	mcp.WithString("value", mcp.Required(), mcp.Description("New value")),
)

var settingSaveToolDef = mcp.NewTool("setting_save",
	mcp.WithDescription("Persist the live settings of every module."),
)

var settingExportToolDef = mcp.NewTool("setting_export",
	mcp.WithDescription("Save settings and export them to a ';'-separated CSV file."),
	mcp.WithString("path", mcp.Description("Output path (default: ~/.tetra/exports/<module>-<timestamp>.csv)")),
	mcp.WithString("module", mcp.Description("Only export this module's settings")),
)

var settingImportToolDef = mcp.NewTool("setting_import",
	mcp.WithDescription("Import settings from a ';'-separated CSV file and save them."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Input path")),
	mcp.WithString("mode",
		mcp.Description("error: apply nothing if any record is bad; skip: apply the good records"),
		mcp.Enum("error", "skip"),
	),
)

var eventLastToolDef = mcp.NewTool("event_last",
	mcp.WithDescription("Return the most recent editor event and the number of events raised."),
)
