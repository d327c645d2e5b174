package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/tetra/internal/buffer"
	"github.com/hpungsan/tetra/internal/editor"
	"github.com/hpungsan/tetra/internal/errors"
	"github.com/hpungsan/tetra/internal/event"
	"github.com/hpungsan/tetra/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers. The editor is not safe
// for concurrent use, so every handler runs under mu.
type Handlers struct {
	mu sync.Mutex
	ed *editor.Editor
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(ed *editor.Editor) *Handlers {
	return &Handlers{ed: ed}
}

// Request types for each tool

// HandleRequest addresses a buffer; an empty handle means the current one.
type HandleRequest struct {
	Handle string `json:"handle,omitempty"`
}

// OpenRequest represents the arguments for buffer_open.
type OpenRequest struct {
	Path string `json:"path"`
}

// SetTextRequest represents the arguments for buffer_set_text.
type SetTextRequest struct {
	Handle string `json:"handle,omitempty"`
	Text   string `json:"text"`
}

// SaveAsRequest represents the arguments for buffer_save_as.
type SaveAsRequest struct {
	Handle string `json:"handle,omitempty"`
	Path   string `json:"path"`
}

// CloseRequest represents the arguments for buffer_close.
type CloseRequest struct {
	Handle    string `json:"handle"`
	OnUnsaved string `json:"on_unsaved,omitempty"`
}

// ModuleRequest represents the arguments for module_enable/module_disable.
type ModuleRequest struct {
	ID string `json:"id"`
}

// SettingSetRequest represents the arguments for setting_set.
type SettingSetRequest struct {
	Module  string `json:"module"`
	Setting string `json:"setting"`
	Value   string `json:"value"`
}

// ExportRequest represents the arguments for setting_export.
type ExportRequest struct {
	Path   string `json:"path,omitempty"`
	Module string `json:"module,omitempty"`
}

// ImportRequest represents the arguments for setting_import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// Response types

// BufferOutput is a buffer description, optionally with its text.
type BufferOutput struct {
	editor.BufferInfo
	Text *string `json:"text,omitempty"`
}

// SaveOutput reports the outcome of a save.
type SaveOutput struct {
	Status string            `json:"status"`
	Buffer editor.BufferInfo `json:"buffer"`
}

// CloseOutput reports whether a buffer was closed.
type CloseOutput struct {
	Closed bool `json:"closed"`
}

// EventOutput describes the last event.
type EventOutput struct {
	Event       string `json:"event"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// Handler implementations

// HandleBufferNew handles the buffer_new tool call.
func (h *Handlers) HandleBufferNew(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle := h.ed.CreateNewFile()
	info, err := h.info(handle)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(info)
}

// HandleBufferOpen handles the buffer_open tool call.
func (h *Handlers) HandleBufferOpen(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[OpenRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Path == "" {
		return errorResult(errors.NewInvalidRequest("path is required")), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	handle, err := h.ed.OpenPath(input.Path)
	if err != nil {
		return errorResult(err), nil
	}
	info, err := h.info(handle)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(info)
}

// HandleBufferList handles the buffer_list tool call.
func (h *Handlers) HandleBufferList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return successResult(map[string]any{"buffers": h.ed.ListBuffers()})
}

// HandleBufferGet handles the buffer_get tool call.
func (h *Handlers) HandleBufferGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HandleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	handle := h.resolve(input.Handle)
	info, err := h.info(handle)
	if err != nil {
		return errorResult(err), nil
	}
	b, err := h.ed.Buffer(handle)
	if err != nil {
		return errorResult(err), nil
	}
	text := b.Text()
	return successResult(BufferOutput{BufferInfo: info, Text: &text})
}

// HandleBufferSwitch handles the buffer_switch tool call.
func (h *Handlers) HandleBufferSwitch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HandleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Handle == "" {
		return errorResult(errors.NewInvalidRequest("handle is required")), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ed.SwitchBuffer(buffer.Handle(input.Handle)); err != nil {
		return errorResult(err), nil
	}
	info, err := h.info(buffer.Handle(input.Handle))
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(info)
}

// HandleBufferSetText handles the buffer_set_text tool call.
func (h *Handlers) HandleBufferSetText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SetTextRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	handle := h.resolve(input.Handle)
	if err := h.ed.SetText(handle, input.Text); err != nil {
		return errorResult(err), nil
	}
	info, err := h.info(handle)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(info)
}

// HandleBufferSave handles the buffer_save tool call.
func (h *Handlers) HandleBufferSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HandleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	handle := h.resolve(input.Handle)
	status, err := h.ed.SaveBuffer(handle)
	if err != nil {
		return errorResult(err), nil
	}
	return h.saveResult(handle, status)
}

// HandleBufferSaveAs handles the buffer_save_as tool call.
func (h *Handlers) HandleBufferSaveAs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SaveAsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	handle := h.resolve(input.Handle)
	status, err := h.ed.SaveBufferAs(handle, input.Path)
	if err != nil {
		return errorResult(err), nil
	}
	return h.saveResult(handle, status)
}

// HandleBufferClose handles the buffer_close tool call.
func (h *Handlers) HandleBufferClose(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CloseRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Handle == "" {
		return errorResult(errors.NewInvalidRequest("handle is required")), nil
	}
	choice, err := editor.ParseCloseChoice(input.OnUnsaved)
	if err != nil {
		return errorResult(err), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	closed, err := h.ed.CloseBufferWith(buffer.Handle(input.Handle), choice)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(CloseOutput{Closed: closed})
}

// HandleModuleList handles the module_list tool call.
func (h *Handlers) HandleModuleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return successResult(map[string]any{"modules": h.ed.ListModules()})
}

// HandleModuleEnable handles the module_enable tool call.
func (h *Handlers) HandleModuleEnable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.toggleModule(req, (*editor.Editor).EnableModule)
}

// HandleModuleDisable handles the module_disable tool call.
func (h *Handlers) HandleModuleDisable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.toggleModule(req, (*editor.Editor).DisableModule)
}

func (h *Handlers) toggleModule(req mcp.CallToolRequest, toggle func(*editor.Editor, string) error) (*mcp.CallToolResult, error) {
	input, err := decode[ModuleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.ID == "" {
		return errorResult(errors.NewInvalidRequest("id is required")), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := toggle(h.ed, input.ID); err != nil {
		return errorResult(err), nil
	}
	m, err := h.ed.FindModule(input.ID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"id":      m.ID(),
		"enabled": m.Enabled(),
		"loaded":  m.Loaded(),
	})
}

// HandleSettingSet handles the setting_set tool call.
func (h *Handlers) HandleSettingSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SettingSetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Module == "" || input.Setting == "" {
		return errorResult(errors.NewInvalidRequest("module and setting are required")), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ed.SetSetting(input.Module, input.Setting, input.Value); err != nil {
		return errorResult(err), nil
	}
	return successResult(ops.SettingValue{
		Key:   input.Module + ":" + input.Setting,
		Value: input.Value,
	})
}

// HandleSettingSave handles the setting_save tool call.
func (h *Handlers) HandleSettingSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ed.SaveSettings(); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"saved": true})
}

// HandleSettingExport handles the setting_export tool call.
func (h *Handlers) HandleSettingExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := h.ed.ExportSettings(ctx, ops.ExportInput{
		Path:   input.Path,
		Module: input.Module,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSettingImport handles the setting_import tool call.
func (h *Handlers) HandleSettingImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := h.ed.ImportSettings(ops.ImportInput{
		Path: input.Path,
		Mode: ops.ImportMode(input.Mode),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleEventLast handles the event_last tool call.
func (h *Handlers) HandleEventLast(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	last := h.ed.LastEvent()
	return successResult(EventOutput{
		Event:       last.String(),
		Description: event.Describe(last),
		Count:       h.ed.EventCount(),
	})
}

func (h *Handlers) resolve(handle string) buffer.Handle {
	if handle == "" {
		current, _ := h.ed.CurrentBuffer()
		return current
	}
	return buffer.Handle(handle)
}

func (h *Handlers) info(handle buffer.Handle) (editor.BufferInfo, error) {
	for _, info := range h.ed.ListBuffers() {
		if info.Handle == handle {
			return info, nil
		}
	}
	return editor.BufferInfo{}, errors.NewNotFound("buffer", string(handle))
}

func (h *Handlers) saveResult(handle buffer.Handle, status buffer.SaveStatus) (*mcp.CallToolResult, error) {
	info, err := h.info(handle)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(SaveOutput{Status: status.String(), Buffer: info})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var tErr *errors.TetraError
	if stderrors.As(err, &tErr) {
		errorObj := map[string]any{
			"code":    tErr.Code,
			"message": err.Error(),
			"status":  tErr.Status,
		}
		if tErr.Code != errors.ErrInternal && tErr.Details != nil {
			errorObj["details"] = tErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
