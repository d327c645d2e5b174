package errors

import (
	"fmt"
	"testing"
)

func TestTetraError_Error(t *testing.T) {
	err := &TetraError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "module not found: statusbar",
	}

	expected := "NOT_FOUND: module not found: statusbar"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("path is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "path is required" {
		t.Errorf("Message = %q, want %q", err.Message, "path is required")
	}
}

func TestNewInvalidSettingValue(t *testing.T) {
	err := NewInvalidSettingValue("tab_width", "99", "above maximum 16")

	if err.Code != ErrInvalidSettingValue {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidSettingValue)
	}
	if err.Details["setting"] != "tab_width" {
		t.Errorf("Details[setting] = %v, want %q", err.Details["setting"], "tab_width")
	}
	if err.Details["value"] != "99" {
		t.Errorf("Details[value] = %v, want %q", err.Details["value"], "99")
	}
}

func TestNewNoSyncFile(t *testing.T) {
	err := NewNoSyncFile("Untitled")

	if err.Code != ErrNoSyncFile {
		t.Errorf("Code = %q, want %q", err.Code, ErrNoSyncFile)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Details["buffer"] != "Untitled" {
		t.Errorf("Details[buffer] = %v, want %q", err.Details["buffer"], "Untitled")
	}
}

func TestNewCannotDisable(t *testing.T) {
	err := NewCannotDisable("database")

	if err.Code != ErrCannotDisable {
		t.Errorf("Code = %q, want %q", err.Code, ErrCannotDisable)
	}
	if err.Details["module"] != "database" {
		t.Errorf("Details[module] = %v, want %q", err.Details["module"], "database")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("setting", "appearance:theme_file")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "appearance:theme_file" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "appearance:theme_file")
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		err := NewInternal(fmt.Errorf("database connection failed"))

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		if err.Status != 500 {
			t.Errorf("Status = %d, want 500", err.Status)
		}
		if err.Message != "database connection failed" {
			t.Errorf("Message = %q, want %q", err.Message, "database connection failed")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)

		if err.Message != "internal error" {
			t.Errorf("Message = %q, want %q", err.Message, "internal error")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		err := NewNoSyncFile("x")
		if !Is(err, ErrNoSyncFile) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		err := NewNoSyncFile("x")
		if Is(err, ErrNotFound) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("non-TetraError", func(t *testing.T) {
		err := fmt.Errorf("plain error")
		if Is(err, ErrNotFound) {
			t.Error("Is() = true, want false for non-TetraError")
		}
	})

	t.Run("wrapped TetraError", func(t *testing.T) {
		wrapped := fmt.Errorf("save: %w", NewNoSyncFile("x"))
		if !Is(wrapped, ErrNoSyncFile) {
			t.Error("Is() = false, want true for wrapped TetraError")
		}
	})
}
