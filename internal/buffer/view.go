package buffer

// View is the capability a presentation widget exposes to the editor core.
type View interface {
	Text() string
	SetText(text string)
	OnTextChanged(fn func())
}

// MemoryView is a View without a widget behind it, used by headless hosts
// and tests.
type MemoryView struct {
	text  string
	hooks []func()
}

// NewMemoryView creates an empty MemoryView.
func NewMemoryView() *MemoryView {
	return &MemoryView{}
}

func (v *MemoryView) Text() string {
	return v.text
}

// SetText replaces the text and fires every OnTextChanged callback.
func (v *MemoryView) SetText(text string) {
	v.text = text
	for _, fn := range v.hooks {
		fn()
	}
}

func (v *MemoryView) OnTextChanged(fn func()) {
	v.hooks = append(v.hooks, fn)
}
