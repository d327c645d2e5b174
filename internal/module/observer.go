package module

import "github.com/hpungsan/tetra/internal/errors"

// Observer receives lifecycle notifications for every module in a host.
// Errors from Constructed abort the construction.
type Observer interface {
	Constructed(m *Module) error
	EnabledChanged(m *Module) error
	Saved(m *Module) error
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) Constructed(*Module) error    { return nil }
func (NopObserver) EnabledChanged(*Module) error { return nil }
func (NopObserver) Saved(*Module) error          { return nil }

// Interceptor is the host-wide slot holding the installed Observer. Modules
// built with the same Interceptor all report to whatever observer is
// installed at the time of each lifecycle step.
type Interceptor struct {
	observer     Observer
	constructing int
}

// NewInterceptor returns an interceptor with no observer installed.
func NewInterceptor() *Interceptor {
	return &Interceptor{}
}

// Install sets the observer. It fails while a module is being constructed so
// that no module sees half of its construction observed.
func (i *Interceptor) Install(o Observer) error {
	if i.constructing > 0 {
		return errors.NewObserverBusy()
	}
	i.observer = o
	return nil
}

// Remove uninstalls the observer.
func (i *Interceptor) Remove() error {
	if i.constructing > 0 {
		return errors.NewObserverBusy()
	}
	i.observer = nil
	return nil
}

// Active reports whether an observer is installed.
func (i *Interceptor) Active() bool {
	return i != nil && i.observer != nil
}

func (i *Interceptor) current() Observer {
	if i == nil || i.observer == nil {
		return NopObserver{}
	}
	return i.observer
}

func (i *Interceptor) begin() {
	if i != nil {
		i.constructing++
	}
}

func (i *Interceptor) end() {
	if i != nil {
		i.constructing--
	}
}
