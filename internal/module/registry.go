package module

// Constructor builds a module bound to a host.
type Constructor func(ctx Context, hooks *Interceptor) (*Module, error)

// Entry is one row of a host's static module table. Modules are constructed,
// loaded and refreshed in table order and unloaded in reverse.
type Entry struct {
	ID  string
	New Constructor
}
