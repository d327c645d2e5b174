package buffer

// SaveStatus is the outcome of a save request that may involve a file picker.
type SaveStatus int

const (
	Saved SaveStatus = iota
	Canceled
)

func (s SaveStatus) String() string {
	if s == Canceled {
		return "canceled"
	}
	return "saved"
}
