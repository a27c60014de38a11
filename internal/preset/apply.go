package preset

import (
	"github.com/wavekit/synthdeck/internal/param"
)

// Writer is the subset of the parameter store a restore drives.
type Writer interface {
	Write(addr param.Address, value uint8) error
}

// ApplyError reports one address that could not be restored.
type ApplyError struct {
	Address param.Address
	Err     error
}

func (e ApplyError) Error() string {
	return e.Err.Error()
}

// Apply writes every value of a loaded preset through the store. Restores
// are best-effort: each address is an independent write, a failure does not
// abort the rest, and the failures are returned for reporting. Address order
// is unspecified.
func Apply(w Writer, values map[param.Address]uint8) []ApplyError {
	var failed []ApplyError
	for addr, value := range values {
		if err := w.Write(addr, value); err != nil {
			failed = append(failed, ApplyError{Address: addr, Err: err})
		}
	}
	return failed
}
