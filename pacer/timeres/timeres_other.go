//go:build !linux && !windows

package timeres

func raise() (*Handle, error) {
	return nil, ErrUnsupported
}
