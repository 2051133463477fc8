//go:build !unix

package host

import "os"

func defaultSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
