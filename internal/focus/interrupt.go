package focus

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"
)

// Interrupter reports whether the user asked to stop the current countdown.
// Pending consumes the request: it returns true at most once per request.
type Interrupter interface {
	Pending() bool
}

// Chan is an Interrupter fed by sends on the channel.
type Chan chan struct{}

// Pending receives without blocking.
func (c Chan) Pending() bool {
	select {
	case <-c:
		return true
	default:
		return false
	}
}

// Never is an Interrupter that never fires.
var Never Interrupter = Chan(nil)

// Stdin returns an Interrupter that fires each time the user presses Enter
// on f. When f is not a terminal no reader is started and it never fires.
// The reader goroutine lives until f reaches EOF or the process exits.
func Stdin(f *os.File) Interrupter {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return Never
	}
	ch := make(Chan, 1)
	go watchLines(f, ch)
	return ch
}

func watchLines(r io.Reader, ch Chan) {
	br := bufio.NewReader(r)
	for {
		if _, err := br.ReadString('\n'); err != nil {
			return
		}
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
