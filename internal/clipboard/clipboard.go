// Package clipboard is the copy action's destination.
//
// CodeVault runs as a personal local app, so System writes to the clipboard
// of the machine the server runs on. Deployments where that makes no sense
// use Discard and let the browser copy the text itself.
package clipboard

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// Writer places text on a clipboard.
type Writer interface {
	Write(text string) error
}

// writeAll is swapped out in tests.
var writeAll = clipboard.WriteAll

// System writes to the host clipboard.
type System struct{}

// Write copies text exactly as given.
func (System) Write(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard: no clipboard utility available on this host")
	}
	if err := writeAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}

// Discard accepts and drops everything.
type Discard struct{}

func (Discard) Write(string) error { return nil }

// Recorder keeps every write in memory.
type Recorder struct {
	mu     sync.Mutex
	writes []string
}

func (r *Recorder) Write(text string) error {
	r.mu.Lock()
	r.writes = append(r.writes, text)
	r.mu.Unlock()
	return nil
}

// Last returns the most recent write and whether there was one.
func (r *Recorder) Last() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.writes) == 0 {
		return "", false
	}
	return r.writes[len(r.writes)-1], true
}

// New returns the Writer for a config value: "system" or "none".
func New(kind string) (Writer, error) {
	switch kind {
	case "", "none":
		return Discard{}, nil
	case "system":
		return System{}, nil
	default:
		return nil, fmt.Errorf("clipboard: unknown clipboard %q (want system or none)", kind)
	}
}
