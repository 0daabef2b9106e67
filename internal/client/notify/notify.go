// Package notify is the client's user-facing notification surface - the
// CLI stand-in for the web client's toasts. Content is plain text only.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Notifier delivers one-line messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// WriterNotifier prints notifications to an io.Writer (normally stdout).
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "✓ %s\n", msg)
}

func (n *WriterNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "✗ %s\n", msg)
}
