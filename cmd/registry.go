package cmd

import (
	"sync"

	"github.com/spf13/cobra"
)

var (
	registryMu sync.Mutex
	registered []*cobra.Command
	applied    bool
)

// Register adds a command. Call from init(). Panics once Apply has run.
func Register(c *cobra.Command) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if applied {
		panic("cmd/registry: locked (register only during init before Apply)")
	}
	registered = append(registered, c)
}

// Apply adds all registered commands to root. Locks the registry; later
// calls are no-ops.
func Apply() {
	registryMu.Lock()
	defer registryMu.Unlock()
	if applied {
		return
	}
	rootCmd.AddCommand(registered...)
	applied = true
}
