// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import "sync"

// bootstrapGate is the per-[Transport] binary semaphore gating
// concurrent first-time sniff-on-startup: only one caller actually
// sniffs while the rest wait for it to finish, after which every
// waiter proceeds with the updated topology. Each [NewTransport] call
// creates its own gate, so two Transports sharing one [NodePool] each
// sniff on startup once.
type bootstrapGate struct {
	mu   sync.Mutex
	once sync.Once
	done bool
}

// newBootstrapGate returns a fresh, unfired [*bootstrapGate].
func newBootstrapGate() *bootstrapGate {
	return &bootstrapGate{}
}

// run executes fn at most once across all concurrent callers, blocking
// every other caller until the first invocation returns. It is a thin
// wrapper around [sync.Once] scoped to one [Transport]'s lifetime.
func (g *bootstrapGate) run(fn func() error) error {
	var err error
	g.once.Do(func() {
		err = fn()
		g.mu.Lock()
		g.done = true
		g.mu.Unlock()
	})
	return err
}

// fired reports whether the gate has already run its function.
func (g *bootstrapGate) fired() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.done
}
