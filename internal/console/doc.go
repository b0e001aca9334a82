// Package console is the operator-facing side of the relay: it turns typed
// input into a relay payload, sends it and renders what comes back.
package console
