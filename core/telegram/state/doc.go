// Package state keeps per-user dialog state for multi-step Telegram flows.
// A Manager stores the current State with scratch values and dispatches
// incoming messages to the handler registered for that State.
package state
