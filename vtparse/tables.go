// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vtparse/tables.go
// Summary: Dense VT500 state transition table keyed by (state, byte).
// Usage: Built once at init; the parser indexes it per byte, no branching.
//
// The tables follow Paul Williams' VT500-series parser. Documented
// deviations:
//   - 0x3A in CSI parameter position collects a sub-parameter (xterm/kitty
//     SGR practice) instead of entering CSI_IGNORE.
//   - OSC strings may terminate on BEL as well as ST (xterm practice).
//   - C1 controls 0x80..0x9F are not dispatched as single bytes: the input
//     stream is UTF-8, where those bytes are continuations. C1 semantics
//     remain reachable through their ESC Fe aliases.

package vtparse

// State enumerates the parser states.
type State uint8

const (
	StateGround State = iota
	StateEscape
	StateEscapeIntermediate
	StateCsiEntry
	StateCsiParam
	StateCsiIntermediate
	StateCsiIgnore
	StateDcsEntry
	StateDcsParam
	StateDcsIntermediate
	StateDcsPassthrough
	StateDcsIgnore
	StateOscString
	StateSosPmApcString
	stateCount
)

// String returns the state name for diagnostics.
func (s State) String() string {
	names := [...]string{
		"ground", "escape", "escape-intermediate", "csi-entry", "csi-param",
		"csi-intermediate", "csi-ignore", "dcs-entry", "dcs-param",
		"dcs-intermediate", "dcs-passthrough", "dcs-ignore", "osc-string",
		"sos-pm-apc-string",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// Action enumerates the table actions.
type Action uint8

const (
	ActionNone Action = iota
	ActionIgnore
	ActionPrint
	ActionExecute
	ActionClear
	ActionCollect
	ActionParam
	ActionEscDispatch
	ActionCsiDispatch
	ActionHook
	ActionPut
	ActionUnhook
	ActionOscStart
	ActionOscPut
	ActionOscEnd
)

// transition packs an action and a next state. next == stateCount means
// "stay in the current state".
type transition struct {
	action Action
	next   State
}

const stay = stateCount

var table [stateCount][256]transition

func fill(s State, lo, hi int, a Action, next State) {
	for b := lo; b <= hi; b++ {
		table[s][b] = transition{a, next}
	}
}

func one(s State, b int, a Action, next State) { fill(s, b, b, a, next) }

// anywhere installs the transitions every state honours: CAN/SUB abort to
// ground with an execute, ESC restarts a sequence.
func anywhere(s State) {
	one(s, 0x18, ActionExecute, StateGround)
	one(s, 0x1A, ActionExecute, StateGround)
	one(s, 0x1B, ActionClear, StateEscape)
}

// c0 installs the "execute C0 inside sequences" block shared by the escape
// and CSI states.
func c0(s State) {
	fill(s, 0x00, 0x17, ActionExecute, stay)
	one(s, 0x19, ActionExecute, stay)
	fill(s, 0x1C, 0x1F, ActionExecute, stay)
}

// c0Ignore installs the DCS variant: C0 is swallowed, not executed.
func c0Ignore(s State) {
	fill(s, 0x00, 0x17, ActionIgnore, stay)
	one(s, 0x19, ActionIgnore, stay)
	fill(s, 0x1C, 0x1F, ActionIgnore, stay)
}

func init() {
	// Ground
	c0(StateGround)
	fill(StateGround, 0x20, 0x7E, ActionPrint, stay)
	one(StateGround, 0x7F, ActionIgnore, stay)
	// High bytes reach the UTF-8 sub-decoder through ActionPrint.
	fill(StateGround, 0x80, 0xFF, ActionPrint, stay)

	// Escape
	c0(StateEscape)
	one(StateEscape, 0x7F, ActionIgnore, stay)
	fill(StateEscape, 0x20, 0x2F, ActionCollect, StateEscapeIntermediate)
	fill(StateEscape, 0x30, 0x4F, ActionEscDispatch, StateGround)
	one(StateEscape, 0x50, ActionClear, StateDcsEntry)
	fill(StateEscape, 0x51, 0x57, ActionEscDispatch, StateGround)
	one(StateEscape, 0x58, ActionNone, StateSosPmApcString)
	one(StateEscape, 0x59, ActionEscDispatch, StateGround)
	one(StateEscape, 0x5A, ActionEscDispatch, StateGround)
	one(StateEscape, 0x5B, ActionClear, StateCsiEntry)
	one(StateEscape, 0x5C, ActionEscDispatch, StateGround)
	one(StateEscape, 0x5D, ActionOscStart, StateOscString)
	one(StateEscape, 0x5E, ActionNone, StateSosPmApcString)
	one(StateEscape, 0x5F, ActionNone, StateSosPmApcString)
	fill(StateEscape, 0x60, 0x7E, ActionEscDispatch, StateGround)

	// Escape intermediate
	c0(StateEscapeIntermediate)
	one(StateEscapeIntermediate, 0x7F, ActionIgnore, stay)
	fill(StateEscapeIntermediate, 0x20, 0x2F, ActionCollect, stay)
	fill(StateEscapeIntermediate, 0x30, 0x7E, ActionEscDispatch, StateGround)

	// CSI entry
	c0(StateCsiEntry)
	one(StateCsiEntry, 0x7F, ActionIgnore, stay)
	fill(StateCsiEntry, 0x20, 0x2F, ActionCollect, StateCsiIntermediate)
	fill(StateCsiEntry, 0x30, 0x39, ActionParam, StateCsiParam)
	one(StateCsiEntry, 0x3A, ActionParam, StateCsiParam) // deviation: subparam
	one(StateCsiEntry, 0x3B, ActionParam, StateCsiParam)
	fill(StateCsiEntry, 0x3C, 0x3F, ActionCollect, StateCsiParam)
	fill(StateCsiEntry, 0x40, 0x7E, ActionCsiDispatch, StateGround)

	// CSI param
	c0(StateCsiParam)
	one(StateCsiParam, 0x7F, ActionIgnore, stay)
	fill(StateCsiParam, 0x30, 0x39, ActionParam, stay)
	one(StateCsiParam, 0x3A, ActionParam, stay) // deviation: subparam
	one(StateCsiParam, 0x3B, ActionParam, stay)
	fill(StateCsiParam, 0x3C, 0x3F, ActionNone, StateCsiIgnore)
	fill(StateCsiParam, 0x20, 0x2F, ActionCollect, StateCsiIntermediate)
	fill(StateCsiParam, 0x40, 0x7E, ActionCsiDispatch, StateGround)

	// CSI intermediate
	c0(StateCsiIntermediate)
	one(StateCsiIntermediate, 0x7F, ActionIgnore, stay)
	fill(StateCsiIntermediate, 0x20, 0x2F, ActionCollect, stay)
	fill(StateCsiIntermediate, 0x30, 0x3F, ActionNone, StateCsiIgnore)
	fill(StateCsiIntermediate, 0x40, 0x7E, ActionCsiDispatch, StateGround)

	// CSI ignore
	c0(StateCsiIgnore)
	fill(StateCsiIgnore, 0x20, 0x3F, ActionIgnore, stay)
	one(StateCsiIgnore, 0x7F, ActionIgnore, stay)
	fill(StateCsiIgnore, 0x40, 0x7E, ActionIgnore, StateGround)

	// DCS entry
	c0Ignore(StateDcsEntry)
	one(StateDcsEntry, 0x7F, ActionIgnore, stay)
	fill(StateDcsEntry, 0x20, 0x2F, ActionCollect, StateDcsIntermediate)
	fill(StateDcsEntry, 0x30, 0x39, ActionParam, StateDcsParam)
	one(StateDcsEntry, 0x3A, ActionNone, StateDcsIgnore)
	one(StateDcsEntry, 0x3B, ActionParam, StateDcsParam)
	fill(StateDcsEntry, 0x3C, 0x3F, ActionCollect, StateDcsParam)
	fill(StateDcsEntry, 0x40, 0x7E, ActionHook, StateDcsPassthrough)

	// DCS param
	c0Ignore(StateDcsParam)
	one(StateDcsParam, 0x7F, ActionIgnore, stay)
	fill(StateDcsParam, 0x30, 0x39, ActionParam, stay)
	one(StateDcsParam, 0x3B, ActionParam, stay)
	one(StateDcsParam, 0x3A, ActionNone, StateDcsIgnore)
	fill(StateDcsParam, 0x3C, 0x3F, ActionNone, StateDcsIgnore)
	fill(StateDcsParam, 0x20, 0x2F, ActionCollect, StateDcsIntermediate)
	fill(StateDcsParam, 0x40, 0x7E, ActionHook, StateDcsPassthrough)

	// DCS intermediate
	c0Ignore(StateDcsIntermediate)
	one(StateDcsIntermediate, 0x7F, ActionIgnore, stay)
	fill(StateDcsIntermediate, 0x20, 0x2F, ActionCollect, stay)
	fill(StateDcsIntermediate, 0x30, 0x3F, ActionNone, StateDcsIgnore)
	fill(StateDcsIntermediate, 0x40, 0x7E, ActionHook, StateDcsPassthrough)

	// DCS passthrough
	fill(StateDcsPassthrough, 0x00, 0x17, ActionPut, stay)
	one(StateDcsPassthrough, 0x19, ActionPut, stay)
	fill(StateDcsPassthrough, 0x1C, 0x1F, ActionPut, stay)
	fill(StateDcsPassthrough, 0x20, 0x7E, ActionPut, stay)
	one(StateDcsPassthrough, 0x7F, ActionIgnore, stay)
	fill(StateDcsPassthrough, 0x80, 0xFF, ActionPut, stay)

	// DCS ignore
	fill(StateDcsIgnore, 0x00, 0xFF, ActionIgnore, stay)

	// OSC string
	fill(StateOscString, 0x00, 0x06, ActionIgnore, stay)
	one(StateOscString, 0x07, ActionOscEnd, StateGround) // deviation: BEL ends
	fill(StateOscString, 0x08, 0x17, ActionIgnore, stay)
	one(StateOscString, 0x19, ActionIgnore, stay)
	fill(StateOscString, 0x1C, 0x1F, ActionIgnore, stay)
	fill(StateOscString, 0x20, 0xFF, ActionOscPut, stay)

	// SOS/PM/APC string: swallowed until ST/CAN/SUB/ESC
	fill(StateSosPmApcString, 0x00, 0xFF, ActionIgnore, stay)

	// Anywhere rules override per-state entries.
	for s := State(0); s < stateCount; s++ {
		anywhere(s)
	}
}
