// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parallel

// State is a step in the life of a single Map call.
//
//	Init -> Sequential -> Returned
//	Init -> Dispatching -> AllSpawned -> Joining -> Collecting -> Merged -> Returned
//
// Any step may end in Aborted.
type State int

// States of a Map call.
const (
	StateInit State = iota
	StateSequential
	StateDispatching
	StateAllSpawned
	StateJoining
	StateCollecting
	StateMerged
	StateReturned
	StateAborted
)

var stateNames = [...]string{
	StateInit:        "Init",
	StateSequential:  "Sequential",
	StateDispatching: "Dispatching",
	StateAllSpawned:  "AllSpawned",
	StateJoining:     "Joining",
	StateCollecting:  "Collecting",
	StateMerged:      "Merged",
	StateReturned:    "Returned",
	StateAborted:     "Aborted",
}

// String returns the name of the state.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}

	return stateNames[s]
}

// Terminal reports whether s ends a call.
func (s State) Terminal() bool {
	return s == StateReturned || s == StateAborted
}
