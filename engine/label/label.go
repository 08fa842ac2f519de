// Package label provides the identifier and label algebra for swarm
// protocols: interned string tags with total order, the SwarmLabel and
// MachineLabel edge weights, and the small ordered-set helpers the rest of
// the engine builds on.
package label

import (
	"fmt"
	"sort"
	"strings"
)

// EventType identifies an event emitted by a role. Value-typed, freely
// cloneable, totally ordered lexicographically (it is a plain string).
type EventType string

// Command identifies a command a role may perform.
type Command string

// Role identifies a protocol participant.
type Role string

// State identifies a protocol-graph node.
type State string

func (e EventType) String() string { return string(e) }
func (c Command) String() string   { return string(c) }
func (r Role) String() string      { return string(r) }
func (s State) String() string     { return string(s) }

// SwarmLabel is (cmd, event type, role): "role performs cmd emitting
// event_type". The spec's log_type is a sequence that must have exactly one
// element after validation; we store that single element directly so
// SwarmLabel stays comparable (usable as a map/set key) instead of carrying
// a slice.
type SwarmLabel struct {
	Cmd       Command
	EventType EventType
	Role      Role
}

// NewSwarmLabel validates logType has exactly one element and builds a
// SwarmLabel from it; callers that already hold a single EventType should
// build the struct literal directly.
func NewSwarmLabel(cmd Command, logType []EventType, role Role) (SwarmLabel, error) {
	if len(logType) != 1 {
		return SwarmLabel{}, fmt.Errorf("swarm label: log_type must have exactly one event type, got %d", len(logType))
	}
	return SwarmLabel{Cmd: cmd, EventType: logType[0], Role: role}, nil
}

// LogType returns the single-element event-type sequence view required by
// the data model (kept for callers that want the sequence shape).
func (l SwarmLabel) LogType() []EventType { return []EventType{l.EventType} }

func (l SwarmLabel) String() string {
	return fmt.Sprintf("%s@%s<%s>", l.Cmd, l.Role, l.EventType)
}

// Less gives SwarmLabel a total order: by event type, then command, then role.
func (l SwarmLabel) Less(other SwarmLabel) bool {
	if l.EventType != other.EventType {
		return l.EventType < other.EventType
	}
	if l.Cmd != other.Cmd {
		return l.Cmd < other.Cmd
	}
	return l.Role < other.Role
}

// MachineLabelTag distinguishes the two MachineLabel variants.
type MachineLabelTag int

const (
	// Execute is an internal transition executing a command and emitting an event.
	Execute MachineLabelTag = iota
	// Input is an externally observed event.
	Input
)

// MachineLabel is a tagged variant: Execute{cmd, event type} or
// Input{event type}. Ordering places Execute before Input when the tags
// differ (an arbitrary but fixed choice), then orders within a tag by
// command/event type.
type MachineLabel struct {
	Tag       MachineLabelTag
	Cmd       Command   // set when Tag == Execute
	EventType EventType // set for both tags: the emitted/observed event type
}

// NewExecute builds an Execute machine label.
func NewExecute(cmd Command, eventType EventType) MachineLabel {
	return MachineLabel{Tag: Execute, Cmd: cmd, EventType: eventType}
}

// NewInput builds an Input machine label.
func NewInput(eventType EventType) MachineLabel {
	return MachineLabel{Tag: Input, EventType: eventType}
}

func (m MachineLabel) String() string {
	switch m.Tag {
	case Execute:
		return fmt.Sprintf("%s<%s>", m.Cmd, m.EventType)
	default:
		return fmt.Sprintf("?%s", m.EventType)
	}
}

// Less gives MachineLabel a total order: Execute sorts before Input; within
// a tag, Execute compares by (cmd, event type) and Input by event type.
func (m MachineLabel) Less(other MachineLabel) bool {
	if m.Tag != other.Tag {
		return m.Tag == Execute
	}
	if m.Tag == Execute && m.Cmd != other.Cmd {
		return m.Cmd < other.Cmd
	}
	return m.EventType < other.EventType
}

// DeterministicLabel is the projection of a MachineLabel to its dedup key:
// Execute labels key on command, Input labels key on event type. Two
// distinct outgoing edges from the same machine state sharing a
// DeterministicLabel signal non-determinism.
type DeterministicLabel struct {
	fromExecute bool
	cmd         Command
	eventType   EventType
}

// Deterministic computes the DeterministicLabel of a MachineLabel.
func Deterministic(m MachineLabel) DeterministicLabel {
	if m.Tag == Execute {
		return DeterministicLabel{fromExecute: true, cmd: m.Cmd}
	}
	return DeterministicLabel{eventType: m.EventType}
}

func (d DeterministicLabel) String() string {
	if d.fromExecute {
		return string(d.cmd)
	}
	return string(d.eventType)
}

// Less orders DeterministicLabel the same way MachineLabel orders: Execute
// keys before Input keys.
func (d DeterministicLabel) Less(other DeterministicLabel) bool {
	if d.fromExecute != other.fromExecute {
		return d.fromExecute
	}
	if d.fromExecute {
		return d.cmd < other.cmd
	}
	return d.eventType < other.eventType
}

// EventPair is a canonical unordered pair of event types (A <= B), usable
// directly as a comparable map/set key.
type EventPair struct {
	A, B EventType
}

// NewEventPair canonicalizes (a, b) so equal pairs compare equal regardless
// of argument order.
func NewEventPair(a, b EventType) EventPair {
	if a > b {
		a, b = b, a
	}
	return EventPair{A: a, B: b}
}

func (p EventPair) String() string {
	return fmt.Sprintf("{%s,%s}", p.A, p.B)
}

// EventTypeSet is a deterministic (sort-on-demand) set of EventType.
type EventTypeSet map[EventType]struct{}

// NewEventTypeSet builds a set from the given elements.
func NewEventTypeSet(items ...EventType) EventTypeSet {
	s := make(EventTypeSet, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s EventTypeSet) Add(e EventType)           { s[e] = struct{}{} }
func (s EventTypeSet) Contains(e EventType) bool { _, ok := s[e]; return ok }

// AddAll merges other into s in place.
func (s EventTypeSet) AddAll(other EventTypeSet) {
	for e := range other {
		s[e] = struct{}{}
	}
}

// Clone returns a shallow copy.
func (s EventTypeSet) Clone() EventTypeSet {
	out := make(EventTypeSet, len(s))
	for e := range s {
		out[e] = struct{}{}
	}
	return out
}

// Union returns a new set containing every element of s and other.
func (s EventTypeSet) Union(other EventTypeSet) EventTypeSet {
	out := s.Clone()
	out.AddAll(other)
	return out
}

// Intersect returns a new set containing only elements in both s and other.
func (s EventTypeSet) Intersect(other EventTypeSet) EventTypeSet {
	out := make(EventTypeSet)
	small, big := s, other
	if len(other) < len(s) {
		small, big = other, s
	}
	for e := range small {
		if big.Contains(e) {
			out[e] = struct{}{}
		}
	}
	return out
}

// Difference returns a new set containing elements of s not in other.
func (s EventTypeSet) Difference(other EventTypeSet) EventTypeSet {
	out := make(EventTypeSet)
	for e := range s {
		if !other.Contains(e) {
			out[e] = struct{}{}
		}
	}
	return out
}

// IsSubsetOf reports whether every element of s is in other.
func (s EventTypeSet) IsSubsetOf(other EventTypeSet) bool {
	for e := range s {
		if !other.Contains(e) {
			return false
		}
	}
	return true
}

// Empty reports whether the set has no elements.
func (s EventTypeSet) Empty() bool { return len(s) == 0 }

// Sorted returns the set's elements in ascending lexicographic order.
func (s EventTypeSet) Sorted() []EventType {
	out := make([]EventType, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s EventTypeSet) String() string {
	parts := make([]string, 0, len(s))
	for _, e := range s.Sorted() {
		parts = append(parts, string(e))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// RoleSet is a deterministic set of Role.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given elements.
func NewRoleSet(items ...Role) RoleSet {
	s := make(RoleSet, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s RoleSet) Add(r Role)           { s[r] = struct{}{} }
func (s RoleSet) Contains(r Role) bool { _, ok := s[r]; return ok }

func (s RoleSet) AddAll(other RoleSet) {
	for r := range other {
		s[r] = struct{}{}
	}
}

func (s RoleSet) Clone() RoleSet {
	out := make(RoleSet, len(s))
	for r := range s {
		out[r] = struct{}{}
	}
	return out
}

// Sorted returns the set's elements in ascending lexicographic order.
func (s RoleSet) Sorted() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SwarmLabelSet is a deterministic set of SwarmLabel.
type SwarmLabelSet map[SwarmLabel]struct{}

// NewSwarmLabelSet builds a set from the given elements.
func NewSwarmLabelSet(items ...SwarmLabel) SwarmLabelSet {
	s := make(SwarmLabelSet, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s SwarmLabelSet) Add(l SwarmLabel)           { s[l] = struct{}{} }
func (s SwarmLabelSet) Contains(l SwarmLabel) bool { _, ok := s[l]; return ok }

func (s SwarmLabelSet) Clone() SwarmLabelSet {
	out := make(SwarmLabelSet, len(s))
	for l := range s {
		out[l] = struct{}{}
	}
	return out
}

func (s SwarmLabelSet) AddAll(other SwarmLabelSet) {
	for l := range other {
		s[l] = struct{}{}
	}
}

// Sorted returns the set's elements ordered by SwarmLabel.Less.
func (s SwarmLabelSet) Sorted() []SwarmLabel {
	out := make([]SwarmLabel, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// EventTypes returns the set of event types emitted by the labels in s.
func (s SwarmLabelSet) EventTypes() EventTypeSet {
	out := make(EventTypeSet, len(s))
	for l := range s {
		out[l.EventType] = struct{}{}
	}
	return out
}

// EventPairSet is a deterministic set of canonical unordered event pairs.
type EventPairSet map[EventPair]struct{}

func NewEventPairSet(items ...EventPair) EventPairSet {
	s := make(EventPairSet, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s EventPairSet) Add(p EventPair)           { s[p] = struct{}{} }
func (s EventPairSet) Contains(p EventPair) bool { _, ok := s[p]; return ok }

func (s EventPairSet) AddAll(other EventPairSet) {
	for p := range other {
		s[p] = struct{}{}
	}
}

func (s EventPairSet) Clone() EventPairSet {
	out := make(EventPairSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// Union returns a new set containing every pair of s and other.
func (s EventPairSet) Union(other EventPairSet) EventPairSet {
	out := s.Clone()
	out.AddAll(other)
	return out
}

// Difference returns a new set containing the pairs of s not in other.
func (s EventPairSet) Difference(other EventPairSet) EventPairSet {
	out := make(EventPairSet)
	for p := range s {
		if !other.Contains(p) {
			out[p] = struct{}{}
		}
	}
	return out
}

// StateSet is a deterministic set of State, used to track a group of
// protocol- or machine-graph nodes by name (e.g. which user-machine states
// a derived projection node originates from) without conflating them with
// Role.
type StateSet map[State]struct{}

// NewStateSet builds a set from the given elements.
func NewStateSet(items ...State) StateSet {
	s := make(StateSet, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s StateSet) Add(st State)           { s[st] = struct{}{} }
func (s StateSet) Contains(st State) bool { _, ok := s[st]; return ok }

func (s StateSet) AddAll(other StateSet) {
	for st := range other {
		s[st] = struct{}{}
	}
}

func (s StateSet) Clone() StateSet {
	out := make(StateSet, len(s))
	for st := range s {
		out[st] = struct{}{}
	}
	return out
}

// Sorted returns the set's elements in ascending lexicographic order.
func (s StateSet) Sorted() []State {
	out := make([]State, 0, len(s))
	for st := range s {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
