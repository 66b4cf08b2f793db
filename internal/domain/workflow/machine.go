package workflow

import (
	"context"
	"fmt"
	"sort"
)

// StateMachine tracks the current state and validates transitions
type StateMachine interface {
	State() State
	CanFire(trigger Trigger) bool
	Fire(ctx context.Context, trigger Trigger) error
	PermittedTriggers() []Trigger
}

// StateMachineBuilder collects transitions and builds machines from them
type StateMachineBuilder interface {
	Configure(state State) StateConfiguration
	Build(initialState State) StateMachine
}

// StateConfiguration configures the outgoing transitions of one state
type StateConfiguration interface {
	Permit(trigger Trigger, toState State) StateConfiguration
}

type transitionTable map[State]map[Trigger]State

type builder struct {
	table transitionTable
}

type stateConfig struct {
	from  State
	table transitionTable
}

type machine struct {
	current State
	table   transitionTable
}

// NewBuilder creates an empty builder
func NewBuilder() StateMachineBuilder {
	return &builder{table: make(transitionTable)}
}

// Configure panics on an unknown state; tables are built at init time
func (b *builder) Configure(state State) StateConfiguration {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}
	if _, ok := b.table[state]; !ok {
		b.table[state] = make(map[Trigger]State)
	}
	return &stateConfig{from: state, table: b.table}
}

// Build returns a machine holding its own copy of the table
func (b *builder) Build(initialState State) StateMachine {
	if !initialState.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initialState))
	}

	copied := make(transitionTable, len(b.table))
	for from, triggers := range b.table {
		copied[from] = make(map[Trigger]State, len(triggers))
		for trigger, to := range triggers {
			copied[from][trigger] = to
		}
	}
	return &machine{current: initialState, table: copied}
}

func (c *stateConfig) Permit(trigger Trigger, toState State) StateConfiguration {
	if !toState.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", toState))
	}
	c.table[c.from][trigger] = toState
	return c
}

func (m *machine) State() State {
	return m.current
}

func (m *machine) CanFire(trigger Trigger) bool {
	_, ok := m.table[m.current][trigger]
	return ok
}

func (m *machine) Fire(ctx context.Context, trigger Trigger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to, ok := m.table[m.current][trigger]
	if !ok {
		return fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, trigger, m.current)
	}
	m.current = to
	return nil
}

// PermittedTriggers returns the triggers allowed from the current state,
// sorted
func (m *machine) PermittedTriggers() []Trigger {
	triggers := make([]Trigger, 0, len(m.table[m.current]))
	for trigger := range m.table[m.current] {
		triggers = append(triggers, trigger)
	}
	sort.Slice(triggers, func(i, j int) bool { return triggers[i] < triggers[j] })
	return triggers
}
