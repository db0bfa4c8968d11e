// Package view renders the character list: it maps fetch results to one of
// four view states and renders them as HTML components.
package view

import (
	"fmt"

	"github.com/Sternrassler/character-table/pkg/characters"
)

// State is the rendering state of a list view.
type State int

const (
	// StateLoading is the initial state while a fetch is outstanding.
	StateLoading State = iota
	// StateError shows a static failure message.
	StateError
	// StateEmpty shows a static "no data" message.
	StateEmpty
	// StatePopulated shows the character table.
	StatePopulated
)

// String returns the state's lowercase name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Model is what a view renders: a state and, when populated, its rows.
type Model struct {
	State State
	Rows  []Row
}

// StateFor maps a fetch result to a view state.
func StateFor(result characters.Result) State {
	switch r := result.(type) {
	case characters.Failed:
		return StateError
	case characters.Succeeded:
		if len(r.Characters) == 0 {
			return StateEmpty
		}
		return StatePopulated
	default:
		return StateLoading
	}
}

// ModelFor maps a fetch result to a renderable model.
func ModelFor(result characters.Result) Model {
	state := StateFor(result)
	if state != StatePopulated {
		return Model{State: state}
	}
	return Model{
		State: state,
		Rows:  MapRows(result.(characters.Succeeded).Characters),
	}
}
