package crawler

import "fmt"

// State is a step of the per-category crawl pipeline.
type State string

const (
	StateIdle               State = "idle"
	StateSectionsDiscovered State = "sections_discovered"
	StatePagesDiscovered    State = "pages_discovered"
	StatePageFetched        State = "page_fetched"
	StateRecordsExtracted   State = "records_extracted"
	StateRecordsInlined     State = "records_inlined"
	StateRecordsSubmitted   State = "records_submitted"
)

// ValidateTransition checks if a state transition is valid.
// Returns an error if the transition is not allowed.
func ValidateTransition(from, to State) error {
	validTransitions := map[State][]State{
		StateIdle: {
			StateSectionsDiscovered,
		},
		StateSectionsDiscovered: {
			StatePagesDiscovered, // First section resolved
			StateIdle,            // No section could be resolved
		},
		StatePagesDiscovered: {
			StatePagesDiscovered, // Next section
			StatePageFetched,
			StateIdle, // Category done
		},
		StatePageFetched: {
			StateRecordsExtracted,
			StatePagesDiscovered, // Page could not be parsed
		},
		StateRecordsExtracted: {
			StateRecordsInlined,
		},
		StateRecordsInlined: {
			StateRecordsSubmitted,
		},
		StateRecordsSubmitted: {
			StatePagesDiscovered, // Next page
			StateIdle,
		},
	}

	allowedStates, exists := validTransitions[from]
	if !exists {
		return fmt.Errorf("unknown source state: %s", from)
	}

	for _, allowed := range allowedStates {
		if allowed == to {
			return nil
		}
	}

	return fmt.Errorf("invalid state transition from %s to %s", from, to)
}

// machine tracks the state of one category or one page pipeline.
type machine struct {
	state State
}

func newMachine(start State) *machine {
	return &machine{state: start}
}

func (m *machine) to(next State) error {
	if err := ValidateTransition(m.state, next); err != nil {
		return err
	}
	m.state = next
	return nil
}
