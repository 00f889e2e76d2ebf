package vallocal

// typeFilter decides which event types a stream or parse publishes.
// The zero value allows everything.
type typeFilter struct {
	include map[EventType]bool
	exclude map[EventType]bool
}

func typeSet(types []EventType) map[EventType]bool {
	if len(types) == 0 {
		return nil
	}
	set := make(map[EventType]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

// allows reports whether events of type t pass. A non-empty include set
// admits only its members; exclude always wins.
func (f typeFilter) allows(t EventType) bool {
	if f.include != nil && !f.include[t] {
		return false
	}
	return !f.exclude[t]
}
