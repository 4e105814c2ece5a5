package validator

type passState string

const (
	stateIdle      passState = "idle"
	stateRunning   passState = "running"
	stateSuspended passState = "suspended"
	stateSettled   passState = "settled"
)

type passEvent string

const (
	eventStart   passEvent = "start"
	eventSuspend passEvent = "suspend"
	eventResume  passEvent = "resume"
	eventSettle  passEvent = "settle"
)

// passTransitions is indexed [from][event] -> to.
var passTransitions = map[passState]map[passEvent]passState{
	stateIdle: {
		eventStart: stateRunning,
	},
	stateRunning: {
		eventSuspend: stateSuspended,
		eventSettle:  stateSettled,
	},
	stateSuspended: {
		eventResume: stateRunning,
	},
}

// fire moves the pass to its next state. An unknown transition is an engine
// bug, not a validation outcome, so it panics.
func (p *pass) fire(ev passEvent) {
	next, ok := passTransitions[p.state][ev]
	if !ok {
		panic(&ErrIllegalTransition{From: string(p.state), Event: string(ev)})
	}
	p.state = next
}
