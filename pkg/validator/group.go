package validator

import "context"

type groupDecision uint8

const (
	groupContinue groupDecision = iota
	groupPass
	groupFail
)

// GroupVerdict is the outcome of a group callback for one pass.
type GroupVerdict struct {
	decision groupDecision
	message  string
}

// GroupContinue lets every member run its own rules unchanged.
func GroupContinue() GroupVerdict { return GroupVerdict{} }

// GroupPass clears the group message; members still run their own rules and
// a member without rules settles valid.
func GroupPass() GroupVerdict { return GroupVerdict{decision: groupPass} }

// GroupFail settles every member invalid without running its rules. An empty
// msg falls back to the group's Message.
func GroupFail(msg string) GroupVerdict { return GroupVerdict{decision: groupFail, message: msg} }

// GroupFunc inspects the members of a group. It runs at most once per pass,
// with the form's lock held: it must not call back into the Form (Validate,
// Result, SetField, Trigger and the like) or it deadlocks.
type GroupFunc func(ctx context.Context, members Inputs) GroupVerdict

// Group is a set of fields sharing one callback evaluated before their rules.
type Group struct {
	// Name identifies the group in reset events.
	Name     string
	Fields   []string
	Message  string
	Callback GroupFunc
}

func (g *Group) usable() bool {
	return g != nil && len(g.Fields) > 0 && g.Callback != nil
}

// groupVerdictLocked runs the group callback once per run.
func (f *Form) groupVerdictLocked(r *run, g *Group) GroupVerdict {
	if v, ok := r.groups[g]; ok {
		return v
	}
	members := make(Inputs, len(g.Fields))
	for _, key := range g.Fields {
		if in, ok := lookupInput(f.inputs, key); ok {
			members[key] = in
		}
	}
	v := g.Callback(r.ctx, members)
	r.groups[g] = v
	if v.decision != groupContinue {
		r.emit(Event{Kind: EventGroupReset, Key: g.Name, Rule: "group"})
	}
	return v
}
