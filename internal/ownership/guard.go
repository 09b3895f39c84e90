// Package ownership decides whether a caller may read or mutate a goal or
// practice session. Every goal and session entry point goes through it.
//
// A goal belongs to its user_id. A practice session belongs to the owner of its
// linked goal; a session without a goal has no owner and is never matched.
//
// A missing record yields ErrNotFound, an existing record owned by someone else
// yields ErrForbidden.
package ownership

import (
	"errors"

	"github.com/practicelog/practicelog/internal/model"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

type Reason string

const (
	ReasonNone      Reason = ""
	ReasonNotFound  Reason = "not-found"
	ReasonForbidden Reason = "forbidden"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

var (
	allow        = Decision{Allowed: true}
	denyNotFound = Decision{Reason: ReasonNotFound}
	denyNotOwner = Decision{Reason: ReasonForbidden}
)

// Err converts a deny decision into ErrNotFound or ErrForbidden, nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == ReasonNotFound {
		return ErrNotFound
	}
	return ErrForbidden
}

// ReasonOf maps an error back to its deny reason.
func ReasonOf(err error) Reason {
	switch {
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrForbidden):
		return ReasonForbidden
	default:
		return ReasonNone
	}
}

func CheckGoal(callerID string, goal *model.Goal) Decision {
	if goal == nil {
		return denyNotFound
	}
	if !goal.OwnedBy(callerID) {
		return denyNotOwner
	}
	return allow
}

// CheckSession checks a session against the goal it links to. goal may be nil
// when the session has no link.
func CheckSession(callerID string, session *model.PracticeSession, goal *model.Goal) Decision {
	if session == nil {
		return denyNotFound
	}
	if !session.HasGoal() || goal == nil || goal.ID != *session.GoalID {
		return denyNotOwner
	}
	if !goal.OwnedBy(callerID) {
		return denyNotOwner
	}
	return allow
}

type GoalFinder interface {
	ByID(goalID string) (*model.Goal, error)
}

type SessionFinder interface {
	ByID(sessionID string) (*model.PracticeSession, error)
}

// Guard loads a record by id and applies the matching check.
// Finders must return an error wrapping ErrNotFound for missing rows.
type Guard struct {
	goals    GoalFinder
	sessions SessionFinder

	// OnDeny, when set, observes every denied access.
	OnDeny func(resource string, reason Reason)
}

func NewGuard(goals GoalFinder, sessions SessionFinder) *Guard {
	return &Guard{
		goals:    goals,
		sessions: sessions,
	}
}

func (g *Guard) Goal(callerID, goalID string) (*model.Goal, error) {
	goal, err := g.goals.ByID(goalID)
	if err != nil {
		g.observe("goal", ReasonOf(err))
		return nil, err
	}

	err = g.decide("goal", CheckGoal(callerID, goal))
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (g *Guard) Session(callerID, sessionID string) (*model.PracticeSession, error) {
	session, err := g.sessions.ByID(sessionID)
	if err != nil {
		g.observe("practice_session", ReasonOf(err))
		return nil, err
	}

	var goal *model.Goal
	if session.HasGoal() {
		goal, err = g.goals.ByID(*session.GoalID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	err = g.decide("practice_session", CheckSession(callerID, session, goal))
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (g *Guard) decide(resource string, d Decision) error {
	if !d.Allowed {
		g.observe(resource, d.Reason)
	}
	return d.Err()
}

func (g *Guard) observe(resource string, reason Reason) {
	if g.OnDeny != nil && reason != ReasonNone {
		g.OnDeny(resource, reason)
	}
}
