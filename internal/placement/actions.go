package placement

import (
	"fmt"
	"strconv"
	"strings"
)

// Entities a batch action can target.
const (
	EntityApplication = "application"
	EntityStudent     = "student"
)

// Action is a status change applied to each row of a selection.
type Action struct {
	// Name identifies the action in logs, metrics and the audit trail.
	Name string
	// Verb and Past word the confirmation and notifications ("place", "placed").
	Verb string
	Past string
	// Entity is the kind of row the action applies to.
	Entity string
	// Field is the attribute written by the PUT body.
	Field string
	// Target is the literal value written to Field.
	Target string
}

// Application actions.
var (
	Place   = Action{Name: "place", Verb: "place", Past: "placed", Entity: EntityApplication, Field: "status", Target: StatusSelected}
	Unplace = Action{Name: "unplace", Verb: "unplace", Past: "unplaced", Entity: EntityApplication, Field: "status", Target: StatusApplied}
	Reject  = Action{Name: "reject", Verb: "reject", Past: "rejected", Entity: EntityApplication, Field: "status", Target: StatusRejected}
)

// Registration actions.
var (
	Approve = Action{Name: "approve", Verb: "approve", Past: "approved", Entity: EntityStudent, Field: "approved", Target: ApprovalApproved}
	Decline = Action{Name: "decline", Verb: "reject", Past: "rejected", Entity: EntityStudent, Field: "approved", Target: ApprovalRejected}
)

// Path returns the resource path for the row with the given ID.
func (a Action) Path(id int) string {
	switch a.Entity {
	case EntityStudent:
		return "/api/students/" + strconv.Itoa(id)
	default:
		return "/api/applications/" + strconv.Itoa(id)
	}
}

// Body returns the `data` payload of the PUT.
func (a Action) Body() map[string]string {
	return map[string]string{a.Field: a.Target}
}

// ConfirmMessage names every affected student.
func (a Action) ConfirmMessage(subjects []string) string {
	return fmt.Sprintf("Are you sure you want to %s these students? %s", a.Verb, strings.Join(subjects, ", "))
}

// SuccessMessage is the per-row notification after a 2xx.
func (a Action) SuccessMessage(subject string) string {
	return subject + " marked as " + a.Past
}

// FailureMessage is the per-row notification after a transport error or non-2xx.
func (a Action) FailureMessage(subject string) string {
	return subject + " failed to " + a.Verb
}

// ActionByName looks up an action for the given entity.
func ActionByName(entity, name string) (Action, bool) {
	for _, a := range []Action{Place, Unplace, Reject, Approve, Decline} {
		if a.Entity == entity && a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}
