package domain

// Status of a booking. pending -> confirmed -> in-progress -> completed,
// with cancelled reachable from every non-terminal status. completed and
// cancelled are absorbing.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ParseStatus validates a raw status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Action is a closed enum of lifecycle actions. Raw strings are validated at
// the HTTP boundary via ParseAction, so the state machine never sees an
// unknown action.
type Action string

const (
	ActionAccept   Action = "accept"
	ActionDecline  Action = "decline"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// ParseAction validates a raw action name.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionAccept, ActionDecline, ActionStart, ActionComplete, ActionCancel:
		return Action(s), nil
	}
	return "", ErrInvalidAction
}

// transition is one allowed edge of the lifecycle.
type transition struct {
	action Action
	from   Status
	to     Status
}

var transitions = []transition{
	{ActionAccept, StatusPending, StatusConfirmed},
	{ActionDecline, StatusPending, StatusCancelled},
	{ActionStart, StatusConfirmed, StatusInProgress},
	{ActionComplete, StatusInProgress, StatusCompleted},
	{ActionCancel, StatusPending, StatusCancelled},
	{ActionCancel, StatusConfirmed, StatusCancelled},
	{ActionCancel, StatusInProgress, StatusCancelled},
}

// Apply resolves the status an action leads to from the current status.
// Terminal statuses reject everything; an action that exists but is not
// permitted from the current status yields ErrIllegalTransition.
func Apply(current Status, action Action) (Status, error) {
	if current == StatusCancelled {
		return "", ErrAlreadyCancelled
	}
	if current == StatusCompleted {
		return "", ErrAlreadyCompleted
	}
	for _, t := range transitions {
		if t.action == action && t.from == current {
			return t.to, nil
		}
	}
	return "", ErrIllegalTransition
}

// ActionMessage is the human-readable confirmation for a performed action.
func ActionMessage(action Action) string {
	switch action {
	case ActionAccept:
		return "Booking accepted"
	case ActionDecline:
		return "Booking declined"
	case ActionStart:
		return "Service started"
	case ActionComplete:
		return "Service completed"
	case ActionCancel:
		return "Booking cancelled"
	}
	return ""
}
