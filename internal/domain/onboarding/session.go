package onboarding

import "time"

// State is the serializable form of a Machine.
type State struct {
	CurrentStep Step   `json:"currentStep"`
	Completed   []Step `json:"completed"`
	Record      Record `json:"record"`
}

func NewState() State {
	return State{CurrentStep: StepPersonal}
}

// Session binds a machine state to the user who owns it.
type Session struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	State   State  `json:"state"`
	// EmployeeID is reserved on the first finalize attempt and reused by retries.
	EmployeeID string    `json:"employeeId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Clone returns a copy that shares no memory with s.
func (s Session) Clone() Session {
	out := s
	out.State.Completed = append([]Step(nil), s.State.Completed...)
	out.State.Record = s.State.Record.clone()
	return out
}
