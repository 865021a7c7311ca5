package services

import "time"

// Event types published after state-changing operations.
const (
	EventApplicationSubmitted = "application.submitted"
	EventApplicationApproved  = "application.approved"
	EventApplicationRejected  = "application.rejected"
	EventAgreementSubmitted   = "agreement.submitted"
	EventAgreementVerified    = "agreement.verified"
	EventAgreementRejected    = "agreement.rejected"
	EventPlacementAssigned    = "placement.assigned"
	EventTaskCreated          = "task.created"
	EventSubmissionReceived   = "submission.received"
	EventSubmissionGraded     = "submission.graded"
	EventSubmissionFullGraded = "submission.fully_graded"
	EventWeeklyUpdateReceived = "weekly_update.submitted"
	EventWeeklyUpdateReviewed = "weekly_update.reviewed"
	EventReportFiled          = "report.filed"
)

// Event describes one completed lifecycle change. SubjectID is the public
// user id of the student the change concerns.
type Event struct {
	Type      string    `json:"type"`
	ActorID   string    `json:"actor_id,omitempty"`
	SubjectID string    `json:"subject_id,omitempty"`
	EntityID  string    `json:"entity_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	At        time.Time `json:"at"`
}

// Notifier is the hook point invoked after each state-changing operation.
// Delivery is out of band and best-effort; implementations must not block.
type Notifier interface {
	Publish(Event)
}

// NopNotifier is used when no dispatcher is wired (tests, CLI tools).
type NopNotifier struct{}

func (NopNotifier) Publish(Event) {}

func event(typ string, actor, subject, entity string) Event {
	return Event{Type: typ, ActorID: actor, SubjectID: subject, EntityID: entity, At: time.Now().UTC()}
}
