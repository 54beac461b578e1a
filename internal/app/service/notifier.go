package service

// Entities and actions reported to a Notifier.
const (
	EntityClient     = "client"
	EntityBenefit    = "benefit"
	EntityCommercial = "commercial"
	EntityFeedback   = "feedback"

	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionCloned   = "cloned"
	ActionImported = "imported"
)

// Notifier is told about every committed data change.
type Notifier interface {
	Notify(entity, action string)
}

type NopNotifier struct{}

func (NopNotifier) Notify(string, string) {}

// Notifiers fans a change out to several notifiers.
type Notifiers []Notifier

func (n Notifiers) Notify(entity, action string) {
	for _, notifier := range n {
		if notifier != nil {
			notifier.Notify(entity, action)
		}
	}
}
