package domain

// Severity controls how a notification is styled.
type Severity string

const (
	SeverityNormal      Severity = "normal"
	SeverityDestructive Severity = "destructive"
)

// Notification represents an advisory message about a board change.
type Notification struct {
	Title       string
	Description string
	Severity    Severity
}

func (n Notification) Destructive() bool {
	return n.Severity == SeverityDestructive
}
