package progress

// Notification announces an XP award.
type Notification struct {
	DeltaXP int    `json:"deltaXp"`
	Label   string `json:"label"`
}

// Notifier receives award notifications. Notify must not block.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) { f(n) }
