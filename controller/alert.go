package controller

import "time"

type (
	// Alert is an operational message for the user: load failures, ignored
	// mixer calls, MIDI port trouble. Alerts are kept in a small list on the
	// controller and also pushed out through Broker.ToHost as they happen.
	Alert struct {
		Name     string
		Priority AlertPriority
		Message  string
		Duration time.Duration
	}

	AlertPriority int

	Alerts Controller
)

const (
	Info AlertPriority = iota
	Warning
	Error
)

const defaultAlertDuration = 3 * time.Second

func (c *Controller) Alerts() *Alerts { return (*Alerts)(c) }

// Add appends an anonymous alert.
func (a *Alerts) Add(message string, priority AlertPriority) {
	a.AddNamed("", message, priority)
}

// AddNamed appends an alert, replacing any previous alert with the same
// non-empty name so repeated failures do not pile up.
func (a *Alerts) AddNamed(name, message string, priority AlertPriority) {
	c := (*Controller)(a)
	if name != "" {
		a.ClearNamed(name)
	}
	alert := Alert{Name: name, Priority: priority, Message: message, Duration: defaultAlertDuration}
	c.alerts = append(c.alerts, alert)
	c.pushHost(alert)
}

// ClearNamed removes the alert with the given name, if present.
func (a *Alerts) ClearNamed(name string) {
	c := (*Controller)(a)
	for i, alert := range c.alerts {
		if alert.Name == name {
			c.alerts = append(c.alerts[:i], c.alerts[i+1:]...)
			return
		}
	}
}

// List returns a copy of the current alerts.
func (a *Alerts) List() []Alert {
	c := (*Controller)(a)
	out := make([]Alert, len(c.alerts))
	copy(out, c.alerts)
	return out
}
