// Package health runs the node's layered health checks and keeps the merged
// status table the dashboard draws from.
package health

// Status is the outcome of one named check.
type Status int

const (
	StatusGood Status = iota
	StatusWarning
	StatusError
)

// String returns the status as shown on screen.
func (s Status) String() string {
	switch s {
	case StatusGood:
		return "GOOD"
	case StatusWarning:
		return "WARNING"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Verdict is what a stage reports for one named check. A verdict carrying
// Err means the check couldn't be evaluated this cycle: its previous status
// is kept and nothing is raised.
type Verdict struct {
	Name    string
	Status  Status
	Message string
	Err     error
}

// Failed reports whether the check could not be evaluated.
func (v Verdict) Failed() bool {
	return v.Err != nil
}

// Entry is one row of the status table.
type Entry struct {
	Name   string
	Status Status
}

// StatusTable maps check names to their latest status. Names keep the order
// they were first set in, which is the order they are displayed in.
type StatusTable struct {
	order  []string
	values map[string]Status
}

// NewStatusTable creates an empty table.
func NewStatusTable() *StatusTable {
	return &StatusTable{values: make(map[string]Status)}
}

// Set records status for name. An existing name keeps its position.
func (t *StatusTable) Set(name string, status Status) {
	if _, ok := t.values[name]; !ok {
		t.order = append(t.order, name)
	}
	t.values[name] = status
}

// Get returns the status recorded for name.
func (t *StatusTable) Get(name string) (Status, bool) {
	s, ok := t.values[name]
	return s, ok
}

// Len returns the number of checks in the table.
func (t *StatusTable) Len() int {
	return len(t.order)
}

// Entries returns a copy of the table in display order.
func (t *StatusTable) Entries() []Entry {
	out := make([]Entry, len(t.order))
	for i, name := range t.order {
		out[i] = Entry{Name: name, Status: t.values[name]}
	}
	return out
}

// Failing returns the names of non-GOOD checks in display order. Position i
// is the digit an operator presses to open that check's detail view.
func (t *StatusTable) Failing() []string {
	var out []string
	for _, name := range t.order {
		if t.values[name] != StatusGood {
			out = append(out, name)
		}
	}
	return out
}

// Alert is a message raised by a non-GOOD check.
type Alert struct {
	Name    string
	Message string
}

// Alerts holds the messages raised in one cycle, split by severity. Each
// list keeps the order checks raised in; raising a name twice replaces the
// message in place.
type Alerts struct {
	Errors   []Alert
	Warnings []Alert
}

// Raise records the message of a non-GOOD verdict. GOOD verdicts are ignored.
func (a *Alerts) Raise(v Verdict) {
	switch v.Status {
	case StatusError:
		a.Errors = upsert(a.Errors, Alert{Name: v.Name, Message: v.Message})
	case StatusWarning:
		a.Warnings = upsert(a.Warnings, Alert{Name: v.Name, Message: v.Message})
	}
}

// Len returns the total number of alerts.
func (a Alerts) Len() int {
	return len(a.Errors) + len(a.Warnings)
}

func upsert(list []Alert, alert Alert) []Alert {
	for i := range list {
		if list[i].Name == alert.Name {
			list[i] = alert
			return list
		}
	}
	return append(list, alert)
}

// Report is an immutable snapshot of health state handed to the dashboard.
type Report struct {
	Statuses []Entry
	Alerts   Alerts
	Failing  []string
}
