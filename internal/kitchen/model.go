package kitchen

import "time"

// Ticket statuses.
const (
	TicketQueued     = "queued"
	TicketInProgress = "in_progress"
	TicketCompleted  = "completed"
)

// Ticket priorities.
const (
	PriorityNormal = "normal"
	PriorityRush   = "rush"
)

// MinEstimateMinutes is the floor for any prep estimate; even a single
// drink takes a few minutes to reach the pass.
const MinEstimateMinutes = 5

// RushThreshold is the total item count above which an order's tickets
// are flagged rush.
const RushThreshold = 5

// TicketItem is one order line routed to this ticket's station.
type TicketItem struct {
	LineID   string `json:"line_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note"`
	Done     bool   `json:"done"`
}

// Ticket is the work unit one station sees for one order. An order
// fans out to one ticket per station its lines touch.
type Ticket struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	TableID     string `json:"table_id,omitempty"`

	Station  string `json:"station"`
	Status   string `json:"status"`
	Priority string `json:"priority"`

	EstimatedMinutes int          `json:"estimated_minutes"`
	Items            []TicketItem `json:"items"`

	CreatedAt time.Time  `json:"created_at"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
}

// Overdue reports whether an unfinished ticket has blown past its
// prep estimate.
func (t *Ticket) Overdue(now time.Time) bool {
	if t.Status == TicketCompleted {
		return false
	}
	return now.After(t.CreatedAt.Add(time.Duration(t.EstimatedMinutes) * time.Minute))
}

// AllDone reports whether every item on the ticket is finished.
func (t *Ticket) AllDone() bool {
	for _, item := range t.Items {
		if !item.Done {
			return false
		}
	}
	return len(t.Items) > 0
}
