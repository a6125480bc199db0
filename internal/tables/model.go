package tables

import "time"

// Table states.
const (
	StateFree       = "free"
	StateOccupied   = "occupied"
	StateReserved   = "reserved"
	StateCleaning   = "cleaning"
	StateOutOfOrder = "out_of_order"
)

// Table is one seat group on the floor plan.
type Table struct {
	ID        string    `json:"id"`
	Number    int       `json:"number"`
	Seats     int       `json:"seats"`
	Section   string    `json:"section,omitempty"`
	State     string    `json:"state"`
	OrderID   string    `json:"order_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidState(s string) bool {
	switch s {
	case StateFree, StateOccupied, StateReserved, StateCleaning, StateOutOfOrder:
		return true
	}
	return false
}
