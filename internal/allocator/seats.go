package allocator

import (
	"fmt"
	"strconv"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
)

// DefaultCabinRows is the number of rows shown on the seat map
const DefaultCabinRows = 6

// CabinColumns are the seat letters of every row
var CabinColumns = []string{"A", "B", "C", "D", "E", "F"}

// SeatID builds the identifier of a seat, e.g. "3C"
func SeatID(row int, column string) string {
	return strconv.Itoa(row) + column
}

// parseSeat splits a seat id into row and column
func parseSeat(id string, rows int) (int, string, error) {
	if len(id) < 2 {
		return 0, "", models.NewValidationError("seat", fmt.Sprintf("invalid seat %q", id))
	}
	column := id[len(id)-1:]
	row, err := strconv.Atoi(id[:len(id)-1])
	if err != nil || row < 1 || row > rows {
		return 0, "", models.NewValidationError("seat", fmt.Sprintf("invalid seat %q", id))
	}
	for _, c := range CabinColumns {
		if c == column {
			return row, column, nil
		}
	}
	return 0, "", models.NewValidationError("seat", fmt.Sprintf("invalid seat %q", id))
}

// SeatTaken reports whether a seat is already occupied by another party.
// Occupancy is a fixed pseudo-random pattern over the cabin.
func SeatTaken(row int, column string) bool {
	return (row+int(column[0]))%7 == 0
}

// SeatMap returns every seat of a cabin with its status
func SeatMap(rows int) []models.Seat {
	if rows <= 0 {
		rows = DefaultCabinRows
	}
	seats := make([]models.Seat, 0, rows*len(CabinColumns))
	for row := 1; row <= rows; row++ {
		for _, col := range CabinColumns {
			status := models.SeatStatusAvailable
			if SeatTaken(row, col) {
				status = models.SeatStatusTaken
			}
			seats = append(seats, models.Seat{
				ID:     SeatID(row, col),
				Row:    row,
				Column: col,
				Status: status,
			})
		}
	}
	return seats
}

// SeatSelection is the set of seats chosen in one booking session,
// bounded above by the passenger count.
type SeatSelection struct {
	rows     int
	capacity int
	seats    []string
}

// NewSeatSelection creates an empty selection for capacity travellers
func NewSeatSelection(capacity, rows int) *SeatSelection {
	if rows <= 0 {
		rows = DefaultCabinRows
	}
	return &SeatSelection{rows: rows, capacity: capacity}
}

// Toggle selects or deselects a seat. Selecting a new seat when the
// selection is full is silently rejected and reports changed=false.
func (s *SeatSelection) Toggle(id string) (bool, error) {
	row, column, err := parseSeat(id, s.rows)
	if err != nil {
		return false, err
	}
	if SeatTaken(row, column) {
		return false, fmt.Errorf("seat %s: %w", id, models.ErrSeatTaken)
	}
	for i, seat := range s.seats {
		if seat == id {
			s.seats = append(s.seats[:i], s.seats[i+1:]...)
			return true, nil
		}
	}
	if len(s.seats) >= s.capacity {
		return false, nil
	}
	s.seats = append(s.seats, id)
	return true, nil
}

// Seats returns the chosen seats in selection order
func (s *SeatSelection) Seats() []string {
	out := make([]string, len(s.seats))
	copy(out, s.seats)
	return out
}

// Capacity returns the passenger count bounding the selection
func (s *SeatSelection) Capacity() int {
	return s.capacity
}

// Complete reports whether every traveller has a seat
func (s *SeatSelection) Complete() bool {
	return s.capacity > 0 && len(s.seats) == s.capacity
}
