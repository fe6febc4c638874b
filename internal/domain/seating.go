package domain

import "fmt"

// HallLayout describes the seating grid shared by every show in a
// deployment: Rows numbered 1..Rows, each holding seats 1..SeatsPerRow.
type HallLayout struct {
	Rows        int
	SeatsPerRow int
}

func NewHallLayout(rows, seatsPerRow int) (HallLayout, error) {
	if rows < 1 {
		return HallLayout{}, fmt.Errorf("hall must have at least one row, got %d", rows)
	}
	if seatsPerRow < 1 {
		return HallLayout{}, fmt.Errorf("hall must have at least one seat per row, got %d", seatsPerRow)
	}

	return HallLayout{Rows: rows, SeatsPerRow: seatsPerRow}, nil
}

func (h HallLayout) Capacity() int {
	return h.Rows * h.SeatsPerRow
}

func (h HallLayout) ContainsRow(row int) bool {
	return row >= 1 && row <= h.Rows
}

func (h HallLayout) ContainsSeat(row, seat int) bool {
	return h.ContainsRow(row) && seat >= 1 && seat <= h.SeatsPerRow
}

// FreeSeats derives the availability snapshot for one show from its sold
// tickets. Every row 1..Rows is present in the result; a sold-out row maps
// to an empty slice. Tickets outside the layout are ignored rather than
// panicking, since the layout may have been shrunk after they were sold.
func (h HallLayout) FreeSeats(tickets []Ticket) map[int][]int {
	free := make(map[int][]int, h.Rows)

	for row := 1; row <= h.Rows; row++ {
		seats := make([]int, 0, h.SeatsPerRow)
		for seat := 1; seat <= h.SeatsPerRow; seat++ {
			seats = append(seats, seat)
		}
		free[row] = seats
	}

	for _, ticket := range tickets {
		seats, ok := free[ticket.Row]
		if !ok {
			continue
		}

		for i, seat := range seats {
			if seat == ticket.Seat {
				free[ticket.Row] = append(seats[:i], seats[i+1:]...)
				break
			}
		}
	}

	return free
}

// RowsWithSpace returns the rows that still have at least one free seat,
// in ascending order.
func (h HallLayout) RowsWithSpace(tickets []Ticket) []int {
	free := h.FreeSeats(tickets)

	rows := make([]int, 0, h.Rows)
	for row := 1; row <= h.Rows; row++ {
		if len(free[row]) > 0 {
			rows = append(rows, row)
		}
	}

	return rows
}

// FreeSeatsInRow returns the free seats of a single row. A row outside the
// layout yields an empty list; callers that care about the distinction
// should check ContainsRow first.
func (h HallLayout) FreeSeatsInRow(tickets []Ticket, row int) []int {
	if !h.ContainsRow(row) {
		return []int{}
	}

	return h.FreeSeats(tickets)[row]
}
