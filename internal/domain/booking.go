package domain

// BookingStage identifies where a purchase attempt is in the wizard. A
// booking is a short-lived value carried in the user's session; nothing is
// persisted until the sale is confirmed.
type BookingStage string

const (
	StageSelectingShow BookingStage = "selecting_show"
	StageSelectingRow  BookingStage = "selecting_row"
	StageSelectingSeat BookingStage = "selecting_seat"
	StageConfirming    BookingStage = "confirming"
	StageSold          BookingStage = "sold"
)

// Booking tracks the show/row/seat selection of a single purchase attempt.
// Transitions are one-directional except that a sale conflict sends the
// buyer back to row selection, since the seat they saw is gone and the
// availability snapshot must be re-fetched.
type Booking struct {
	Stage  BookingStage `json:"stage"`
	ShowID int          `json:"show_id,omitempty"`
	Row    int          `json:"row,omitempty"`
	Seat   int          `json:"seat,omitempty"`
}

func NewBooking() Booking {
	return Booking{Stage: StageSelectingShow}
}

// SelectShow starts or restarts the wizard. Picking a show is always
// allowed before the sale is final; it discards any prior row/seat choice.
func (b *Booking) SelectShow(showID int) error {
	if b.Stage == StageSold {
		return ErrInvalidBookingStep
	}

	b.Stage = StageSelectingRow
	b.ShowID = showID
	b.Row = 0
	b.Seat = 0

	return nil
}

func (b *Booking) SelectRow(row int) error {
	if b.Stage != StageSelectingRow && b.Stage != StageSelectingSeat && b.Stage != StageConfirming {
		return ErrInvalidBookingStep
	}

	b.Stage = StageSelectingSeat
	b.Row = row
	b.Seat = 0

	return nil
}

func (b *Booking) SelectSeat(seat int) error {
	if b.Stage != StageSelectingSeat && b.Stage != StageConfirming {
		return ErrInvalidBookingStep
	}

	b.Stage = StageConfirming
	b.Seat = seat

	return nil
}

// Selection returns the completed (show, row, seat) choice. It only
// succeeds in the confirming stage.
func (b *Booking) Selection() (showID, row, seat int, err error) {
	if b.Stage != StageConfirming {
		return 0, 0, 0, ErrInvalidBookingStep
	}

	return b.ShowID, b.Row, b.Seat, nil
}

func (b *Booking) MarkSold() {
	b.Stage = StageSold
}

// MarkConflict records a lost seat race: the show choice survives but the
// buyer has to pick a row again against fresh availability.
func (b *Booking) MarkConflict() {
	b.Stage = StageSelectingRow
	b.Row = 0
	b.Seat = 0
}
