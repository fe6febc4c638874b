// Package api holds the request and response types of the HTTP surface.
package api

import "time"

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"request_id,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validation_errors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"system_info"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone"`
	Password string `json:"password" validate:"required,password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	Id        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

type AlreadyLoggedInResponse struct {
	Message string `json:"message"`
}

type ShowResponse struct {
	Id          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PosterName  *string   `json:"poster_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Version     int       `json:"version"`
}

type Metadata struct {
	CurrentPage  int `json:"current_page"`
	FirstPage    int `json:"first_page"`
	LastPage     int `json:"last_page"`
	PageSize     int `json:"page_size"`
	TotalRecords int `json:"total_records"`
}

type ShowListResponse struct {
	Shows    []ShowResponse `json:"shows"`
	Metadata Metadata       `json:"metadata"`
}

type SeatRow struct {
	Row       int   `json:"row"`
	FreeSeats []int `json:"free_seats"`
}

type SeatMapResponse struct {
	ShowId int       `json:"show_id"`
	Rows   []SeatRow `json:"rows"`
}

type AvailableRowsResponse struct {
	ShowId int   `json:"show_id"`
	Rows   []int `json:"rows"`
}

type RowSeatsResponse struct {
	ShowId    int   `json:"show_id"`
	Row       int   `json:"row"`
	FreeSeats []int `json:"free_seats"`
}

type SelectShowRequest struct {
	ShowId int `json:"show_id" validate:"required,gte=1"`
}

type SelectRowRequest struct {
	Row int `json:"row" validate:"required,gte=1"`
}

type SelectSeatRequest struct {
	Seat int `json:"seat" validate:"required,gte=1"`
}

type BookingResponse struct {
	Stage  string `json:"stage"`
	ShowId int    `json:"show_id,omitempty"`
	Row    int    `json:"row,omitempty"`
	Seat   int    `json:"seat,omitempty"`
}

type TicketResponse struct {
	Id        int       `json:"id"`
	ShowId    int       `json:"show_id"`
	UserId    int       `json:"user_id"`
	Row       int       `json:"row"`
	Seat      int       `json:"seat"`
	CreatedAt time.Time `json:"created_at"`
}

type ClearShowResponse struct {
	ShowId         int   `json:"show_id"`
	TicketsDeleted int64 `json:"tickets_deleted"`
}
