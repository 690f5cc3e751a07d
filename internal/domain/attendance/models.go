package attendance

import "time"

type Record struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	Date       time.Time  `json:"date"`
	CheckIn    *time.Time `json:"checkIn,omitempty"`
	CheckOut   *time.Time `json:"checkOut,omitempty"`
	Status     string     `json:"status"`
	WorkedMins int        `json:"workedMinutes"`
	Note       string     `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type Summary struct {
	EmployeeID string `json:"employeeId"`
	Days       int    `json:"days"`
	Present    int    `json:"present"`
	Late       int    `json:"late"`
	Absent     int    `json:"absent"`
	WorkedMins int    `json:"workedMinutes"`
}

type Filter struct {
	EmployeeID string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}
