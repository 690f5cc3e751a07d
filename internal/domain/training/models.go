package training

import "time"

type Training struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Trainer     string    `json:"trainer,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	Capacity    int       `json:"capacity"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Enrollment struct {
	ID         string    `json:"id"`
	TrainingID string    `json:"trainingId"`
	EmployeeID string    `json:"employeeId"`
	Status     string    `json:"status"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

type TrainingInput struct {
	Title       string
	Description string
	Trainer     string
	Location    string
	StartAt     time.Time
	EndAt       time.Time
	Capacity    int
}
