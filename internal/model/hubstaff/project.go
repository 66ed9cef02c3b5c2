package hubstaff

import "time"

type Project struct {
	ID        int64     `json:"id" validate:"required,gt=0"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Billable  bool      `json:"billable"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProjectsPage struct {
	Projects   []*Project  `json:"projects"`
	Pagination *Pagination `json:"pagination"`
}
