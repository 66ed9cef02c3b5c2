package hubstaff

import "time"

type User struct {
	ID        int64     `json:"id" validate:"required,gt=0"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	TimeZone  string    `json:"time_zone"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Member struct {
	UserID         int64  `json:"user_id"`
	MembershipRole string `json:"membership_role"`
}

// MembersPage is returned by GET /v2/organizations/{id}/members?include=users.
// Users are side-loaded next to the memberships.
type MembersPage struct {
	Members    []*Member   `json:"members"`
	Users      []*User     `json:"users"`
	Pagination *Pagination `json:"pagination"`
}
