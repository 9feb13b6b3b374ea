package project

import "time"

// Project is a named unit of work.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Update lists the fields a caller may change on an existing project.
// Anything not named here is not writable.
type Update struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Apply copies the mutable fields onto p.
func (u Update) Apply(p *Project) {
	p.Name = u.Name
	p.Description = u.Description
}
