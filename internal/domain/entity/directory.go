package entity

import "strings"

// Employee is the display information for a timesheet owner
type Employee struct {
	ID        string `json:"id" bson:"_id"`
	FirstName string `json:"first_name" bson:"first_name"`
	LastName  string `json:"last_name" bson:"last_name"`
	Email     string `json:"email" bson:"email"`
}

// DisplayName joins first and last name, falling back to the email and then the ID.
func (e *Employee) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(e.FirstName) + " " + strings.TrimSpace(e.LastName))
	if name != "" {
		return name
	}
	if e.Email != "" {
		return e.Email
	}
	return e.ID
}

// Project is the display information for a project
type Project struct {
	ID   string `json:"id" bson:"_id"`
	Name string `json:"name" bson:"name"`
}

// Team is the display information for a team. Non-department teams are
// cross-functional groupings hidden from reports unless asked for.
type Team struct {
	ID           string `json:"id" bson:"_id"`
	Name         string `json:"name" bson:"name"`
	IsDepartment bool   `json:"is_department" bson:"is_department"`
}
