package models

import "time"

// Student is a registered principal. PasswordHash never leaves the server.
type Student struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// StudentView is the public projection of a Student.
type StudentView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s Student) View() StudentView {
	return StudentView{
		ID:    s.ID,
		Name:  s.Name,
		Email: s.Email,
	}
}
