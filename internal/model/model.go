// Package model defines domain entities used by services and repositories.
package model

import "time"

// UserRecord is a stored account. PasswordHash is never returned to callers.
type UserRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"` // unique, lowercase
	PasswordHash string    `json:"password"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Public strips the password hash.
func (r UserRecord) Public() User {
	return User{ID: r.ID, Name: r.Name, Email: r.Email, CreatedAt: r.CreatedAt}
}

// User is a UserRecord without the password hash.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AttemptRecord counts failed logins inside the current tracking window.
type AttemptRecord struct {
	Count        int       `json:"count"`
	FirstAttempt time.Time `json:"firstAttempt"`
}

// LockoutRecord marks an identifier as locked since LockedAt.
type LockoutRecord struct {
	LockedAt time.Time `json:"lockedAt"`
}

// Job is a single listing of the catalog.
type Job struct {
	ID             int      `yaml:"id" json:"id"`
	Title          string   `yaml:"title" json:"title"`
	Company        string   `yaml:"company" json:"company"`
	Description    string   `yaml:"description" json:"description"`
	EmploymentType string   `yaml:"employmentType" json:"employmentType"`
	WorkMode       string   `yaml:"workMode" json:"workMode"` // remote | hybrid | onsite
	Salary         string   `yaml:"salary" json:"salary"`     // e.g. "80K-100K"
	Experience     string   `yaml:"experience" json:"experience"`
	Location       string   `yaml:"location" json:"location"`
	Skills         []string `yaml:"skills" json:"skills"`
	PostedDate     string   `yaml:"postedDate" json:"postedDate"`
}

// Application is a submitted job application.
type Application struct {
	JobID       int       `json:"jobId"`
	JobTitle    string    `json:"jobTitle"`
	Company     string    `json:"company"`
	UserID      string    `json:"userId"`
	AppliedAt   time.Time `json:"appliedDate"`
	Resume      string    `json:"resume"`
	CoverLetter string    `json:"coverLetter"`
}

// FAQ is a help entry shown alongside the catalog.
type FAQ struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}
