package domain

import "time"

// Course groups students under one program of study.
type Course struct {
	ID            string
	Name          string
	Code          string
	CoordinatorID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Semester is an administrative term label.
type Semester struct {
	ID        string
	Name      string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subject is a taught unit inside a course, owned by one faculty member.
type Subject struct {
	ID        string
	Name      string
	Code      string
	FacultyID *string
	CourseID  *string
	Semester  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Cohort identifies the students targeted by a fan-out: everyone enrolled
// in a course at a given semester.
type Cohort struct {
	CourseID string
	Semester int
}
