package models

import "time"

type Course struct {
	ID                string    `json:"id"`
	CourseName        string    `json:"courseName"`
	CourseDescription string    `json:"courseDescription"`
	Instructor        string    `json:"instructor"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// CourseFields holds the editable part of a course. Updates replace all three.
type CourseFields struct {
	CourseName        string `json:"courseName"`
	CourseDescription string `json:"courseDescription"`
	Instructor        string `json:"instructor"`
}

// Complete reports whether every field is non-empty.
func (f CourseFields) Complete() bool {
	return f.CourseName != "" && f.CourseDescription != "" && f.Instructor != ""
}

func (c Course) Fields() CourseFields {
	return CourseFields{
		CourseName:        c.CourseName,
		CourseDescription: c.CourseDescription,
		Instructor:        c.Instructor,
	}
}
