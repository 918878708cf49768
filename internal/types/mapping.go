package types

import "time"

// StudentResponse is the wire shape of a student. RegisteredCourses is the
// student's registrations flattened to the courses they point at.
type StudentResponse struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	RegisteredCourses []Course `json:"registeredCourses"`
}

// CourseResponse is the wire shape of a course.
type CourseResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Code  string `json:"code"`
	Units int    `json:"units"`
}

// RegistrationResponse is the wire shape of a registration, with the
// referenced student and course embedded.
type RegistrationResponse struct {
	ID           int64     `json:"id"`
	StudentID    int64     `json:"studentId"`
	CourseID     int64     `json:"courseId"`
	RegisteredAt time.Time `json:"registeredAt"`
	Student      *Student  `json:"student,omitempty"`
	Course       *Course   `json:"course,omitempty"`
}

// NewStudentResponse builds the wire shape of s. A nil courses slice is
// encoded as [] rather than null.
func NewStudentResponse(s Student, courses []Course) StudentResponse {
	if courses == nil {
		courses = make([]Course, 0)
	}
	return StudentResponse{
		ID:                s.ID,
		Name:              s.Name,
		Email:             s.Email,
		RegisteredCourses: courses,
	}
}

// NewCourseResponse builds the wire shape of c.
func NewCourseResponse(c Course) CourseResponse {
	return CourseResponse{
		ID:    c.ID,
		Title: c.Title,
		Code:  c.Code,
		Units: c.Units,
	}
}

// NewRegistrationResponse builds the wire shape of r with student and
// course embedded.
func NewRegistrationResponse(r Registration, student Student, course Course) RegistrationResponse {
	return RegistrationResponse{
		ID:           r.ID,
		StudentID:    r.StudentID,
		CourseID:     r.CourseID,
		RegisteredAt: r.RegisteredAt,
		Student:      &student,
		Course:       &course,
	}
}
