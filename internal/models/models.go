package models

import "fmt"

// Course is the course category a participant signed up for, as selected in
// the registration form.
type Course string

const (
	CourseZwergelSki       Course = "Zwergel"
	CourseZwergelSnowboard Course = "Zwergel Snowboard"
	CourseSki              Course = "Ski"
	CourseSnowboard        Course = "Snowboard"
)

// UnknownCourseError reports a course cell whose value matches no known
// category. This means the form schema drifted and must not be dropped
// silently.
type UnknownCourseError struct {
	Token string
}

func (e UnknownCourseError) Error() string {
	return fmt.Sprintf("unknown course %q", e.Token)
}

// ParseCourse maps a raw form cell to a Course. An empty cell means the
// participant slot is unused; callers check for that before parsing.
func ParseCourse(raw string) (Course, error) {
	switch raw {
	case string(CourseZwergelSki):
		return CourseZwergelSki, nil
	case string(CourseZwergelSnowboard):
		return CourseZwergelSnowboard, nil
	case string(CourseSki):
		return CourseSki, nil
	case string(CourseSnowboard):
		return CourseSnowboard, nil
	default:
		return "", UnknownCourseError{Token: raw}
	}
}

// IsZwergel reports whether the course is billed at the flat beginner rate,
// independent of age.
func (c Course) IsZwergel() bool {
	return c == CourseZwergelSki || c == CourseZwergelSnowboard
}

// Label is the short discipline label used on the course rosters.
func (c Course) Label() string {
	if c == CourseZwergelSnowboard || c == CourseSnowboard {
		return "snowboard"
	}
	return "ski"
}

type Name struct {
	First string
	Last  string
}

type ContactPerson struct {
	Name    Name
	Address string
	Mail    string
	Tel     string
}

type Participant struct {
	Name      Name
	Age       int
	Course    Course
	PreCourse string
	Notes     string
}

type Payment struct {
	Amount float64
	Paid   bool
}

// Registration is one household's sign-up: one contact, 1..8 participants.
// Timestamp is the form submission time as written by the form backend
// (dd.mm.yyyy hh:mm:ss); it drives early-bird eligibility. ID is the 1-based
// form row position and stays stable because form rows are only appended.
type Registration struct {
	Timestamp    string
	ID           int
	Contact      ContactPerson
	Participants []Participant
	Payment      Payment

	RegistrationMailSent bool
	PaymentMailSent      bool
}
