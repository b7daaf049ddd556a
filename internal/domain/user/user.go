package user

import (
	"time"

	"projmatch/internal/common"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleSupervisor Role = "supervisor"
)

// StudentProfile holds the student-specific editable profile fields.
type StudentProfile struct {
	MatricNo               string   `json:"matricNo,omitempty"`
	Programme              string   `json:"programme,omitempty"`
	Intake                 string   `json:"intake,omitempty"`
	Phone                  string   `json:"phone,omitempty"`
	CGPA                   string   `json:"cgpa,omitempty"`
	Skills                 []string `json:"skills,omitempty"`
	Interests              []string `json:"interests,omitempty"`
	GitHub                 string   `json:"github,omitempty"`
	LinkedIn               string   `json:"linkedin,omitempty"`
	PreferredProjectDomain string   `json:"preferredProjectDomain,omitempty"`
}

// SupervisorProfile holds the supervisor-specific editable profile fields.
type SupervisorProfile struct {
	StaffID             string   `json:"staffId,omitempty"`
	Designation         string   `json:"designation,omitempty"`
	OfficeLocation      string   `json:"officeLocation,omitempty"`
	OfficeHours         string   `json:"officeHours,omitempty"`
	Phone               string   `json:"phone,omitempty"`
	ResearchAreas       []string `json:"researchAreas,omitempty"`
	SupervisionCapacity string   `json:"supervisionCapacity,omitempty"`
	AvailableSlots      string   `json:"availableSlots,omitempty"`
	GoogleScholar       string   `json:"googleScholar,omitempty"`
	Website             string   `json:"website,omitempty"`
	Bio                 string   `json:"bio,omitempty"`
}

// User is a registered subject. SubjectUID is the verified identifier issued
// by the external identity provider; Role is immutable after registration.
type User struct {
	ID                common.UUID        `json:"id"`
	SubjectUID        string             `json:"subjectUid"`
	Name              string             `json:"name"`
	Email             string             `json:"email"`
	Role              Role               `json:"role"`
	Faculty           string             `json:"faculty,omitempty"`
	Image             string             `json:"image,omitempty"`
	ICPassport        string             `json:"icPassport,omitempty"`
	AcademicYear      string             `json:"academicYear,omitempty"`
	CurrentSemester   string             `json:"currentSemester,omitempty"`
	StudentProfile    *StudentProfile    `json:"studentProfile,omitempty"`
	SupervisorProfile *SupervisorProfile `json:"supervisorProfile,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}
