package models

import "time"

type Semester string

const (
	SemesterFirst   Semester = "1st"
	SemesterSecond  Semester = "2nd"
	SemesterThird   Semester = "3rd"
	SemesterFourth  Semester = "4th"
	SemesterFifth   Semester = "5th"
	SemesterSixth   Semester = "6th"
	SemesterSeventh Semester = "7th"
	SemesterEighth  Semester = "8th"
)

func Semesters() []Semester {
	return []Semester{
		SemesterFirst, SemesterSecond, SemesterThird, SemesterFourth,
		SemesterFifth, SemesterSixth, SemesterSeventh, SemesterEighth,
	}
}

func (s Semester) Valid() bool {
	for _, known := range Semesters() {
		if s == known {
			return true
		}
	}
	return false
}

// TeacherProfile is the one-to-one profile for users with the teacher role.
type TeacherProfile struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`

	Name        string  `json:"name" gorm:"not null;size:255"`
	Email       *string `json:"email" gorm:"size:255"`
	Department  *string `json:"department" gorm:"size:255"`
	Designation *string `json:"designation" gorm:"size:255"`
	TeacherID   *string `json:"teacher_id" gorm:"size:50"`
	BloodGroup  *string `json:"blood_group" gorm:"size:5"`

	UpdatedByID *uint `json:"updated_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User      User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	UpdatedBy *User `json:"-" gorm:"foreignKey:UpdatedByID"`
}

func (TeacherProfile) TableName() string {
	return "teacher_profiles"
}

// StudentProfile is the one-to-one profile for users with the student role.
type StudentProfile struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`

	Name       string   `json:"name" gorm:"not null;size:255"`
	Email      *string  `json:"email" gorm:"size:255"`
	Department *string  `json:"department" gorm:"size:255"`
	Roll       int      `json:"roll" gorm:"default:0"`
	Semester   Semester `json:"semester" gorm:"not null;default:1st;size:10"`
	Section    *string  `json:"section" gorm:"size:50"`
	StudentID  *string  `json:"student_id" gorm:"size:50"`
	BloodGroup *string  `json:"blood_group" gorm:"size:5"`

	Father           *string `json:"father" gorm:"size:255"`
	Mother           *string `json:"mother" gorm:"size:255"`
	FatherPhone      *string `json:"father_phone" gorm:"size:15"`
	MotherPhone      *string `json:"mother_phone" gorm:"size:15"`
	PresentAddress   *string `json:"present_address" gorm:"size:255"`
	PermanentAddress *string `json:"permanent_address" gorm:"size:255"`

	UpdatedByID *uint `json:"updated_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User      User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	UpdatedBy *User `json:"-" gorm:"foreignKey:UpdatedByID"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}
