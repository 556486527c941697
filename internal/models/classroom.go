package models

import "time"

// Routine is a semester class schedule published by an admin.
type Routine struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Semester  Semester   `json:"semester" gorm:"not null;default:1st;size:10"`
	FilePath  *string    `json:"file" gorm:"size:500"`
	AddedByID *uint      `json:"added_by"`
	CreatedAt time.Time  `json:"created_at"`

	AddedBy *User `json:"-" gorm:"foreignKey:AddedByID;constraint:OnDelete:SET NULL"`
}

func (Routine) TableName() string {
	return "routines"
}

// Notice is a school-wide announcement published by an admin.
type Notice struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null;size:255"`
	FilePath  *string   `json:"file" gorm:"size:500"`
	AddedByID *uint     `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`

	AddedBy *User `json:"-" gorm:"foreignKey:AddedByID;constraint:OnDelete:SET NULL"`
}

func (Notice) TableName() string {
	return "notices"
}

// Class is a recorded or linked lecture owned by the teacher who created it.
type Class struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null;size:255"`
	Semester  Semester  `json:"semester" gorm:"not null;default:1st;size:10"`
	FilePath  *string   `json:"file" gorm:"size:500"`
	Link      *string   `json:"link" gorm:"size:255"`
	TeacherID *uint     `json:"teacher"`
	CreatedAt time.Time `json:"created_at"`

	Teacher *User `json:"-" gorm:"foreignKey:TeacherID;constraint:OnDelete:SET NULL"`
}

func (Class) TableName() string {
	return "classes"
}

// Assignment is coursework owned by the teacher who created it.
type Assignment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null;size:255"`
	Content   *string   `json:"content" gorm:"type:text"`
	Semester  Semester  `json:"semester" gorm:"not null;default:1st;size:10"`
	FilePath  *string   `json:"file" gorm:"size:500"`
	TeacherID *uint     `json:"teacher"`
	CreatedAt time.Time `json:"created_at"`

	Teacher *User `json:"-" gorm:"foreignKey:TeacherID;constraint:OnDelete:SET NULL"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// OwnerID reports the owning identity used for object-level permission checks.
func (c *Class) OwnerID() *uint      { return c.TeacherID }
func (a *Assignment) OwnerID() *uint { return a.TeacherID }
