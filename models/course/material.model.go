package course

import "gorm.io/gorm"

// Material is a reference (link, file name) attached to a module
type Material struct {
	gorm.Model
	ModuleID uint   `json:"moduleId" gorm:"index;not null"`
	CourseID uint   `json:"courseId" gorm:"index;not null"`
	Content  string `json:"material" gorm:"type:text"`
}
