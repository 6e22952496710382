package course

import "gorm.io/gorm"

// Course represents a learning course
type Course struct {
	gorm.Model
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	Thumbnail   string `json:"thumbnail"`
	Syllabus    string `json:"syllabus" gorm:"type:text"`
}
