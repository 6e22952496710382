package course

import "gorm.io/gorm"

// Module is one lesson of a course, released by week and ordered by day
type Module struct {
	gorm.Model
	CourseID uint   `json:"courseId" gorm:"index;not null"`
	Title    string `json:"title"`
	Week     int    `json:"week" gorm:"default:1"`
	Day      int    `json:"day" gorm:"default:1"`
	VideoURL string `json:"videoUrl"`
}
