package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const CertificateIssued = 1

// Certificate represents an issued certificate, verifiable by holder
// name, domain and issue date
type Certificate struct {
	gorm.Model
	HolderName        string         `json:"name" gorm:"size:191;index:idx_certificate_lookup"`
	Domain            string         `json:"domain" gorm:"size:191;index:idx_certificate_lookup"`
	Status            int            `json:"status" gorm:"default:1"`
	IssueDate         datatypes.Date `json:"issueDate" gorm:"index:idx_certificate_lookup"`
	CertificateNumber string         `json:"certificate_number" gorm:"uniqueIndex;size:36"`
}
