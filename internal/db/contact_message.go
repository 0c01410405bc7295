package db

const (
	MessageNew      = "new"
	MessageRead     = "read"
	MessageArchived = "archived"
)

// ContactMessage is an enquiry submitted through the public contact form.
type ContactMessage struct {
	Model
	Name     string         `gorm:"size:120;not null" json:"name"`
	Email    string         `gorm:"size:255;not null" json:"email"`
	Phone    string         `gorm:"size:60" json:"phone"`
	Company  string         `gorm:"size:160" json:"company"`
	Subject  string         `gorm:"size:255" json:"subject"`
	Message  string         `gorm:"type:text;not null" json:"message"`
	OfficeID *uint          `gorm:"index" json:"officeId,omitempty"`
	Office   *ContactOffice `json:"office,omitempty"`
	Status   string         `gorm:"size:20;index;default:new" json:"status"`
}
