package records

import "time"

// Record is one participant submission plus the generated feedback text. The
// submitting workshop password is stored alongside; the workshop name is
// resolved by joining the credentials table at read time, so a record outlives
// the password that produced it (the join just comes back empty).
type Record struct {
	ID                  string    `gorm:"primaryKey" json:"id"`
	Timestamp           time.Time `gorm:"not null" json:"timestamp"`
	FirstName           string    `json:"firstname"`
	LastName            string    `json:"lastname"`
	Prompt              string    `gorm:"not null" json:"prompt"`
	Notes               string    `json:"notes"`
	FacilitatorFeedback string    `json:"facilitatorfeedback"`
	Password            string    `json:"-"`
}

func (Record) TableName() string { return "app_records.records" }

// RecordWithWorkshop is the admin list view: the record joined with the name
// of the workshop whose password submitted it, null once that password is gone.
type RecordWithWorkshop struct {
	Record
	WorkshopName *string `json:"workshopName"`
}

// EditableFields are the only columns the admin edit operation may touch.
// Identity and timestamp are immutable once created.
type EditableFields struct {
	FirstName           string `json:"firstname"`
	LastName            string `json:"lastname"`
	Prompt              string `json:"prompt"`
	Notes               string `json:"notes"`
	FacilitatorFeedback string `json:"facilitatorfeedback"`
}
