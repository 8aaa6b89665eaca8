package records

import (
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(rec Record) error {
	return s.db.Create(&rec).Error
}

// List returns every record newest first, with the workshop name joined in.
// LEFT JOIN on purpose: deleting a password must not hide the records it
// submitted, they just lose their workshop label.
func (s *Store) List() ([]RecordWithWorkshop, error) {
	var rows []RecordWithWorkshop
	err := s.db.
		Table("app_records.records AS r").
		Select("r.*, c.workshop_name AS workshop_name").
		Joins("LEFT JOIN app_auth.credentials c ON c.password = r.password").
		Order("r.timestamp DESC").
		Scan(&rows).Error
	return rows, err
}

// Update rewrites only the editable fields of an existing record.
func (s *Store) Update(id string, fields EditableFields) error {
	return s.db.Model(&Record{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"first_name":           fields.FirstName,
			"last_name":            fields.LastName,
			"prompt":               fields.Prompt,
			"notes":                fields.Notes,
			"facilitator_feedback": fields.FacilitatorFeedback,
		}).Error
}

// Delete is idempotent; deleting an unknown id is not an error.
func (s *Store) Delete(id string) error {
	return s.db.Delete(&Record{}, "id = ?", id).Error
}
