package process

import (
	"fmt"

	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"
)

// Store reads and writes processes, their properties and journal in the workflow database
type Store struct {
	Conn *gorm.DB
	log  *log.Entry
}

// NewStore provides a service backed by the workflow database
func NewStore(conn *gorm.DB, log *log.Entry) *Store {
	return &Store{
		Conn: conn,
		log:  log,
	}
}

// Migrate creates the tables used by the store if they don't exist
func (s *Store) Migrate() error {
	return s.Conn.AutoMigrate(&Process{}, &Step{}, &Property{}, &JournalEntry{}).Error
}

// LoadProcess loads a process together with its steps in workflow order
func (s *Store) LoadProcess(id int) (*Process, error) {
	p := &Process{}
	err := s.Conn.
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("ordering asc")
		}).
		First(p, id).Error
	if err != nil {
		return nil, fmt.Errorf("Unable to load process %d: %s", id, err.Error())
	}
	return p, nil
}

// SaveProcess persists the status of every step of the process in one transaction
func (s *Store) SaveProcess(p *Process) error {
	tx := s.Conn.Begin()
	if err := tx.Error; err != nil {
		return err
	}

	for _, step := range p.Steps {
		result := tx.
			Model(&Step{}).
			Where("id = ? AND process_id = ?", step.ID, p.ID).
			UpdateColumn("status", step.Status)
		if err := result.Error; err != nil {
			tx.Rollback()
			s.log.Errorf("Unable to update step %s of process %d: %s", step.Title, p.ID, err.Error())
			return err
		}
		s.log.Debugf("Step %s updated to %s, rows %d", step.Title, step.Status, result.RowsAffected)
	}
	return tx.Commit().Error
}

// ListProperties returns all properties of the process
func (s *Store) ListProperties(processID int) ([]Property, error) {
	var props []Property
	if err := s.Conn.Where("process_id = ?", processID).Find(&props).Error; err != nil {
		return nil, err
	}
	return props, nil
}

// DeleteProperty removes a single property row
func (s *Store) DeleteProperty(prop Property) error {
	if prop.ID == 0 {
		return fmt.Errorf("Property %s has no id and can't be deleted", prop.Title)
	}
	return s.Conn.Delete(&prop).Error
}

// AddMessage appends an entry to the journal of the process. The correlation id
// of the store's logger is recorded with it.
func (s *Store) AddMessage(processID int, kind LogType, message string) error {
	entry := &JournalEntry{
		ProcessID: processID,
		Type:      kind,
		Content:   message,
	}
	if id, ok := s.log.Data["correlationId"]; ok {
		entry.CorrelationID = fmt.Sprint(id)
	}
	return s.AddEntry(entry)
}

// AddEntry appends a prepared entry to the journal
func (s *Store) AddEntry(entry *JournalEntry) error {
	if entry.ProcessID == 0 {
		return fmt.Errorf("Journal entry has no process")
	}
	return s.Conn.Create(entry).Error
}
