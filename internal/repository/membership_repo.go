package repository

import (
	"context"

	"github.com/prmhq/prm-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Roster join tables and the parent column in each
const (
	ActivityPartnersTable      = "activity_partners"
	ActivityLogCompanionsTable = "activity_log_companions"
	EventContactsTable         = "event_contacts"
)

// MembershipRepository manages the contact set attached to a roster parent
type MembershipRepository interface {
	IsMember(ctx context.Context, parent domain.Record, association string, contactID uint64) (bool, error)
	Add(ctx context.Context, parent domain.Record, association string, contact *domain.Contact) error
	Remove(ctx context.Context, parent domain.Record, association string, contact *domain.Contact) error
}

type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) IsMember(ctx context.Context, parent domain.Record, association string, contactID uint64) (bool, error) {
	assoc := r.db.WithContext(ctx).
		Model(parent).
		Where("contacts.id = ?", contactID).
		Association(association)
	if assoc.Error != nil {
		return false, assoc.Error
	}
	count := assoc.Count()
	return count > 0, assoc.Error
}

// Add inserts the join row; an existing row is left as is
func (r *membershipRepository) Add(ctx context.Context, parent domain.Record, association string, contact *domain.Contact) error {
	return r.db.WithContext(ctx).
		Model(parent).
		Omit(association + ".*").
		Association(association).
		Append(contact)
}

// Remove deletes only the join row, never the contact
func (r *membershipRepository) Remove(ctx context.Context, parent domain.Record, association string, contact *domain.Contact) error {
	return r.db.WithContext(ctx).
		Model(parent).
		Association(association).
		Delete(contact)
}

// DetachContact drops every roster row that references a contact
func DetachContact(tx *gorm.DB, contactID uint64) error {
	for _, table := range []string{ActivityPartnersTable, ActivityLogCompanionsTable, EventContactsTable} {
		err := tx.Exec("DELETE FROM ? WHERE contact_id = ?", clause.Table{Name: table}, contactID).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// DetachActivityLogs clears the activity reference of the logs of a deleted activity
func DetachActivityLogs(tx *gorm.DB, activityID uint64) error {
	return tx.Model(&domain.ActivityLog{}).
		Where("activity_id = ?", activityID).
		Update("activity_id", nil).Error
}
