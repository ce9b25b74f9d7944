package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
	"github.com/prmhq/prm-backend/internal/repository"
)

// UpdateOp is what an update request asks for: a FieldUpdate or an AddMember
type UpdateOp interface {
	updateOp()
}

// FieldUpdate changes the parent's own fields
type FieldUpdate[PT any] struct {
	Apply func(PT) error
}

// AddMember puts a contact on the parent's roster
type AddMember struct {
	ContactCode string
}

func (FieldUpdate[PT]) updateOp() {}
func (AddMember) updateOp()       {}

// DeleteOp is what a delete request asks for: a WholeDelete or a RemoveMember
type DeleteOp interface {
	deleteOp()
}

// WholeDelete removes the parent itself
type WholeDelete struct{}

// RemoveMember takes a contact off the parent's roster
type RemoveMember struct {
	ContactCode string
}

func (WholeDelete) deleteOp()  {}
func (RemoveMember) deleteOp() {}

// Membership names where a roster lives
type Membership struct {
	Association  string // GORM association field on the parent
	JoinTable    string
	ParentColumn string // parent key column in JoinTable
}

var (
	ActivityPartners = Membership{
		Association:  "Partners",
		JoinTable:    repository.ActivityPartnersTable,
		ParentColumn: "activity_id",
	}
	ActivityLogCompanions = Membership{
		Association:  "Companions",
		JoinTable:    repository.ActivityLogCompanionsTable,
		ParentColumn: "activity_log_id",
	}
	EventContacts = Membership{
		Association:  "Contacts",
		JoinTable:    repository.EventContactsTable,
		ParentColumn: "event_id",
	}
)

var (
	errAlreadyMember = common.NewValidationError("contact", "contact is already a member")
	errNotMember     = &common.NotFoundError{Resource: "membership", Message: "contact is not a member"}
)

// Roster is a ResourceService whose records carry a set of contacts
type Roster[T any, PT repository.Resource[T]] struct {
	*ResourceService[T, PT]
	contacts   *ResourceService[domain.Contact, *domain.Contact]
	members    repository.MembershipRepository
	membership Membership
}

// NewRoster creates a Roster for the parent store
func NewRoster[T any, PT repository.Resource[T]](
	store repository.Store[T, PT],
	contacts repository.Store[domain.Contact, *domain.Contact],
	members repository.MembershipRepository,
	membership Membership,
) *Roster[T, PT] {
	return &Roster[T, PT]{
		ResourceService: NewResourceService(store),
		contacts:        NewResourceService(contacts),
		members:         members,
		membership:      membership,
	}
}

// Apply runs an update operation
func (r *Roster[T, PT]) Apply(ctx context.Context, actorID uint64, code string, op UpdateOp) (PT, error) {
	switch op := op.(type) {
	case FieldUpdate[PT]:
		return r.Update(ctx, actorID, code, op.Apply)
	case AddMember:
		return r.AddMember(ctx, actorID, code, op.ContactCode)
	default:
		return nil, fmt.Errorf("unsupported update operation %T", op)
	}
}

// Remove runs a delete operation
func (r *Roster[T, PT]) Remove(ctx context.Context, actorID uint64, code string, op DeleteOp) error {
	switch op := op.(type) {
	case WholeDelete:
		return r.Delete(ctx, actorID, code)
	case RemoveMember:
		return r.RemoveMember(ctx, actorID, code, op.ContactCode)
	default:
		return fmt.Errorf("unsupported delete operation %T", op)
	}
}

// resolve authorizes the actor against both the parent and the contact
func (r *Roster[T, PT]) resolve(ctx context.Context, actorID uint64, code, contactCode string) (PT, *domain.Contact, error) {
	parent, err := r.Get(ctx, actorID, code)
	if err != nil {
		return nil, nil, err
	}
	contact, err := r.contacts.Get(ctx, actorID, contactCode)
	if err != nil {
		return nil, nil, err
	}
	return parent, contact, nil
}

// AddMember adds the contact and returns the refreshed parent
func (r *Roster[T, PT]) AddMember(ctx context.Context, actorID uint64, code, contactCode string) (PT, error) {
	parent, contact, err := r.resolve(ctx, actorID, code, contactCode)
	if err != nil {
		return nil, err
	}

	member, err := r.members.IsMember(ctx, parent, r.membership.Association, contact.ID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, errAlreadyMember
	}
	if err := r.members.Add(ctx, parent, r.membership.Association, contact); err != nil {
		return nil, err
	}
	return r.store.FindByCode(ctx, code)
}

// RemoveMember drops the contact from the roster, leaving both records in place
func (r *Roster[T, PT]) RemoveMember(ctx context.Context, actorID uint64, code, contactCode string) error {
	parent, contact, err := r.resolve(ctx, actorID, code, contactCode)
	if err != nil {
		return err
	}

	member, err := r.members.IsMember(ctx, parent, r.membership.Association, contact.ID)
	if err != nil {
		return err
	}
	if !member {
		return errNotMember
	}
	return r.members.Remove(ctx, parent, r.membership.Association, contact)
}

// MemberFilter returns a list scope keeping parents that have the contact on their roster
func (r *Roster[T, PT]) MemberFilter(ctx context.Context, actorID uint64, contactCode string) (func(*gorm.DB) *gorm.DB, error) {
	contact, err := r.contacts.Get(ctx, actorID, contactCode)
	if err != nil {
		return nil, err
	}
	return repository.WithMember(r.membership.JoinTable, r.membership.ParentColumn, contact.ID), nil
}
