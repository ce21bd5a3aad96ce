package repository

import (
	"context"

	"github.com/and161185/contactbook/internal/model"
)

// ContactRepository provides CRUD and search over the contact collection.
type ContactRepository interface {
	// List returns every contact, most recently updated first.
	List(ctx context.Context) ([]model.Contact, error)
	// GetByID loads a contact or returns errs.ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.Contact, error)
	// Create stores a new contact with a fresh id and timestamps.
	Create(ctx context.Context, in model.ContactInput) (*model.Contact, error)
	// Update merges present fields over the stored contact.
	Update(ctx context.Context, id string, in model.ContactInput) (*model.Contact, error)
	// Delete removes a contact; deleting an absent id succeeds.
	Delete(ctx context.Context, id string) error
	// Search returns contacts matching query, in List order.
	Search(ctx context.Context, query string) ([]model.Contact, error)
}
