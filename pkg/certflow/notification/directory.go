package notification

import (
	"context"
	"errors"

	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/certflow/certflow/pkg/certflow/storage"
)

// Directory resolves users to email addresses.
type Directory interface {
	// ResolveUserEmail returns "" when the user is unknown, inactive or has no email.
	ResolveUserEmail(ctx context.Context, username string) (string, error)
	ResolveUsersByRole(ctx context.Context, role string) ([]string, error)
}

type DirectoryStorage interface {
	storage.TransactionInterface
	FindUserByUsername(ctx context.Context, tx storage.Tx, username string) (model.User, error)
	ListUsersByRole(ctx context.Context, tx storage.Tx, role string) ([]model.User, error)
}

// StorageDirectory reads the users collection.
type StorageDirectory struct {
	storage DirectoryStorage
}

func NewStorageDirectory(s DirectoryStorage) *StorageDirectory {
	return &StorageDirectory{storage: s}
}

func (d *StorageDirectory) ResolveUserEmail(ctx context.Context, username string) (string, error) {
	tx, ctx, err := d.storage.CreateTx(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	user, err := d.storage.FindUserByUsername(ctx, tx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		return "", nil
	} else if err != nil {
		return "", err
	}
	if !user.Active {
		return "", nil
	}
	return user.Email, nil
}

func (d *StorageDirectory) ResolveUsersByRole(ctx context.Context, role string) ([]string, error) {
	tx, ctx, err := d.storage.CreateTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	users, err := d.storage.ListUsersByRole(ctx, tx, role)
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(users))
	for _, u := range users {
		if u.Active && u.Email != "" {
			emails = append(emails, u.Email)
		}
	}
	return emails, nil
}
