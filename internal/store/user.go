package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
)

type userStore struct {
	Client     *firestore.Client
	Collection *firestore.CollectionRef
}

func NewUserStore(client *firestore.Client) *userStore {
	return &userStore{
		Client:     client,
		Collection: client.Collection("users"),
	}
}

// Upsert creates or updates the user keyed on SalesforceID. CreatedAt is
// set only when the document does not exist yet.
func (us *userStore) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	ref := us.Collection.Doc(user.SalesforceID)
	now := time.Now()

	err := us.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
			user.CreatedAt = now
		case err != nil:
			return err
		default:
			var existing models.User
			if err := doc.DataTo(&existing); err != nil {
				return err
			}
			user.CreatedAt = existing.CreatedAt
		}
		user.UpdatedAt = now
		return tx.Set(ref, user)
	})
	if err != nil {
		return nil, errs.NewDatabaseError("upsert", "failed to upsert user", err)
	}
	return user, nil
}

func (us *userStore) Get(ctx context.Context, salesforceID string) (*models.User, error) {
	var user models.User

	doc, err := us.Collection.Doc(salesforceID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("user not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get user", err)
	}
	if err := doc.DataTo(&user); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse user data", err)
	}

	return &user, nil
}
