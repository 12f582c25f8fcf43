package services

import (
	"context"

	"github.com/GregMSThompson/insideoutbound-backend/internal/dto"
	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
	"github.com/GregMSThompson/insideoutbound-backend/pkg/logger"
)

type userUSStore interface {
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, salesforceID string) (*models.User, error)
}

type userService struct {
	Store userUSStore
}

func NewUserService(store userUSStore) *userService {
	return &userService{
		Store: store,
	}
}

// Upsert records the signed-in user's Salesforce profile, keyed on the
// Salesforce user id.
func (s *userService) Upsert(ctx context.Context, uid string, req dto.UpsertUserRequest) (*models.User, error) {
	// Get logger from context - already has uid, email, request_id, method, path
	log := logger.FromContext(ctx)

	if req.SalesforceID == "" {
		return nil, errs.NewFieldValidationError("salesforceId", "salesforceId is required")
	}

	user := &models.User{
		SalesforceID: req.SalesforceID,
		UID:          uid,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhotoURL:     req.PhotoURL,
		OrgID:        req.OrgID,
	}

	saved, err := s.Store.Upsert(ctx, user)
	if err != nil {
		log.Error("failed to upsert user in store", "error", err)
		return nil, err
	}

	log.Info("user upserted", "salesforce_id", saved.SalesforceID)
	log.Debug("user upserted with full details", "user", saved)

	return saved, nil
}
