package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
)

// sessionStore keeps encrypted session tokens; it never sees plaintext.
type sessionStore struct {
	client *firestore.Client
}

func NewSessionStore(client *firestore.Client) *sessionStore {
	return &sessionStore{client: client}
}

func (s *sessionStore) doc(uid string) *firestore.DocumentRef {
	return s.client.Collection("sessions").Doc(uid)
}

func (s *sessionStore) Get(ctx context.Context, uid string) (*models.SessionRecord, error) {
	doc, err := s.doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("session not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get session", err)
	}
	var rec models.SessionRecord
	if err := doc.DataTo(&rec); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse session data", err)
	}
	return &rec, nil
}

func (s *sessionStore) Put(ctx context.Context, rec *models.SessionRecord) error {
	if _, err := s.doc(rec.UserID).Set(ctx, rec); err != nil {
		return errs.NewDatabaseError("upsert", "failed to save session", err)
	}
	return nil
}
