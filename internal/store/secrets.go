package store

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
)

// Secrets path
// projects/{project}/secrets/{name}/versions/latest

type secretStore struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretStore(client *secretmanager.Client, projectID string) *secretStore {
	return &secretStore{client: client, projectID: projectID}
}

func (s *secretStore) secretName(name string) string {
	return fmt.Sprintf("projects/%s/secrets/%s", s.projectID, name)
}

// Latest returns the payload of the newest version of secret name.
func (s *secretStore) Latest(ctx context.Context, name string) (string, error) {
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("%s/versions/latest", s.secretName(name)),
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", errs.NewNotFoundError(fmt.Sprintf("secret %s not found", name))
		}
		return "", errs.NewExternalServiceError("secretmanager", "failed to read secret", true, err)
	}
	return string(res.Payload.Data), nil
}
