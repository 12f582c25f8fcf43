package crypto

import (
	"context"

	gcpkms "cloud.google.com/go/kms/apiv1"
	"cloud.google.com/go/kms/apiv1/kmspb"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
)

type kms struct {
	client  *gcpkms.KeyManagementClient
	keyName string
}

func NewKMS(client *gcpkms.KeyManagementClient, keyName string) *kms {
	return &kms{client: client, keyName: keyName}
}

// Encrypt seals a session token with the configured key. The ciphertext is
// stored as raw bytes in Firestore.
func (k *kms) Encrypt(ctx context.Context, plaintext string) ([]byte, error) {
	resp, err := k.client.Encrypt(ctx, &kmspb.EncryptRequest{
		Name:      k.keyName,
		Plaintext: []byte(plaintext),
	})
	if err != nil {
		return nil, errs.NewEncryptionError("failed to encrypt session token", err)
	}
	return resp.Ciphertext, nil
}

func (k *kms) Decrypt(ctx context.Context, ciphertext []byte) (string, error) {
	resp, err := k.client.Decrypt(ctx, &kmspb.DecryptRequest{
		Name:       k.keyName,
		Ciphertext: ciphertext,
	})
	if err != nil {
		return "", errs.NewEncryptionError("failed to decrypt session token", err)
	}
	return string(resp.Plaintext), nil
}
