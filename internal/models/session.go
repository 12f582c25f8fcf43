package models

import "time"

// SessionRecord is the server-side copy of a user's upstream session token.
// Token holds KMS ciphertext, never the plaintext token.
type SessionRecord struct {
	UserID    string    `firestore:"userId"`
	Token     []byte    `firestore:"token"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}
