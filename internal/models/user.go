package models

import (
	"time"
)

// User mirrors the Salesforce user behind an account; the document id is SalesforceID.
type User struct {
	SalesforceID string    `firestore:"salesforceId" json:"salesforceId"`
	UID          string    `firestore:"uid" json:"uid"`
	Email        string    `firestore:"email" json:"email"`
	FirstName    string    `firestore:"firstName" json:"firstName"`
	LastName     string    `firestore:"lastName" json:"lastName"`
	PhotoURL     string    `firestore:"photoUrl" json:"photoUrl,omitempty"`
	OrgID        string    `firestore:"orgId" json:"orgId,omitempty"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt" json:"updatedAt"`
}
