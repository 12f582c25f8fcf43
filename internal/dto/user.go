package dto

type UpsertUserRequest struct {
	SalesforceID string `json:"salesforceId"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	PhotoURL     string `json:"photoUrl"`
	OrgID        string `json:"orgId"`
}
