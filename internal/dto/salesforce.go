package dto

import "github.com/GregMSThompson/insideoutbound-backend/internal/models"

type CriteriaQueryRequest struct {
	Criteria       []models.FilterContainer `json:"criteria"`
	TeamMemberIDs  []string                 `json:"teamMemberIds"`
	TrackingPeriod int                      `json:"trackingPeriod"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type CriteriaValidateRequest struct {
	Container models.FilterContainer `json:"container"`
}
