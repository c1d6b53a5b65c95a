package dto

type InitiateCallRequest struct {
	ContactID   string `json:"contact_id" binding:"required"`
	CampaignID  string `json:"campaign_id" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
}

type InitiateCallResponse struct {
	CallID         string `json:"call_id"`
	ProviderCallID string `json:"provider_call_id"`
	Status         string `json:"status"`
}
