package dto

type CreateBroadcastRequest struct {
	Message  string `json:"message"`
	OwnerKey string `json:"ownerKey"`
}

// CreateBroadcastBody is the server-side form of CreateBroadcastRequest. An
// ownerKey that is not a JSON string never matches the configured key.
type CreateBroadcastBody struct {
	Message  any `json:"message"`
	OwnerKey any `json:"ownerKey"`
}

type CreateBroadcastResponse struct {
	Success     bool   `json:"success"`
	BroadcastID string `json:"broadcastId"`
	Message     string `json:"message"`
}

type BroadcastResponse struct {
	ID          string   `json:"id"`
	Message     string   `json:"message"`
	Created     int64    `json:"created"`
	Status      string   `json:"status"`
	DeliveredTo []string `json:"deliveredTo"`
}

type PendingBroadcastsResponse struct {
	Broadcasts []BroadcastResponse `json:"broadcasts"`
}

type BroadcastDeliveredRequest struct {
	InstanceID  string `json:"instanceId"`
	BroadcastID string `json:"broadcastId"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
