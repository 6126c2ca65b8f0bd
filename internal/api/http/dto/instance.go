package dto

type RegisterInstanceRequest struct {
	InstanceID string `json:"instanceId"`
	Owner      string `json:"owner"`
	Version    string `json:"version"`
	UserCount  *int   `json:"userCount"`
	GroupCount *int   `json:"groupCount"`
}

// RegisterInstanceBody is the server-side form of RegisterInstanceRequest.
// Fields keep their raw JSON types so that numbers and strings are both
// accepted and normalized by the handler.
type RegisterInstanceBody struct {
	InstanceID any `json:"instanceId"`
	Owner      any `json:"owner"`
	Version    any `json:"version"`
	UserCount  any `json:"userCount"`
	GroupCount any `json:"groupCount"`
}

type RegisterInstanceResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	InstanceID string `json:"instanceId"`
}

// InstanceResponse uses epoch milliseconds for firstSeen and lastPing.
type InstanceResponse struct {
	InstanceID string `json:"instanceId"`
	Owner      string `json:"owner"`
	Version    string `json:"version"`
	UserCount  int    `json:"userCount"`
	GroupCount int    `json:"groupCount"`
	FirstSeen  int64  `json:"firstSeen"`
	LastPing   int64  `json:"lastPing"`
	Status     string `json:"status"`
	IP         string `json:"ip"`
}

type StatsResponse struct {
	TotalInstances  int    `json:"totalInstances"`
	ActiveInstances int    `json:"activeInstances"`
	TotalUsers      int    `json:"totalUsers"`
	TotalGroups     int    `json:"totalGroups"`
	LastUpdated     string `json:"lastUpdated"`
}
