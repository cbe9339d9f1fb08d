package model

// ProjectStats holds the summary counts shown above the project list.
type ProjectStats struct {
	TotalProjects     int `json:"totalProjects" db:"total_projects"`
	PendingProjects   int `json:"pendingProjects" db:"pending_projects"`
	CompletedProjects int `json:"completedProjects" db:"completed_projects"`
	OnHoldProjects    int `json:"onHoldProjects" db:"on_hold_projects"`
	ExpiredDomains    int `json:"expiredDomains" db:"expired_domains"`
	ExpiredServers    int `json:"expiredServers" db:"expired_servers"`
}
