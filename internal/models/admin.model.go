package models

type AdminUser struct {
	BaseUUIDModel
	Login        string `gorm:"type:varchar(64);uniqueIndex;not null" json:"login"`
	PasswordHash string `gorm:"type:varchar(255);not null"            json:"-"`
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type NewsletterSubscriber struct {
	BaseUUIDModel
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Source       string `gorm:"type:varchar(64)"                       json:"source,omitempty"`
	ProviderSync bool   `gorm:"not null;default:false"                 json:"providerSync"`
}

type SubscribeRequest struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

type Dashboard struct {
	LeadsByZone         []ZoneCount     `json:"leadsByZone"`
	ContractsByDuration []DurationCount `json:"contractsByDuration"`
	PendingReminders    int64           `json:"pendingReminders"`
	DueReminders        int64           `json:"dueReminders"`
	Subscribers         int64           `json:"subscribers"`
}
