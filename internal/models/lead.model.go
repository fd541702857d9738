package models

type Lead struct {
	BaseUUIDModel
	Name          string  `gorm:"type:varchar(255);not null"  json:"name"`
	Email         string  `gorm:"type:varchar(255);not null"  json:"email"`
	Phone         *string `gorm:"type:varchar(32)"            json:"phone,omitempty"`
	PostalCode    string  `gorm:"type:varchar(5);not null"    json:"postalCode"`
	PriceZone     string  `gorm:"type:varchar(3);not null"    json:"priceZone"`
	ZoneManual    bool    `gorm:"not null;default:false"      json:"zoneManual"` // visitor picked the zone
	Source        string  `gorm:"type:varchar(64)"            json:"source,omitempty"`
	Newsletter    bool    `gorm:"not null;default:false"      json:"newsletter"`
	Consumption   *int    `gorm:"type:int"                    json:"consumption,omitempty"` // kWh per year
	CurrentVendor *string `gorm:"type:varchar(255)"           json:"currentVendor,omitempty"`
}

type CreateLeadRequest struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         *string `json:"phone"`
	PostalCode    string  `json:"postalCode"`
	PriceZone     string  `json:"priceZone"`
	Source        string  `json:"source"`
	Newsletter    bool    `json:"newsletter"`
	Consumption   *int    `json:"consumption"`
	CurrentVendor *string `json:"currentVendor"`
}

type ZoneCount struct {
	PriceZone string `json:"priceZone"`
	Count     int64  `json:"count"`
}
