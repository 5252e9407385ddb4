package domain

import "time"

type Organization struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ShortCode string    `json:"shortCode"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

type Workplace struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organizationID"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}
