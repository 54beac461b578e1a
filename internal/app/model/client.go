package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultClientStatus = "Active"

type Client struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	TaxID         string              `gorm:"type:varchar(50);uniqueIndex;not null" json:"tax_id"`
	ClientName    *string             `gorm:"type:varchar(255)" json:"client_name"`
	ContactPerson *string             `gorm:"type:varchar(255)" json:"contact_person"`
	Email         *string             `gorm:"type:varchar(255)" json:"email"`
	PhoneNumber   *string             `gorm:"type:varchar(50)" json:"phone_number"`
	AddressLine1  *string             `gorm:"column:address_line_1;type:varchar(255)" json:"address_line_1"`
	AddressLine2  *string             `gorm:"column:address_line_2;type:varchar(255)" json:"address_line_2"`
	City          *string             `gorm:"type:varchar(100)" json:"city"`
	State         *string             `gorm:"type:varchar(50)" json:"state"`
	ZipCode       *string             `gorm:"type:varchar(20)" json:"zip_code"`
	Status        string              `gorm:"type:varchar(50);default:'Active'" json:"status"`
	GrossRevenue  decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"gross_revenue"`
	TotalEES      *int                `gorm:"column:total_ees" json:"total_ees"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (Client) TableName() string {
	return "clients"
}

// Name returns the client name or an empty string.
func (c *Client) Name() string {
	if c == nil || c.ClientName == nil {
		return ""
	}
	return *c.ClientName
}
