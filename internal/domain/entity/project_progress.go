package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectProgress avance reportado de instalación de un material en una obra.
type ProjectProgress struct {
	ID                string
	SiteID            string
	ItemID            string
	QuantityInstalled decimal.Decimal
	LastReportDate    time.Time
}
