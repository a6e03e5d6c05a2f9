package remote

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pcmejia/inventario-obras/internal/domain/entity"
)

// Representaciones JSON del API remoto (camelCase, fechas RFC 3339).

type sitePayload struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Location string          `json:"location"`
	Budget   decimal.Decimal `json:"budget"`
}

func (p sitePayload) toEntity() entity.Site {
	return entity.Site{ID: p.ID, Name: p.Name, Type: p.Type, Location: p.Location, Budget: p.Budget}
}

type pricePointPayload struct {
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"price"`
}

type itemPayload struct {
	ID           string              `json:"id"`
	SKU          string              `json:"sku"`
	Name         string              `json:"name"`
	Category     string              `json:"category"`
	Unit         string              `json:"unit"`
	Cost         decimal.Decimal     `json:"cost"`
	PriceHistory []pricePointPayload `json:"priceHistory"`
}

func (p itemPayload) toEntity() entity.Item {
	history := make([]entity.PricePoint, 0, len(p.PriceHistory))
	for _, pp := range p.PriceHistory {
		history = append(history, entity.PricePoint{Date: pp.Date, Price: pp.Price})
	}
	return entity.Item{
		ID: p.ID, SKU: p.SKU, Name: p.Name, Category: p.Category,
		Unit: p.Unit, Cost: p.Cost, PriceHistory: history,
	}
}

type inventoryPayload struct {
	ID            string          `json:"id"`
	ItemID        string          `json:"itemId"`
	SiteID        string          `json:"siteId"`
	Quantity      decimal.Decimal `json:"quantity"`
	LastMovedDate time.Time       `json:"lastMovedDate"`
}

func (p inventoryPayload) toEntity() entity.InventoryRecord {
	return entity.InventoryRecord{
		ID: p.ID, ItemID: p.ItemID, SiteID: p.SiteID,
		Quantity: p.Quantity, LastMovedDate: p.LastMovedDate,
	}
}

type transactionPayload struct {
	ID       string          `json:"id"`
	ItemID   string          `json:"itemId"`
	SiteID   string          `json:"siteId"`
	Quantity decimal.Decimal `json:"quantity"`
	Date     time.Time       `json:"date"`
	Type     string          `json:"type"`
}

func (p transactionPayload) toEntity() entity.Transaction {
	return entity.Transaction{
		ID: p.ID, ItemID: p.ItemID, SiteID: p.SiteID,
		Quantity: p.Quantity, Date: p.Date, Type: p.Type,
	}
}

type toolPayload struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	SerialNumber           string    `json:"serialNumber"`
	Brand                  string    `json:"brand"`
	SiteID                 string    `json:"siteId"`
	PurchaseDate           time.Time `json:"purchaseDate"`
	WarrantyExpirationDate time.Time `json:"warrantyExpirationDate"`
	NextMaintenanceDate    time.Time `json:"nextMaintenanceDate"`
	Status                 string    `json:"status"`
	Category               string    `json:"category"`
}

func (p toolPayload) toEntity() entity.Tool {
	return entity.Tool{
		ID: p.ID, Name: p.Name, SerialNumber: p.SerialNumber, Brand: p.Brand,
		SiteID: p.SiteID, PurchaseDate: p.PurchaseDate,
		WarrantyExpirationDate: p.WarrantyExpirationDate,
		NextMaintenanceDate:    p.NextMaintenanceDate,
		Status:                 p.Status, Category: p.Category,
	}
}

type movementPayload struct {
	ID              string          `json:"id"`
	BatchID         string          `json:"batchId,omitempty"`
	ItemID          string          `json:"itemId"`
	FromSiteID      string          `json:"fromSiteId"`
	ToSiteID        string          `json:"toSiteId"`
	Quantity        decimal.Decimal `json:"quantity"`
	RequestDate     time.Time       `json:"requestDate"`
	RequesterID     string          `json:"requesterId"`
	Status          string          `json:"status"`
	ApprovalDate    *time.Time      `json:"approvalDate,omitempty"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
}

func (p movementPayload) toEntity() entity.MovementRequest {
	return entity.MovementRequest{
		ID: p.ID, BatchID: p.BatchID, ItemID: p.ItemID,
		FromSiteID: p.FromSiteID, ToSiteID: p.ToSiteID,
		Quantity: p.Quantity, RequestDate: p.RequestDate,
		RequesterID: p.RequesterID, Status: p.Status,
		ApprovalDate: p.ApprovalDate, RejectionReason: p.RejectionReason,
	}
}

func movementFromEntity(m entity.MovementRequest) movementPayload {
	return movementPayload{
		ID: m.ID, BatchID: m.BatchID, ItemID: m.ItemID,
		FromSiteID: m.FromSiteID, ToSiteID: m.ToSiteID,
		Quantity: m.Quantity, RequestDate: m.RequestDate,
		RequesterID: m.RequesterID, Status: m.Status,
		ApprovalDate: m.ApprovalDate, RejectionReason: m.RejectionReason,
	}
}

type progressPayload struct {
	ID                string          `json:"id"`
	SiteID            string          `json:"siteId"`
	ItemID            string          `json:"itemId"`
	QuantityInstalled decimal.Decimal `json:"quantityInstalled"`
	LastReportDate    time.Time       `json:"lastReportDate"`
}

func (p progressPayload) toEntity() entity.ProjectProgress {
	return entity.ProjectProgress{
		ID: p.ID, SiteID: p.SiteID, ItemID: p.ItemID,
		QuantityInstalled: p.QuantityInstalled, LastReportDate: p.LastReportDate,
	}
}

type userPayload struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	AssignedSiteID string `json:"assignedSiteId,omitempty"`
}

func (p userPayload) toEntity() entity.User {
	return entity.User{
		ID: p.ID, Username: p.Username, Name: p.Name,
		Role: p.Role, AssignedSiteID: p.AssignedSiteID,
	}
}
