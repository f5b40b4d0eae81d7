package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/smartwms/internal/domain/entity"
)

// wireTime acepta RFC 3339 y el isoformat sin zona que emite el backend (hora local del servidor,
// interpretada como UTC).
type wireTime time.Time

var wireLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = wireTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*t = wireTime{}
		return nil
	}
	for _, layout := range wireLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			*t = wireTime(v)
			return nil
		}
	}
	return fmt.Errorf("fecha no reconocida %q", s)
}

func (t wireTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(time.RFC3339Nano))
}

// pickID el backend devuelve _id; algunas rutas devuelven id.
func pickID(mongoID, id string) string {
	if mongoID != "" {
		return mongoID
	}
	return id
}

type productWire struct {
	MongoID     string   `json:"_id,omitempty"`
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	SKU         string   `json:"sku"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand,omitempty"`
	Quantity    int      `json:"quantity"`
	IMEIs       []string `json:"imeis"`
	MinStock    int      `json:"minStock"`
	Price       float64  `json:"price"`
	Location    string   `json:"location"`
	LastUpdated wireTime `json:"lastUpdated"`
}

func (w productWire) toEntity() *entity.Product {
	return &entity.Product{
		ID:          pickID(w.MongoID, w.ID),
		Name:        w.Name,
		SKU:         w.SKU,
		Category:    w.Category,
		Brand:       w.Brand,
		Quantity:    w.Quantity,
		MinStock:    w.MinStock,
		Price:       decimal.NewFromFloat(w.Price),
		Location:    w.Location,
		Serials:     w.IMEIs,
		LastUpdated: time.Time(w.LastUpdated),
	}
}

func productToWire(p *entity.Product) productWire {
	imeis := p.Serials
	if imeis == nil {
		imeis = []string{}
	}
	return productWire{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Category:    p.Category,
		Brand:       p.Brand,
		Quantity:    p.Quantity,
		IMEIs:       imeis,
		MinStock:    p.MinStock,
		Price:       p.Price.InexactFloat64(),
		Location:    p.Location,
		LastUpdated: wireTime(p.LastUpdated),
	}
}

type transactionWire struct {
	MongoID     string   `json:"_id,omitempty"`
	ID          string   `json:"id,omitempty"`
	ProductID   string   `json:"productId"`
	ProductName string   `json:"productName"`
	Type        string   `json:"type"`
	Quantity    int      `json:"quantity"`
	IMEIs       []string `json:"imeis"`
	Partner     string   `json:"partner,omitempty"`
	Date        wireTime `json:"date"`
	Notes       string   `json:"notes,omitempty"`
}

func (w transactionWire) toEntity() *entity.Transaction {
	return &entity.Transaction{
		ID:          pickID(w.MongoID, w.ID),
		ProductID:   w.ProductID,
		ProductName: w.ProductName,
		Type:        entity.TransactionType(w.Type),
		Quantity:    w.Quantity,
		Serials:     w.IMEIs,
		Partner:     w.Partner,
		Date:        time.Time(w.Date),
		Notes:       w.Notes,
	}
}

type movementWire struct {
	MongoID      string   `json:"_id,omitempty"`
	ID           string   `json:"id,omitempty"`
	ProductID    string   `json:"productId"`
	ProductName  string   `json:"productName"`
	SKU          string   `json:"sku"`
	FromLocation string   `json:"fromLocation"`
	ToLocation   string   `json:"toLocation"`
	Date         wireTime `json:"date"`
}

func (w movementWire) toEntity() *entity.MovementLog {
	return &entity.MovementLog{
		ID:           pickID(w.MongoID, w.ID),
		ProductID:    w.ProductID,
		ProductName:  w.ProductName,
		SKU:          w.SKU,
		FromLocation: w.FromLocation,
		ToLocation:   w.ToLocation,
		Date:         time.Time(w.Date),
	}
}

func movementToWire(m *entity.MovementLog) movementWire {
	return movementWire{
		ProductID:    m.ProductID,
		ProductName:  m.ProductName,
		SKU:          m.SKU,
		FromLocation: m.FromLocation,
		ToLocation:   m.ToLocation,
		Date:         wireTime(m.Date),
	}
}

type stocktakeItemWire struct {
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	SKU            string `json:"sku"`
	SystemQuantity int    `json:"systemQuantity"`
	ActualQuantity int    `json:"actualQuantity"`
	Difference     int    `json:"difference"`
	Notes          string `json:"notes,omitempty"`
}

type stocktakeWire struct {
	MongoID         string              `json:"_id,omitempty"`
	ID              string              `json:"id,omitempty"`
	Date            wireTime            `json:"date"`
	Items           []stocktakeItemWire `json:"items"`
	Status          string              `json:"status"`
	Notes           string              `json:"notes,omitempty"`
	TotalDifference int                 `json:"totalDifference"`
}

func (w stocktakeWire) toEntity() *entity.StocktakeSession {
	s := &entity.StocktakeSession{
		ID:              pickID(w.MongoID, w.ID),
		Date:            time.Time(w.Date),
		Status:          w.Status,
		Notes:           w.Notes,
		TotalDifference: w.TotalDifference,
		Items:           make([]entity.StocktakeItem, 0, len(w.Items)),
	}
	for _, it := range w.Items {
		s.Items = append(s.Items, entity.StocktakeItem{
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			SKU:            it.SKU,
			SystemQuantity: it.SystemQuantity,
			ActualQuantity: it.ActualQuantity,
			Difference:     it.Difference,
			Notes:          it.Notes,
		})
	}
	return s
}

// stocktakeToWire el ID local no se envía: el backend asigna el suyo.
func stocktakeToWire(s *entity.StocktakeSession) stocktakeWire {
	w := stocktakeWire{
		Date:            wireTime(s.Date),
		Status:          s.Status,
		Notes:           s.Notes,
		TotalDifference: s.TotalDifference,
		Items:           make([]stocktakeItemWire, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		w.Items = append(w.Items, stocktakeItemWire{
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			SKU:            it.SKU,
			SystemQuantity: it.SystemQuantity,
			ActualQuantity: it.ActualQuantity,
			Difference:     it.Difference,
			Notes:          it.Notes,
		})
	}
	return w
}
