package httpapi

import (
	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/money"
	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/register"
)

type ProductResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Price          int64  `json:"price"`
	PriceFormatted string `json:"priceFormatted"`
}

type LineResponse struct {
	ProductID         int64  `json:"productId"`
	Name              string `json:"name"`
	Quantity          int    `json:"quantity"`
	Price             int64  `json:"price"`
	Subtotal          int64  `json:"subtotal"`
	SubtotalFormatted string `json:"subtotalFormatted"`
}

type CartResponse struct {
	RegisterID     string         `json:"registerId"`
	Sequence       int64          `json:"sequence"`
	Lines          []LineResponse `json:"lines"`
	Total          int64          `json:"total"`
	TotalFormatted string         `json:"totalFormatted"`
}

type PaymentResponse struct {
	Status string       `json:"status"`
	Amount int64        `json:"amount"`
	Cart   CartResponse `json:"cart"`
}

type addItemRequest struct {
	ProductID *int64 `json:"productId"`
}

type paymentRequest struct {
	Amount *int64 `json:"amount"`
}

func toProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ProductResponse{
			ID:             p.ID,
			Name:           p.Name,
			Price:          p.Price,
			PriceFormatted: money.Format(p.Price),
		})
	}
	return out
}

func toCartResponse(s register.Snapshot) CartResponse {
	resp := CartResponse{
		RegisterID:     s.RegisterID,
		Sequence:       s.Seq,
		Lines:          []LineResponse{},
		Total:          s.Total,
		TotalFormatted: money.Format(s.Total),
	}
	for _, l := range s.Cart.Lines() {
		resp.Lines = append(resp.Lines, LineResponse{
			ProductID:         l.ProductID,
			Name:              l.Name,
			Quantity:          l.Quantity,
			Price:             l.Price,
			Subtotal:          l.Subtotal(),
			SubtotalFormatted: money.Format(l.Subtotal()),
		})
	}
	return resp
}
