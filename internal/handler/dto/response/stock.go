package response

import (
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type VariantStockResponse struct {
	VariantID        uuid.UUID `json:"variantId"`
	ProductID        uuid.UUID `json:"productId"`
	ProductName      string    `json:"productName"`
	Colour           string    `json:"colour"`
	Size             string    `json:"size"`
	StockQuantity    int32     `json:"stockQuantity"`
	ReservedQuantity int32     `json:"reservedQuantity"`
	AvailableStock   int32     `json:"availableStock"`
	ReorderLevel     int32     `json:"reorderLevel"`
	InStock          bool      `json:"inStock"`
	NeedsReorder     bool      `json:"needsReorder"`
}

func FromVariantStockView(rm *queries.VariantStockView) *VariantStockResponse {
	resp := &VariantStockResponse{}
	_ = copier.Copy(resp, rm)
	resp.InStock = rm.InStock()
	resp.NeedsReorder = rm.NeedsReorder()
	return resp
}

func FromVariantStockViews(rms []*queries.VariantStockView) []*VariantStockResponse {
	resps := make([]*VariantStockResponse, len(rms))
	for i, rm := range rms {
		resps[i] = FromVariantStockView(rm)
	}
	return resps
}
