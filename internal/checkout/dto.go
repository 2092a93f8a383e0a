package checkout

import (
	"github.com/google/uuid"
	"github.com/medmarket-io/medmarket-backend/internal/cart"
)

// FlowDTO is the checkout flow payload returned to clients.
type FlowDTO struct {
	ID       uuid.UUID           `json:"id"`
	State    string              `json:"state"`
	Items    []cart.CartItemDTO  `json:"items"`
	Total    string              `json:"total"`
	Details  *CustomerDetailsDTO `json:"details,omitempty"`
	OrderIDs []uuid.UUID         `json:"order_ids,omitempty"`
}

// CustomerDetailsDTO echoes the collected shipping details.
type CustomerDetailsDTO struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Address *string `json:"address,omitempty"`
}

// NewFlowDTO builds the payload from the in-memory flow.
func NewFlowDTO(flow *Flow) *FlowDTO {
	dto := &FlowDTO{
		ID:       flow.ID,
		State:    flow.State.String(),
		Items:    cart.NewCartDTO(flow.Lines).Items,
		Total:    flow.Total.StringFixed(2),
		OrderIDs: append([]uuid.UUID(nil), flow.OrderIDs...),
	}
	if flow.Details != nil {
		dto.Details = &CustomerDetailsDTO{
			Name:    flow.Details.Name,
			Email:   flow.Details.Email,
			Address: flow.Details.Address,
		}
	}
	return dto
}
