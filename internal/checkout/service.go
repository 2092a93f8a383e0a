package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medmarket-io/medmarket-backend/internal/cart"
	"github.com/medmarket-io/medmarket-backend/internal/orders"
	"github.com/medmarket-io/medmarket-backend/internal/payments"
	pkgerrors "github.com/medmarket-io/medmarket-backend/pkg/errors"
	"github.com/medmarket-io/medmarket-backend/pkg/enums"
)

type cartReader interface {
	Items(token string) []cart.LineItem
}

type orderCreator interface {
	CreateOrders(ctx context.Context, inputs []orders.CreateOrderInput) ([]orders.OrderDTO, error)
}

type sellerLookup interface {
	SellerForProduct(ctx context.Context, productID uuid.UUID) (uuid.UUID, error)
}

// Service drives the checkout state machine.
type Service interface {
	Begin(ctx context.Context, cartToken string) (*FlowDTO, error)
	SubmitDetails(ctx context.Context, flowID uuid.UUID, details CustomerDetails) (*FlowDTO, error)
	Revise(ctx context.Context, flowID uuid.UUID) (*FlowDTO, error)
	Pay(ctx context.Context, flowID uuid.UUID, card CardInput) (*FlowDTO, error)
	Cancel(ctx context.Context, flowID uuid.UUID) (*FlowDTO, error)
	Get(ctx context.Context, flowID uuid.UUID) (*FlowDTO, error)
}

type service struct {
	flows   *flowStore
	carts   cartReader
	gateway payments.Gateway
	orders  orderCreator
	sellers sellerLookup
}

// NewService constructs the checkout service.
func NewService(carts cartReader, gateway payments.Gateway, orderSvc orderCreator, sellers sellerLookup) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order creator required")
	}
	if sellers == nil {
		return nil, fmt.Errorf("seller lookup required")
	}
	return &service{
		flows:   newFlowStore(),
		carts:   carts,
		gateway: gateway,
		orders:  orderSvc,
		sellers: sellers,
	}, nil
}

// Begin snapshots the cart into a new flow. The total is frozen here; later
// cart edits do not affect this flow.
func (s *service) Begin(ctx context.Context, cartToken string) (*FlowDTO, error) {
	if strings.TrimSpace(cartToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}

	lines := append([]cart.LineItem(nil), s.carts.Items(cartToken)...)
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	total := cartTotal(lines)
	now := time.Now().UTC()
	flow := &Flow{
		ID:        uuid.New(),
		CartToken: cartToken,
		State:     enums.CheckoutStateCollectingDetails,
		Lines:     lines,
		Total:     total,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.flows.insert(flow)
	return NewFlowDTO(flow), nil
}

// SubmitDetails stores the shipping details and advances to awaiting_payment.
func (s *service) SubmitDetails(ctx context.Context, flowID uuid.UUID, details CustomerDetails) (*FlowDTO, error) {
	if err := validateDetails(details); err != nil {
		return nil, err
	}

	s.flows.mu.Lock()
	defer s.flows.mu.Unlock()

	flow, err := s.lockedFlow(flowID)
	if err != nil {
		return nil, err
	}
	if flow.State != enums.CheckoutStateCollectingDetails {
		return nil, stateConflict(flow.State, "submit details")
	}

	normalized := details
	normalized.Name = strings.TrimSpace(details.Name)
	normalized.Email = strings.ToLower(strings.TrimSpace(details.Email))
	flow.Details = &normalized
	flow.State = enums.CheckoutStateAwaitingPayment
	flow.UpdatedAt = time.Now().UTC()
	return NewFlowDTO(flow), nil
}

// Revise steps an unpaid flow back to the details form.
func (s *service) Revise(ctx context.Context, flowID uuid.UUID) (*FlowDTO, error) {
	s.flows.mu.Lock()
	defer s.flows.mu.Unlock()

	flow, err := s.lockedFlow(flowID)
	if err != nil {
		return nil, err
	}
	if flow.State != enums.CheckoutStateAwaitingPayment {
		return nil, stateConflict(flow.State, "revise details")
	}
	if flow.Paid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already captured for this checkout")
	}

	flow.State = enums.CheckoutStateCollectingDetails
	flow.UpdatedAt = time.Now().UTC()
	return NewFlowDTO(flow), nil
}

// Pay charges the frozen total and places one order per cart line. A declined
// charge returns the flow to awaiting_payment. When the charge succeeded but
// persistence failed, the paid flag survives so a retry skips the gateway.
func (s *service) Pay(ctx context.Context, flowID uuid.UUID, card CardInput) (*FlowDTO, error) {
	if err := validateCard(card); err != nil {
		return nil, err
	}

	flow, err := s.beginSubmission(flowID)
	if err != nil {
		return nil, err
	}

	if !flow.Paid {
		result, err := s.gateway.Charge(ctx, payments.ChargeRequest{Amount: flow.Total})
		if err != nil {
			s.endSubmission(flow, enums.CheckoutStateAwaitingPayment)
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment gateway")
		}
		if !result.Approved {
			s.endSubmission(flow, enums.CheckoutStateAwaitingPayment)
			return nil, pkgerrors.New(pkgerrors.CodePaymentDeclined, "payment declined, please try again")
		}
		s.markPaid(flow)
	}

	inputs, err := s.buildOrderInputs(ctx, flow)
	if err != nil {
		s.endSubmission(flow, enums.CheckoutStateAwaitingPayment)
		return nil, err
	}

	placed, err := s.orders.CreateOrders(ctx, inputs)
	if err != nil {
		s.endSubmission(flow, enums.CheckoutStateAwaitingPayment)
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place orders")
	}

	s.flows.mu.Lock()
	flow.OrderIDs = make([]uuid.UUID, 0, len(placed))
	for _, order := range placed {
		flow.OrderIDs = append(flow.OrderIDs, order.ID)
	}
	flow.State = enums.CheckoutStateCompleted
	flow.UpdatedAt = time.Now().UTC()
	dto := NewFlowDTO(flow)
	s.flows.mu.Unlock()

	s.flows.remove(flow.ID)
	return dto, nil
}

// Cancel abandons a flow. The cart is left untouched.
func (s *service) Cancel(ctx context.Context, flowID uuid.UUID) (*FlowDTO, error) {
	s.flows.mu.Lock()

	flow, err := s.lockedFlow(flowID)
	if err != nil {
		s.flows.mu.Unlock()
		return nil, err
	}
	if flow.State == enums.CheckoutStateSubmitting {
		s.flows.mu.Unlock()
		return nil, stateConflict(flow.State, "cancel")
	}

	flow.State = enums.CheckoutStateCancelled
	flow.UpdatedAt = time.Now().UTC()
	dto := NewFlowDTO(flow)
	s.flows.mu.Unlock()

	s.flows.remove(flow.ID)
	return dto, nil
}

// Get returns the current flow snapshot.
func (s *service) Get(ctx context.Context, flowID uuid.UUID) (*FlowDTO, error) {
	s.flows.mu.Lock()
	defer s.flows.mu.Unlock()

	flow, err := s.lockedFlow(flowID)
	if err != nil {
		return nil, err
	}
	return NewFlowDTO(flow), nil
}

// beginSubmission moves the flow into submitting, which also excludes a
// concurrent Pay on the same flow.
func (s *service) beginSubmission(flowID uuid.UUID) (*Flow, error) {
	s.flows.mu.Lock()
	defer s.flows.mu.Unlock()

	flow, err := s.lockedFlow(flowID)
	if err != nil {
		return nil, err
	}
	if flow.State != enums.CheckoutStateAwaitingPayment {
		return nil, stateConflict(flow.State, "pay")
	}
	if flow.Details == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "customer details are missing")
	}

	flow.State = enums.CheckoutStateSubmitting
	flow.UpdatedAt = time.Now().UTC()
	return flow, nil
}

func (s *service) endSubmission(flow *Flow, state enums.CheckoutState) {
	s.flows.mu.Lock()
	defer s.flows.mu.Unlock()
	flow.State = state
	flow.UpdatedAt = time.Now().UTC()
}

func (s *service) markPaid(flow *Flow) {
	s.flows.mu.Lock()
	defer s.flows.mu.Unlock()
	flow.Paid = true
}

func (s *service) buildOrderInputs(ctx context.Context, flow *Flow) ([]orders.CreateOrderInput, error) {
	inputs := make([]orders.CreateOrderInput, 0, len(flow.Lines))
	for _, line := range flow.Lines {
		sellerID, err := s.sellers.SellerForProduct(ctx, line.ProductID)
		if err != nil {
			if pkgerrors.As(err) != nil {
				return nil, err
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve product seller")
		}
		inputs = append(inputs, orders.CreateOrderInput{
			SellerID:        sellerID,
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			TotalAmount:     line.Subtotal(),
			CustomerName:    flow.Details.Name,
			CustomerEmail:   flow.Details.Email,
			CustomerAddress: flow.Details.Address,
		})
	}
	return inputs, nil
}

func (s *service) lockedFlow(flowID uuid.UUID) (*Flow, error) {
	flow, ok := s.flows.flows[flowID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout flow not found")
	}
	return flow, nil
}

func validateDetails(details CustomerDetails) error {
	if strings.TrimSpace(details.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	email := strings.TrimSpace(details.Email)
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if !strings.Contains(email, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is invalid")
	}
	return nil
}

func stateConflict(state enums.CheckoutState, action string) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("cannot %s while checkout is %s", action, state))
}

func cartTotal(lines []cart.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}
