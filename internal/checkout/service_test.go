package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medmarket-io/medmarket-backend/internal/cart"
	"github.com/medmarket-io/medmarket-backend/internal/orders"
	"github.com/medmarket-io/medmarket-backend/internal/payments"
	pkgerrors "github.com/medmarket-io/medmarket-backend/pkg/errors"
	"github.com/medmarket-io/medmarket-backend/pkg/enums"
)

type stubCartReader struct {
	lines map[string][]cart.LineItem
}

func (s *stubCartReader) Items(token string) []cart.LineItem {
	return s.lines[token]
}

type stubGateway struct {
	approved bool
	err      error
	calls    int
}

func (s *stubGateway) Charge(ctx context.Context, req payments.ChargeRequest) (*payments.ChargeResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &payments.ChargeResult{Approved: s.approved, Reference: uuid.NewString()}, nil
}

type stubOrderCreator struct {
	failures int
	calls    int
	inputs   []orders.CreateOrderInput
}

func (s *stubOrderCreator) CreateOrders(ctx context.Context, inputs []orders.CreateOrderInput) ([]orders.OrderDTO, error) {
	s.calls++
	if s.failures > 0 {
		s.failures--
		return nil, fmt.Errorf("db: connection reset")
	}
	s.inputs = inputs
	placed := make([]orders.OrderDTO, 0, len(inputs))
	for range inputs {
		placed = append(placed, orders.OrderDTO{ID: uuid.New()})
	}
	return placed, nil
}

type stubSellerLookup struct {
	sellers map[uuid.UUID]uuid.UUID
}

func (s *stubSellerLookup) SellerForProduct(ctx context.Context, productID uuid.UUID) (uuid.UUID, error) {
	sellerID, ok := s.sellers[productID]
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return sellerID, nil
}

type checkoutFixture struct {
	svc      Service
	carts    *stubCartReader
	gateway  *stubGateway
	orders   *stubOrderCreator
	sellerID uuid.UUID
	product  uuid.UUID
	token    string
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	sellerID := uuid.New()
	productID := uuid.New()
	token := uuid.NewString()

	carts := &stubCartReader{lines: map[string][]cart.LineItem{
		token: {
			{
				ProductID: productID,
				Name:      "Nitrile Exam Gloves",
				Price:     decimal.RequireFromString("79.99"),
				Quantity:  2,
			},
		},
	}}
	gateway := &stubGateway{approved: true}
	orderCreator := &stubOrderCreator{}
	sellers := &stubSellerLookup{sellers: map[uuid.UUID]uuid.UUID{productID: sellerID}}

	svc, err := NewService(carts, gateway, orderCreator, sellers)
	require.NoError(t, err)

	return &checkoutFixture{
		svc:      svc,
		carts:    carts,
		gateway:  gateway,
		orders:   orderCreator,
		sellerID: sellerID,
		product:  productID,
		token:    token,
	}
}

func validDetails() CustomerDetails {
	address := "12 Harley Street, London"
	return CustomerDetails{
		Name:    "Dana Osei",
		Email:   "Dana.Osei@clinic.test",
		Address: &address,
	}
}

func validCard() CardInput {
	return CardInput{
		Number: "4242 4242 4242 4242",
		Expiry: "12/29",
		CVV:    "123",
		Name:   "Dana Osei",
	}
}

func TestBeginFreezesCartTotal(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	flow, err := fx.svc.Begin(ctx, fx.token)
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStateCollectingDetails.String(), flow.State)
	assert.Equal(t, "159.98", flow.Total)
	require.Len(t, flow.Items, 1)
	assert.Equal(t, 2, flow.Items[0].Quantity)

	// Cart edits after Begin do not change the frozen flow.
	fx.carts.lines[fx.token][0].Quantity = 9
	again, err := fx.svc.Get(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, "159.98", again.Total)
}

func TestBeginRejectsEmptyCart(t *testing.T) {
	fx := newCheckoutFixture(t)

	_, err := fx.svc.Begin(context.Background(), "unknown-token")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestHappyPathPlacesOrders(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	flow, err := fx.svc.Begin(ctx, fx.token)
	require.NoError(t, err)

	flow, err = fx.svc.SubmitDetails(ctx, flow.ID, validDetails())
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStateAwaitingPayment.String(), flow.State)
	require.NotNil(t, flow.Details)
	assert.Equal(t, "dana.osei@clinic.test", flow.Details.Email)

	flow, err = fx.svc.Pay(ctx, flow.ID, validCard())
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStateCompleted.String(), flow.State)
	require.Len(t, flow.OrderIDs, 1)

	require.Len(t, fx.orders.inputs, 1)
	input := fx.orders.inputs[0]
	assert.Equal(t, fx.sellerID, input.SellerID)
	assert.Equal(t, fx.product, input.ProductID)
	assert.Equal(t, 2, input.Quantity)
	assert.True(t, decimal.RequireFromString("159.98").Equal(input.TotalAmount))

	// Completed flows are dropped from the store.
	_, err = fx.svc.Get(ctx, flow.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestPayRequiresAwaitingPayment(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	flow, err := fx.svc.Begin(ctx, fx.token)
	require.NoError(t, err)

	_, err = fx.svc.Pay(ctx, flow.ID, validCard())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	assert.Zero(t, fx.gateway.calls)
}

func TestDeclinedChargeReturnsToAwaitingPayment(t *testing.T) {
	fx := newCheckoutFixture(t)
	fx.gateway.approved = false
	ctx := context.Background()

	flow, err := fx.svc.Begin(ctx, fx.token)
	require.NoError(t, err)
	_, err = fx.svc.SubmitDetails(ctx, flow.ID, validDetails())
	require.NoError(t, err)

	_, err = fx.svc.Pay(ctx, flow.ID, validCard())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodePaymentDeclined, pkgerrors.As(err).Code())

	current, err := fx.svc.Get(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStateAwaitingPayment.String(), current.State)
	assert.Zero(t, fx.orders.calls)

	// A later attempt can still succeed.
	fx.gateway.approved = true
	completed, err := fx.svc.Pay(ctx, flow.ID, validCard())
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStateCompleted.String(), completed.State)
}

func TestRetryAfterPersistenceFailureSkipsRecharge(t *testing.T) {
	fx := newCheckoutFixture(t)
	fx.orders.failures = 1
	ctx := context.Background()

	flow, err := fx.svc.Begin(ctx, fx.token)
	require.NoError(t, err)
	_, err = fx.svc.SubmitDetails(ctx, flow.ID, validDetails())
	require.NoError(t, err)

	_, err = fx.svc.Pay(ctx, flow.ID, validCard())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
	assert.Equal(t, 1, fx.gateway.calls)

	// The charge went through, so the retry must not hit the gateway again.
	completed, err := fx.svc.Pay(ctx, flow.ID, validCard())
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStateCompleted.String(), completed.State)
	assert.Equal(t, 1, fx.gateway.calls)
	assert.Equal(t, 2, fx.orders.calls)
}

func TestReviseStepsBackToDetails(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	flow, err := fx.svc.Begin(ctx, fx.token)
	require.NoError(t, err)

	_, err = fx.svc.Revise(ctx, flow.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	_, err = fx.svc.SubmitDetails(ctx, flow.ID, validDetails())
	require.NoError(t, err)

	revised, err := fx.svc.Revise(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStateCollectingDetails.String(), revised.State)
}

func TestCancelDropsFlow(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	flow, err := fx.svc.Begin(ctx, fx.token)
	require.NoError(t, err)

	cancelled, err := fx.svc.Cancel(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStateCancelled.String(), cancelled.State)

	_, err = fx.svc.Get(ctx, flow.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	// The cart itself is untouched by a cancelled checkout.
	assert.Len(t, fx.carts.Items(fx.token), 1)
}

func TestSubmitDetailsValidation(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	flow, err := fx.svc.Begin(ctx, fx.token)
	require.NoError(t, err)

	cases := []struct {
		name    string
		details CustomerDetails
	}{
		{name: "missing name", details: CustomerDetails{Email: "a@b.test"}},
		{name: "missing email", details: CustomerDetails{Name: "Dana"}},
		{name: "bad email", details: CustomerDetails{Name: "Dana", Email: "not-an-email"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.svc.SubmitDetails(ctx, flow.ID, tc.details)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestPayRejectsInvalidCard(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	flow, err := fx.svc.Begin(ctx, fx.token)
	require.NoError(t, err)
	_, err = fx.svc.SubmitDetails(ctx, flow.ID, validDetails())
	require.NoError(t, err)

	card := validCard()
	card.Number = "4242"
	_, err = fx.svc.Pay(ctx, flow.ID, card)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Zero(t, fx.gateway.calls)
}
