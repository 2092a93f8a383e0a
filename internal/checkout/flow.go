package checkout

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/medmarket-io/medmarket-backend/internal/cart"
	"github.com/medmarket-io/medmarket-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// CustomerDetails is the shipping information collected before payment.
type CustomerDetails struct {
	Name    string
	Email   string
	Address *string
}

// Flow is one in-flight checkout. Lines and Total are frozen at Begin so cart
// edits after that point do not change what gets charged.
type Flow struct {
	ID        uuid.UUID
	CartToken string
	State     enums.CheckoutState
	Lines     []cart.LineItem
	Total     decimal.Decimal
	Details   *CustomerDetails
	Paid      bool
	OrderIDs  []uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// flowStore keeps in-flight checkout flows in memory. Terminal flows are
// dropped, so a completed or cancelled flow ID is gone.
type flowStore struct {
	mu    sync.Mutex
	flows map[uuid.UUID]*Flow
}

func newFlowStore() *flowStore {
	return &flowStore{flows: make(map[uuid.UUID]*Flow)}
}

func (s *flowStore) insert(flow *Flow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flows[flow.ID] = flow
}

func (s *flowStore) get(id uuid.UUID) (*Flow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	flow, ok := s.flows[id]
	return flow, ok
}

func (s *flowStore) remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flows, id)
}
