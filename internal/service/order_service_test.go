package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ceduni/cafe-sans-fil-sub001/internal/domain"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/repository"
	apperrors "github.com/ceduni/cafe-sans-fil-sub001/pkg/util"
)

type mockOrderRepo struct {
	m      sync.RWMutex
	orders map[string]*domain.Order
	err    error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *mockOrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	if order.ID == "" {
		order.ID = "order-" + order.Number
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *mockOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	order, ok := r.orders[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *order
	return &copied, nil
}

func (r *mockOrderRepo) List(_ context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	var result []domain.Order
	for _, order := range r.orders {
		if filter.Username != nil && order.Username != *filter.Username {
			continue
		}
		if filter.CafeSlug != nil && order.CafeSlug != *filter.CafeSlug {
			continue
		}
		result = append(result, *order)
	}
	return result, nil
}

func (r *mockOrderRepo) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	order, ok := r.orders[id]
	if !ok || order.Status != from {
		return mongo.ErrNoDocuments
	}
	order.Status = to
	return nil
}

type mockCafeRepo struct {
	m     sync.RWMutex
	cafes map[string]*domain.Cafe
	err   error
}

func newMockCafeRepo(cafes ...*domain.Cafe) *mockCafeRepo {
	repo := &mockCafeRepo{cafes: make(map[string]*domain.Cafe)}
	for _, cafe := range cafes {
		repo.cafes[cafe.Slug] = cafe
	}
	return repo
}

func (r *mockCafeRepo) Create(_ context.Context, cafe *domain.Cafe) error {
	r.m.Lock()
	defer r.m.Unlock()
	r.cafes[cafe.Slug] = cafe
	return r.err
}

func (r *mockCafeRepo) Update(_ context.Context, cafe *domain.Cafe) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.cafes[cafe.Slug]; !ok {
		return mongo.ErrNoDocuments
	}
	r.cafes[cafe.Slug] = cafe
	return nil
}

func (r *mockCafeRepo) GetBySlug(_ context.Context, slug string) (*domain.Cafe, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	cafe, ok := r.cafes[slug]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *cafe
	copied.Staff = append([]domain.StaffMember{}, cafe.Staff...)
	copied.Menu = append([]domain.MenuItem{}, cafe.Menu...)
	return &copied, nil
}

func (r *mockCafeRepo) List(_ context.Context, _, _ int) ([]domain.Cafe, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	var result []domain.Cafe
	for _, cafe := range r.cafes {
		result = append(result, *cafe)
	}
	return result, r.err
}

func (r *mockCafeRepo) AddStaff(_ context.Context, slug string, member domain.StaffMember) error {
	r.m.Lock()
	defer r.m.Unlock()
	cafe, ok := r.cafes[slug]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for _, entry := range cafe.Staff {
		if entry.Username == member.Username {
			return mongo.ErrNoDocuments
		}
	}
	cafe.Staff = append(cafe.Staff, member)
	return nil
}

func (r *mockCafeRepo) UpdateStaffRole(_ context.Context, slug, username string, role domain.StaffRole) error {
	r.m.Lock()
	defer r.m.Unlock()
	cafe, ok := r.cafes[slug]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for i := range cafe.Staff {
		if cafe.Staff[i].Username == username {
			cafe.Staff[i].Role = role
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *mockCafeRepo) RemoveStaff(_ context.Context, slug, username string) error {
	r.m.Lock()
	defer r.m.Unlock()
	cafe, ok := r.cafes[slug]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for i := range cafe.Staff {
		if cafe.Staff[i].Username == username {
			cafe.Staff = append(cafe.Staff[:i], cafe.Staff[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *mockCafeRepo) SearchText(_ context.Context, _ string, _ int) ([]domain.Cafe, error) {
	return r.List(context.Background(), 0, 0)
}

func testCafe() *domain.Cafe {
	return &domain.Cafe{
		Slug: "tore-fraction",
		Name: "Tore et Fraction",
		Staff: []domain.StaffMember{
			{Username: "alice", Role: domain.StaffRoleAdmin},
			{Username: "bob", Role: domain.StaffRoleMember},
		},
		Menu: []domain.MenuItem{
			{
				ID:      "latte",
				Name:    "Latte",
				Price:   4.50,
				InStock: true,
				Options: []domain.MenuItemOption{
					{Type: "milk", Value: "oat", Fee: 0.75},
				},
			},
			{ID: "scone", Name: "Scone", Price: 3.00, InStock: false},
		},
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestOrderService(orderRepo *mockOrderRepo, cafeRepo *mockCafeRepo, now time.Time) *OrderService {
	return NewOrderService(OrderDependencies{
		OrderRepo: orderRepo,
		CafeRepo:  cafeRepo,
		Now:       fixedClock(now),
	})
}

func TestPlaceOrderComputesTotalServerSide(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc := newTestOrderService(newMockOrderRepo(), newMockCafeRepo(testCafe()), now)

	order, err := svc.PlaceOrder(context.Background(), "carol", "tore-fraction", []OrderLineInput{
		{ItemID: "latte", Quantity: 2, Options: []string{"oat"}},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPlaced, order.Status)
	assert.Equal(t, now, order.CreatedAt)
	assert.InDelta(t, 10.50, order.TotalPrice, 1e-9)
	assert.NotEmpty(t, order.Number)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Latte", order.Items[0].Name)
}

func TestPlaceOrderRejectsBadInput(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc := newTestOrderService(newMockOrderRepo(), newMockCafeRepo(testCafe()), now)
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, "carol", "tore-fraction", nil)
	assert.Error(t, err)

	_, err = svc.PlaceOrder(ctx, "carol", "no-such-cafe", []OrderLineInput{{ItemID: "latte"}})
	assert.Error(t, err)

	_, err = svc.PlaceOrder(ctx, "carol", "tore-fraction", []OrderLineInput{{ItemID: "ghost"}})
	assert.Error(t, err)

	_, err = svc.PlaceOrder(ctx, "carol", "tore-fraction", []OrderLineInput{{ItemID: "scone"}})
	assert.Error(t, err, "out-of-stock items cannot be ordered")

	_, err = svc.PlaceOrder(ctx, "carol", "tore-fraction", []OrderLineInput{{ItemID: "latte", Options: []string{"soy"}}})
	assert.Error(t, err, "options outside the item catalog are rejected")
}

func TestCancelOrderInsideWindow(t *testing.T) {
	placedAt := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	orderRepo := newMockOrderRepo()
	cafeRepo := newMockCafeRepo(testCafe())

	placeSvc := newTestOrderService(orderRepo, cafeRepo, placedAt)
	order, err := placeSvc.PlaceOrder(context.Background(), "carol", "tore-fraction", []OrderLineInput{{ItemID: "latte"}})
	require.NoError(t, err)

	cancelSvc := newTestOrderService(orderRepo, cafeRepo, placedAt.Add(30*time.Minute))
	cancelled, err := cancelSvc.CancelOrder(context.Background(), "carol", order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
}

func TestCancelOrderAfterWindowLapsed(t *testing.T) {
	placedAt := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	orderRepo := newMockOrderRepo()
	cafeRepo := newMockCafeRepo(testCafe())

	placeSvc := newTestOrderService(orderRepo, cafeRepo, placedAt)
	order, err := placeSvc.PlaceOrder(context.Background(), "carol", "tore-fraction", []OrderLineInput{{ItemID: "latte"}})
	require.NoError(t, err)

	lateSvc := newTestOrderService(orderRepo, cafeRepo, placedAt.Add(90*time.Minute))
	_, err = lateSvc.CancelOrder(context.Background(), "carol", order.ID)
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)

	stored, err := orderRepo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPlaced, stored.Status, "lapsed cancel must not change the order")
}

func TestCancelOrderOnlyByOwner(t *testing.T) {
	placedAt := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	orderRepo := newMockOrderRepo()
	cafeRepo := newMockCafeRepo(testCafe())

	svc := newTestOrderService(orderRepo, cafeRepo, placedAt)
	order, err := svc.PlaceOrder(context.Background(), "carol", "tore-fraction", []OrderLineInput{{ItemID: "latte"}})
	require.NoError(t, err)

	_, err = svc.CancelOrder(context.Background(), "mallory", order.ID)
	assert.Error(t, err)
}

func TestUpdateStatusRequiresStaff(t *testing.T) {
	placedAt := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	orderRepo := newMockOrderRepo()
	cafeRepo := newMockCafeRepo(testCafe())

	svc := newTestOrderService(orderRepo, cafeRepo, placedAt)
	order, err := svc.PlaceOrder(context.Background(), "carol", "tore-fraction", []OrderLineInput{{ItemID: "latte"}})
	require.NoError(t, err)

	// customer is not staff
	_, err = svc.UpdateStatus(context.Background(), "carol", order.ID, domain.OrderStatusReady)
	assert.Error(t, err)

	// member can move the order along
	updated, err := svc.UpdateStatus(context.Background(), "bob", order.ID, domain.OrderStatusReady)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusReady, updated.Status)

	// admin completes it
	updated, err = svc.UpdateStatus(context.Background(), "alice", order.ID, domain.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, updated.Status)
}

func TestUpdateStatusEnforcesStateMachine(t *testing.T) {
	placedAt := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	orderRepo := newMockOrderRepo()
	cafeRepo := newMockCafeRepo(testCafe())

	svc := newTestOrderService(orderRepo, cafeRepo, placedAt)
	order, err := svc.PlaceOrder(context.Background(), "carol", "tore-fraction", []OrderLineInput{{ItemID: "latte"}})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), "bob", order.ID, domain.OrderStatusCompleted)
	assert.Error(t, err, "PLACED cannot jump to COMPLETED")

	_, err = svc.UpdateStatus(context.Background(), "bob", order.ID, "SHIPPED")
	assert.Error(t, err, "unknown statuses are rejected, not defaulted")

	_, err = svc.UpdateStatus(context.Background(), "bob", order.ID, domain.OrderStatusReady)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), "bob", order.ID, domain.OrderStatusCompleted)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), "alice", order.ID, domain.OrderStatusCancelled)
	assert.Error(t, err, "terminal orders admit no transitions")
}

func TestMinutesRemainingUsesInjectedClock(t *testing.T) {
	placedAt := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	order := &domain.Order{CreatedAt: placedAt, Status: domain.OrderStatusPlaced}

	svc := newTestOrderService(newMockOrderRepo(), newMockCafeRepo(), placedAt.Add(30*time.Minute))
	assert.Equal(t, 30, svc.MinutesRemaining(order))

	lateSvc := newTestOrderService(newMockOrderRepo(), newMockCafeRepo(), placedAt.Add(2*time.Hour))
	assert.LessOrEqual(t, lateSvc.MinutesRemaining(order), 0)
}

func TestGetOrderVisibility(t *testing.T) {
	placedAt := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	orderRepo := newMockOrderRepo()
	cafeRepo := newMockCafeRepo(testCafe())

	svc := newTestOrderService(orderRepo, cafeRepo, placedAt)
	order, err := svc.PlaceOrder(context.Background(), "carol", "tore-fraction", []OrderLineInput{{ItemID: "latte"}})
	require.NoError(t, err)

	_, err = svc.GetOrderForUser(context.Background(), "carol", order.ID)
	assert.NoError(t, err, "owner sees the order")

	_, err = svc.GetOrderForUser(context.Background(), "bob", order.ID)
	assert.NoError(t, err, "café staff see the order")

	_, err = svc.GetOrderForUser(context.Background(), "mallory", order.ID)
	assert.Error(t, err, "strangers do not")
}
