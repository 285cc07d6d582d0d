package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ceduni/cafe-sans-fil-sub001/internal/domain"
	apperrors "github.com/ceduni/cafe-sans-fil-sub001/pkg/util"
)

type mockUserRepo struct {
	m     sync.RWMutex
	users map[string]*domain.User
	err   error
}

func newMockUserRepo(usernames ...string) *mockUserRepo {
	repo := &mockUserRepo{users: make(map[string]*domain.User)}
	for _, name := range usernames {
		repo.users[name] = &domain.User{
			ID:       "user-" + name,
			Username: name,
			Status:   domain.UserStatusActive,
		}
	}
	return repo
}

func (r *mockUserRepo) Create(_ context.Context, user *domain.User) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	r.users[user.Username] = user
	return nil
}

func (r *mockUserRepo) Update(_ context.Context, user *domain.User) error {
	r.m.Lock()
	defer r.m.Unlock()
	if _, ok := r.users[user.Username]; !ok {
		return mongo.ErrNoDocuments
	}
	r.users[user.Username] = user
	return nil
}

func (r *mockUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *mockUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	user, ok := r.users[username]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

func (r *mockUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func newTestCafeService(cafeRepo *mockCafeRepo, userRepo *mockUserRepo) *CafeService {
	return NewCafeService(CafeDependencies{
		CafeRepo: cafeRepo,
		UserRepo: userRepo,
	})
}

func assertForbidden(t *testing.T, err error) {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestCreateCafeMakesCreatorAdmin(t *testing.T) {
	cafeRepo := newMockCafeRepo()
	svc := newTestCafeService(cafeRepo, newMockUserRepo("alice"))
	ctx := context.Background()

	cafe, err := svc.CreateCafe(ctx, "alice", "Petit-Salon", "Petit Salon", "", "Pavillon Y", nil)
	require.NoError(t, err)
	assert.Equal(t, "petit-salon", cafe.Slug)
	require.Len(t, cafe.Staff, 1)
	assert.Equal(t, "alice", cafe.Staff[0].Username)
	assert.Equal(t, domain.StaffRoleAdmin, cafe.Staff[0].Role)

	_, err = svc.CreateCafe(ctx, "alice", "petit-salon", "Again", "", "", nil)
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)

	_, err = svc.CreateCafe(ctx, "alice", "", "No Slug", "", "", nil)
	assert.Error(t, err)
}

func TestAddStaffRequiresAdmin(t *testing.T) {
	cafeRepo := newMockCafeRepo(testCafe())
	svc := newTestCafeService(cafeRepo, newMockUserRepo("alice", "bob", "dana"))
	ctx := context.Background()

	// member cannot touch the roster
	_, err := svc.AddStaff(ctx, "bob", "tore-fraction", "dana", domain.StaffRoleMember)
	assertForbidden(t, err)

	// neither can an outsider
	_, err = svc.AddStaff(ctx, "mallory", "tore-fraction", "dana", domain.StaffRoleMember)
	assertForbidden(t, err)

	cafe, err := svc.AddStaff(ctx, "alice", "tore-fraction", "dana", domain.StaffRoleMember)
	require.NoError(t, err)
	assert.Len(t, cafe.Staff, 3)
}

func TestAddStaffValidation(t *testing.T) {
	cafeRepo := newMockCafeRepo(testCafe())
	svc := newTestCafeService(cafeRepo, newMockUserRepo("alice", "bob"))
	ctx := context.Background()

	_, err := svc.AddStaff(ctx, "alice", "tore-fraction", "bob", "BARISTA")
	assert.Error(t, err, "roles outside the closed set are rejected")

	_, err = svc.AddStaff(ctx, "alice", "tore-fraction", "ghost", domain.StaffRoleMember)
	assert.Error(t, err, "the username must belong to an account")

	_, err = svc.AddStaff(ctx, "alice", "tore-fraction", "bob", domain.StaffRoleAdmin)
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code, "duplicate roster entries are a conflict")
}

func TestChangeStaffRoleProtectsLastAdmin(t *testing.T) {
	cafeRepo := newMockCafeRepo(testCafe())
	svc := newTestCafeService(cafeRepo, newMockUserRepo("alice", "bob"))
	ctx := context.Background()

	_, err := svc.ChangeStaffRole(ctx, "alice", "tore-fraction", "alice", domain.StaffRoleMember)
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)

	// promote bob first, then alice may step down
	_, err = svc.ChangeStaffRole(ctx, "alice", "tore-fraction", "bob", domain.StaffRoleAdmin)
	require.NoError(t, err)
	cafe, err := svc.ChangeStaffRole(ctx, "alice", "tore-fraction", "alice", domain.StaffRoleMember)
	require.NoError(t, err)

	roles := map[string]domain.StaffRole{}
	for _, entry := range cafe.Staff {
		roles[entry.Username] = entry.Role
	}
	assert.Equal(t, domain.StaffRoleMember, roles["alice"])
	assert.Equal(t, domain.StaffRoleAdmin, roles["bob"])
}

func TestRemoveStaffProtectsLastAdmin(t *testing.T) {
	cafeRepo := newMockCafeRepo(testCafe())
	svc := newTestCafeService(cafeRepo, newMockUserRepo("alice", "bob"))
	ctx := context.Background()

	err := svc.RemoveStaff(ctx, "alice", "tore-fraction", "alice")
	assert.Error(t, err, "the last admin cannot leave the roster")

	err = svc.RemoveStaff(ctx, "alice", "tore-fraction", "bob")
	require.NoError(t, err)

	err = svc.RemoveStaff(ctx, "alice", "tore-fraction", "ghost")
	assert.Error(t, err)
}

func TestMenuManagementIsAdminOnly(t *testing.T) {
	cafeRepo := newMockCafeRepo(testCafe())
	svc := newTestCafeService(cafeRepo, newMockUserRepo("alice", "bob"))
	ctx := context.Background()

	_, err := svc.AddMenuItem(ctx, "bob", "tore-fraction", MenuItemInput{Name: "Espresso", Price: 2.50, InStock: true})
	assertForbidden(t, err)

	item, err := svc.AddMenuItem(ctx, "alice", "tore-fraction", MenuItemInput{Name: "Espresso", Price: 2.50, InStock: true})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)

	_, err = svc.AddMenuItem(ctx, "alice", "tore-fraction", MenuItemInput{Name: "  ", Price: 1})
	assert.Error(t, err)
	_, err = svc.AddMenuItem(ctx, "alice", "tore-fraction", MenuItemInput{Name: "Free?", Price: -1})
	assert.Error(t, err)

	err = svc.RemoveMenuItem(ctx, "bob", "tore-fraction", item.ID)
	assertForbidden(t, err)
	err = svc.RemoveMenuItem(ctx, "alice", "tore-fraction", item.ID)
	assert.NoError(t, err)
}

func TestSetMenuItemStockAllowsMembers(t *testing.T) {
	cafeRepo := newMockCafeRepo(testCafe())
	svc := newTestCafeService(cafeRepo, newMockUserRepo("alice", "bob"))
	ctx := context.Background()

	// a member at the counter can flip availability
	item, err := svc.SetMenuItemStock(ctx, "bob", "tore-fraction", "latte", false)
	require.NoError(t, err)
	assert.False(t, item.InStock)

	cafe, err := svc.GetCafe(ctx, "tore-fraction")
	require.NoError(t, err)
	stored, ok := cafe.MenuItemByID("latte")
	require.True(t, ok)
	assert.False(t, stored.InStock)

	// but a customer cannot
	_, err = svc.SetMenuItemStock(ctx, "carol", "tore-fraction", "latte", true)
	assertForbidden(t, err)
}

func TestUpdateCafeRequiresAdmin(t *testing.T) {
	cafeRepo := newMockCafeRepo(testCafe())
	svc := newTestCafeService(cafeRepo, newMockUserRepo("alice", "bob"))
	ctx := context.Background()

	_, err := svc.UpdateCafe(ctx, "bob", "tore-fraction", "New Name", "", "", nil)
	assertForbidden(t, err)

	cafe, err := svc.UpdateCafe(ctx, "alice", "tore-fraction", "New Name", "", "Pavillon X", nil)
	require.NoError(t, err)
	assert.Equal(t, "New Name", cafe.Name)
	assert.Equal(t, "Pavillon X", cafe.Location)
}
