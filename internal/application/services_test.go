package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"bakery-backoffice/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPrincipalService_FirstSignInCreatesPendingCollaborator(t *testing.T) {
	repo := new(principalRepoMock)
	svc := NewPrincipalService(repo, &recordingLogger{}, nil)

	repo.On("GetByID", mock.Anything, "sub-1").Return(domain.Principal{}, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p domain.Principal) bool {
		return p.ID == "sub-1" && p.Role == domain.RoleCollaborator && p.Status == domain.StatusPending && !p.CreatedAt.IsZero()
	})).Return(nil)

	p, err := svc.SignIn(context.Background(), domain.Identity{Subject: "sub-1", Email: "a@b.test"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.test", p.Email)
	repo.AssertExpectations(t)
}

func TestPrincipalService_BootstrapSuperAdmin(t *testing.T) {
	repo := new(principalRepoMock)
	svc := NewPrincipalService(repo, &recordingLogger{}, []string{"owner"})

	repo.On("GetByID", mock.Anything, "owner").Return(domain.Principal{}, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p domain.Principal) bool {
		return p.Role == domain.RoleSuperAdmin && p.Status == domain.StatusActive
	})).Return(nil)

	_, err := svc.SignIn(context.Background(), domain.Identity{Subject: "owner"})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestPrincipalService_SignInTouchesExisting(t *testing.T) {
	repo := new(principalRepoMock)
	svc := NewPrincipalService(repo, &recordingLogger{}, nil)

	repo.On("GetByID", mock.Anything, "sub-1").Return(domain.Principal{ID: "sub-1", Role: domain.RoleAdmin}, nil)
	repo.On("TouchLogin", mock.Anything, "sub-1", mock.AnythingOfType("time.Time")).Return(nil)

	p, err := svc.SignIn(context.Background(), domain.Identity{Subject: "sub-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, p.Role)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPrincipalService_ResolveRejectsInactive(t *testing.T) {
	repo := new(principalRepoMock)
	svc := NewPrincipalService(repo, &recordingLogger{}, nil)

	repo.On("GetByID", mock.Anything, "u1").Return(domain.Principal{ID: "u1", Status: domain.StatusInactive}, nil)

	_, err := svc.Resolve(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrInactiveAccount)
}

func TestPrincipalService_UpdateRoleAndStatus(t *testing.T) {
	repo := new(principalRepoMock)
	svc := NewPrincipalService(repo, &recordingLogger{}, nil)
	role := domain.RoleAdmin
	status := domain.StatusActive

	repo.On("GetByID", mock.Anything, "u2").Return(domain.Principal{ID: "u2", Role: domain.RoleCollaborator, Status: domain.StatusPending}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p domain.Principal) bool {
		return p.Role == domain.RoleAdmin && p.Status == domain.StatusActive
	})).Return(nil)

	got, err := svc.Update(context.Background(), domain.Principal{ID: "boss"}, "u2", PrincipalPatch{Role: &role, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)
}

func TestPrincipalService_CannotChangeOwnRole(t *testing.T) {
	repo := new(principalRepoMock)
	svc := NewPrincipalService(repo, &recordingLogger{}, nil)
	status := domain.StatusInactive

	_, err := svc.Update(context.Background(), domain.Principal{ID: "boss"}, "boss", PrincipalPatch{Status: &status})
	assert.ErrorIs(t, err, domain.ErrPermissionDeny)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCustomerService_CreateAndInvalid(t *testing.T) {
	repo := new(customerRepoMock)
	svc := NewCustomerService(repo, &recordingLogger{})
	repo.On("Create", mock.Anything, mock.MatchedBy(func(c domain.Customer) bool {
		return c.ID != "" && c.Name == "Lan"
	})).Return(nil)

	c, err := svc.Create(context.Background(), domain.Customer{Name: "  Lan "})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)

	_, err = svc.Create(context.Background(), domain.Customer{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOrderService_CreateAssignsNumberAndTotal(t *testing.T) {
	repo := new(orderRepoMock)
	svc := NewOrderService(repo, &recordingLogger{})
	actor := domain.Principal{ID: "u1", Email: "staff@bakery.test", CustomName: "Mai"}

	repo.On("NextOrderNumber", mock.Anything).Return(int64(123), nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(o domain.Order) bool {
		return o.OrderNumber == "ORD-000123" && o.Total == 65000 &&
			o.Status == domain.OrderPending && o.PaymentStatus == domain.PaymentUnpaid &&
			o.CreatedBy == "Mai" && o.ID != ""
	})).Return(nil)

	order, err := svc.Create(context.Background(), actor, domain.Order{
		Customer:     domain.Customer{Name: "Lan"},
		Items:        []domain.OrderItem{{Name: "Bông lan", Quantity: 2, Price: 30000}},
		ShippingCost: 5000,
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-000123", order.OrderNumber)
	repo.AssertExpectations(t)
}

func TestOrderService_CreateRejectsEmptyItems(t *testing.T) {
	repo := new(orderRepoMock)
	svc := NewOrderService(repo, &recordingLogger{})

	_, err := svc.Create(context.Background(), domain.Principal{}, domain.Order{Customer: domain.Customer{Name: "Lan"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	repo.AssertNotCalled(t, "NextOrderNumber", mock.Anything)
}

func TestOrderService_CounterErrorIsWrapped(t *testing.T) {
	repo := new(orderRepoMock)
	svc := NewOrderService(repo, &recordingLogger{})
	expected := errors.New("throttled")
	repo.On("NextOrderNumber", mock.Anything).Return(int64(0), expected)

	_, err := svc.Create(context.Background(), domain.Principal{}, domain.Order{
		Customer: domain.Customer{Name: "Lan"},
		Items:    []domain.OrderItem{{Name: "Cake", Quantity: 1, Price: 1}},
	})
	assert.ErrorIs(t, err, expected)
}

func TestOrderService_UpdateStatusRecomputesTotal(t *testing.T) {
	repo := new(orderRepoMock)
	svc := NewOrderService(repo, &recordingLogger{})
	paid := domain.PaymentPaid
	repo.On("GetByID", mock.Anything, "o1").Return(domain.Order{
		ID: "o1", Items: []domain.OrderItem{{Name: "Cake", Quantity: 1, Price: 100}}, PaymentStatus: domain.PaymentUnpaid,
	}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(o domain.Order) bool {
		return o.PaymentStatus == domain.PaymentPaid && o.Total == 100 && o.UpdatedBy == "x@y.test"
	})).Return(nil)

	_, err := svc.Update(context.Background(), domain.Principal{Email: "x@y.test"}, "o1", OrderUpdate{PaymentStatus: &paid})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestOrderService_TransactionsOnlyPaid(t *testing.T) {
	repo := new(orderRepoMock)
	svc := NewOrderService(repo, &recordingLogger{})
	now := time.Now().UTC()
	repo.On("List", mock.Anything).Return([]domain.Order{
		{ID: "a", PaymentStatus: domain.PaymentPaid, Total: 10, CreatedAt: now.Add(-time.Hour)},
		{ID: "b", PaymentStatus: domain.PaymentUnpaid, Total: 20, CreatedAt: now},
		{ID: "c", PaymentStatus: domain.PaymentPaid, Total: 30, CreatedAt: now},
	}, nil)

	summary, err := svc.Transactions(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 40.0, summary.Revenue)
	assert.Equal(t, "c", summary.Orders[0].ID)
}

func TestExportWindow(t *testing.T) {
	now := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)

	from, to, err := ExportWindow(ExportMonth, "", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), to)

	from, to, err = ExportWindow(ExportCustom, "2026-01-05", "2026-01-05", now)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, to.Sub(from))

	from, to, err = ExportWindow(ExportAll, "", "", now)
	require.NoError(t, err)
	assert.True(t, from.IsZero() && to.IsZero())

	_, _, err = ExportWindow(ExportCustom, "2026-01-05", "2026-01-01", now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = ExportWindow("weekly", "", "", now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInventoryService_AppendHistoryRecordsFromQuantity(t *testing.T) {
	repo := new(ingredientRepoMock)
	svc := NewInventoryService(repo, &recordingLogger{})
	repo.On("GetByID", mock.Anything, "flour").Return(domain.Ingredient{
		ID: "flour", Unit: domain.UnitGram, InitialQuantity: 100,
		History: []domain.IngredientHistoryEntry{{Type: domain.HistoryImport, ImportQuantity: 50}},
	}, nil)
	repo.On("AppendHistory", mock.Anything, "flour", mock.MatchedBy(func(e domain.IngredientHistoryEntry) bool {
		return e.FromQuantity == 150 && e.Type == domain.HistoryExport && e.Unit == domain.UnitGram && e.ID != ""
	})).Return(nil)

	_, err := svc.AppendHistory(context.Background(), "flour", domain.IngredientHistoryEntry{Type: "export", ImportQuantity: 30})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestInventoryService_AppendHistoryRejectsNonPositive(t *testing.T) {
	repo := new(ingredientRepoMock)
	svc := NewInventoryService(repo, &recordingLogger{})

	_, err := svc.AppendHistory(context.Background(), "flour", domain.IngredientHistoryEntry{Type: domain.HistoryImport})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInventoryService_CreateNormalizes(t *testing.T) {
	repo := new(ingredientRepoMock)
	svc := NewInventoryService(repo, &recordingLogger{})
	repo.On("Create", mock.Anything, mock.MatchedBy(func(i domain.Ingredient) bool {
		return i.Type == domain.IngredientBase && i.Unit == domain.UnitPiece && i.History != nil
	})).Return(nil)

	_, err := svc.Create(context.Background(), domain.Ingredient{Name: "Egg", Type: "unknown", Unit: "piece"})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCatalogService_SaveProductDefaultsStatus(t *testing.T) {
	products := new(productRepoMock)
	svc := NewCatalogService(products, new(recipeRepoMock), &recordingLogger{})
	products.On("Put", mock.Anything, mock.MatchedBy(func(p domain.Product) bool {
		return p.ID != "" && p.Status == domain.ProductActive
	})).Return(nil)

	_, err := svc.SaveProduct(context.Background(), domain.Product{Name: "Tiramisu", Price: 250000})
	require.NoError(t, err)
	products.AssertExpectations(t)
}

func TestCatalogService_SaveProductUnknownIDNotFound(t *testing.T) {
	products := new(productRepoMock)
	svc := NewCatalogService(products, new(recipeRepoMock), &recordingLogger{})
	products.On("GetByID", mock.Anything, "p9").Return(domain.Product{}, domain.ErrNotFound)

	_, err := svc.SaveProduct(context.Background(), domain.Product{ID: "p9", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogService_SaveRecipeValidatesWasteRate(t *testing.T) {
	svc := NewCatalogService(new(productRepoMock), new(recipeRepoMock), &recordingLogger{})

	_, err := svc.SaveRecipe(context.Background(), domain.Recipe{Name: "Sponge", WasteRate: 1.5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDestinationService_RegisterRejectsEmptyToken(t *testing.T) {
	repo := new(destinationRepoMock)
	svc := NewDestinationService(repo, &recordingLogger{})

	_, err := svc.Register(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	repo.On("Add", mock.Anything, mock.MatchedBy(func(d domain.NotificationDestination) bool {
		return d.Token == "fcm-token" && d.ID != ""
	})).Return(nil)
	_, err = svc.Register(context.Background(), "fcm-token")
	require.NoError(t, err)
}

func TestNavigationService_Menu(t *testing.T) {
	table, err := domain.NewRouteTable("/", domain.DefaultRoutes("/")...)
	require.NoError(t, err)
	svc := NewNavigationService(table)

	menu := svc.Menu(domain.ResolvedSession(domain.Principal{Role: domain.RoleCollaborator}))
	paths := make([]string, 0, len(menu))
	for _, m := range menu {
		paths = append(paths, m.Path)
	}
	assert.Equal(t, []string{"/", "/orders", "/inventory", "/customers"}, paths)

	pending := svc.Menu(domain.PendingSession())
	require.Len(t, pending, 1)
	assert.Equal(t, "/", pending[0].Path)
}
