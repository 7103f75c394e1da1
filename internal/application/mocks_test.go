package application

import (
	"context"
	"sync"
	"time"

	"bakery-backoffice/internal/domain"
	"bakery-backoffice/internal/ports"

	"github.com/stretchr/testify/mock"
)

type principalRepoMock struct{ mock.Mock }

func (m *principalRepoMock) Create(ctx context.Context, p domain.Principal) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *principalRepoMock) GetByID(ctx context.Context, id string) (domain.Principal, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Principal), args.Error(1)
}

func (m *principalRepoMock) List(ctx context.Context) ([]domain.Principal, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Principal), args.Error(1)
}

func (m *principalRepoMock) Update(ctx context.Context, p domain.Principal) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *principalRepoMock) TouchLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type orderRepoMock struct{ mock.Mock }

func (m *orderRepoMock) NextOrderNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *orderRepoMock) Create(ctx context.Context, order domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *orderRepoMock) GetByID(ctx context.Context, id string) (domain.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *orderRepoMock) List(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *orderRepoMock) Update(ctx context.Context, order domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *orderRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type customerRepoMock struct{ mock.Mock }

func (m *customerRepoMock) Create(ctx context.Context, c domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *customerRepoMock) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Customer), args.Error(1)
}

func (m *customerRepoMock) List(ctx context.Context) ([]domain.Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *customerRepoMock) Update(ctx context.Context, c domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *customerRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ingredientRepoMock struct{ mock.Mock }

func (m *ingredientRepoMock) Create(ctx context.Context, ing domain.Ingredient) error {
	args := m.Called(ctx, ing)
	return args.Error(0)
}

func (m *ingredientRepoMock) GetByID(ctx context.Context, id string) (domain.Ingredient, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Ingredient), args.Error(1)
}

func (m *ingredientRepoMock) List(ctx context.Context) ([]domain.Ingredient, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Ingredient), args.Error(1)
}

func (m *ingredientRepoMock) Update(ctx context.Context, ing domain.Ingredient) error {
	args := m.Called(ctx, ing)
	return args.Error(0)
}

func (m *ingredientRepoMock) AppendHistory(ctx context.Context, id string, entry domain.IngredientHistoryEntry) error {
	args := m.Called(ctx, id, entry)
	return args.Error(0)
}

func (m *ingredientRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type productRepoMock struct{ mock.Mock }

func (m *productRepoMock) Put(ctx context.Context, p domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *productRepoMock) GetByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *productRepoMock) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *productRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type recipeRepoMock struct{ mock.Mock }

func (m *recipeRepoMock) Put(ctx context.Context, r domain.Recipe) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *recipeRepoMock) GetByID(ctx context.Context, id string) (domain.Recipe, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Recipe), args.Error(1)
}

func (m *recipeRepoMock) List(ctx context.Context) ([]domain.Recipe, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Recipe), args.Error(1)
}

func (m *recipeRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type destinationRepoMock struct{ mock.Mock }

func (m *destinationRepoMock) Add(ctx context.Context, d domain.NotificationDestination) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *destinationRepoMock) ListAll(ctx context.Context) ([]domain.NotificationDestination, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.NotificationDestination), args.Error(1)
}

type pushSenderMock struct{ mock.Mock }

func (m *pushSenderMock) SendMulticast(ctx context.Context, msg ports.PushMessage) (ports.MulticastResult, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(ports.MulticastResult), args.Error(1)
}

type logEntry struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Info(_ context.Context, msg string, args ...any)  { l.record("info", msg, args) }
func (l *recordingLogger) Warn(_ context.Context, msg string, args ...any)  { l.record("warn", msg, args) }
func (l *recordingLogger) Error(_ context.Context, msg string, args ...any) { l.record("error", msg, args) }
func (l *recordingLogger) Debug(_ context.Context, msg string, args ...any) { l.record("debug", msg, args) }

func (l *recordingLogger) count(level, msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.level == level && e.msg == msg {
			n++
		}
	}
	return n
}
