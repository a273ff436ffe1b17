package commands_test

import (
	"context"
	"testing"
	"time"

	"labflow/internal/core/application/usecases/commands"
	"labflow/internal/core/domain/model/catalog"
	"labflow/internal/core/domain/model/facility"
	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByBarcode(ctx context.Context, barcode string) (*order.Order, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) HasActiveExam(
	ctx context.Context, patientID, examID kernel.UUID, since time.Time,
) (bool, error) {
	args := m.Called(ctx, patientID, examID, since)
	return args.Bool(0), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockExamCatalog struct{ mock.Mock }

func (m *MockExamCatalog) GetExam(ctx context.Context, id kernel.UUID) (*catalog.ExamDefinition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ExamDefinition), args.Error(1)
}

func (m *MockExamCatalog) GetExams(ctx context.Context, ids []kernel.UUID) ([]*catalog.ExamDefinition, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.ExamDefinition), args.Error(1)
}

type MockPatientDirectory struct{ mock.Mock }

func (m *MockPatientDirectory) GetPatient(ctx context.Context, id kernel.UUID) (ports.Patient, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.Patient), args.Error(1)
}

type MockFacilityConfigs struct{ mock.Mock }

func (m *MockFacilityConfigs) GetConfig(ctx context.Context, facilityID kernel.UUID) (facility.Config, error) {
	args := m.Called(ctx, facilityID)
	return args.Get(0).(facility.Config), args.Error(1)
}

type MockNumberGenerator struct{ mock.Mock }

func (m *MockNumberGenerator) NextOrderNumber(ctx context.Context, at time.Time) (string, string, error) {
	args := m.Called(ctx, at)
	return args.String(0), args.String(1), args.Error(2)
}

// Test fixtures shared by the handler tests.

func adultPatient(id kernel.UUID) ports.Patient {
	return ports.Patient{
		ID:        id,
		Name:      "Ana Lima",
		BirthDate: time.Date(1985, 4, 12, 0, 0, 0, 0, time.UTC),
		Sex:       catalog.SexFemale,
	}
}

func activeExam(id kernel.UUID) *catalog.ExamDefinition {
	return &catalog.ExamDefinition{
		ID:           id,
		Code:         "GLI",
		Name:         "Fasting Glucose",
		AllowedSex:   catalog.AnySex,
		ValidityDays: 90,
		EntryMode:    catalog.PerField,
		PricePrivate: 2500,
		PricePublic:  0,
		Active:       true,
	}
}

func storedOrder(t *testing.T, items ...*order.Item) *order.Order {
	t.Helper()

	o, err := order.NewOrder(
		kernel.NewUUID(), "LAB20260829000777", "0002600000777",
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		nil, false, order.BillingPrivate, "", items, time.Now(),
	)
	require.NoError(t, err)
	return o
}

func storedItem(t *testing.T) *order.Item {
	t.Helper()

	item, err := order.NewItem(order.ItemSpec{ExamID: kernel.NewUUID(), Quantity: 1, Price: 2500})
	require.NoError(t, err)
	return item
}
