package create_appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/domain"
	appointmentRepo "github.com/carosellagiuliano-max/salon-booking-service/internal/infra/storage/appointment"
	configRepo "github.com/carosellagiuliano-max/salon-booking-service/internal/infra/storage/salonconfig"
	"github.com/carosellagiuliano-max/salon-booking-service/internal/integrations/catalogservice"
	"github.com/carosellagiuliano-max/salon-booking-service/internal/integrations/notifyservice"
	"github.com/carosellagiuliano-max/salon-booking-service/pkg/types"
)

// ---------------------------------------------------------------
// Фейки зависимостей
// ---------------------------------------------------------------

type fakeAppointmentRepo struct {
	existing  []*domain.Appointment
	created   *domain.Appointment
	createErr error
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *appointment
	created.ID = 42
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.created = &created
	return &created, nil
}

func (f *fakeAppointmentRepo) GetBySalonWithFilter(_ context.Context, _ domain.SalonAppointmentsFilter) ([]*domain.Appointment, error) {
	return f.existing, nil
}

// racingAppointmentRepo общий стор для конкурентных бронирований:
// Create атомарно проверяет пересечение активных записей мастера,
// имитируя exclusion constraint БД
type racingAppointmentRepo struct {
	mu     sync.Mutex
	nextID int64
	stored []*domain.Appointment
}

func (f *racingAppointmentRepo) GetBySalonWithFilter(_ context.Context, _ domain.SalonAppointmentsFilter) ([]*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Appointment, len(f.stored))
	copy(out, f.stored)
	return out, nil
}

func (f *racingAppointmentRepo) Create(_ context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	interval, err := appointment.Interval()
	if err != nil {
		return nil, err
	}
	for _, existing := range f.stored {
		if existing.StaffID != appointment.StaffID || !existing.IsActive() {
			continue
		}
		existingInterval, err := existing.Interval()
		if err != nil {
			return nil, err
		}
		if interval.Overlaps(existingInterval) {
			return nil, appointmentRepo.ErrSlotTaken
		}
	}

	f.nextID++
	created := *appointment
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.stored = append(f.stored, &created)
	return &created, nil
}

type fakeScheduleRepo struct {
	opening    *domain.OpeningHours
	openingErr error
	staffHours map[int64]*domain.StaffWorkingHours
	absences   []domain.StaffAbsence
	blocked    []domain.BlockedTime
}

func (f *fakeScheduleRepo) GetOpeningHours(_ context.Context, _ int64) (*domain.OpeningHours, error) {
	if f.openingErr != nil {
		return nil, f.openingErr
	}
	return f.opening, nil
}

func (f *fakeScheduleRepo) GetStaffWorkingHours(_ context.Context, _ int64) (map[int64]*domain.StaffWorkingHours, error) {
	return f.staffHours, nil
}

func (f *fakeScheduleRepo) GetAbsences(_ context.Context, _ int64, _, _ time.Time) ([]domain.StaffAbsence, error) {
	return f.absences, nil
}

func (f *fakeScheduleRepo) GetBlockedTimes(_ context.Context, _ int64, _, _ time.Time) ([]domain.BlockedTime, error) {
	return f.blocked, nil
}

type fakeConfigRepo struct {
	config *domain.SalonBookingConfig
	err    error
}

func (f *fakeConfigRepo) GetBySalonID(_ context.Context, _ int64) (*domain.SalonBookingConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.config, nil
}

type fakeCatalogClient struct {
	services map[int64]*catalogservice.Service
	staff    map[int64]*catalogservice.Staff
}

func (f *fakeCatalogClient) GetService(_ context.Context, _, serviceID int64) (*catalogservice.Service, error) {
	service, ok := f.services[serviceID]
	if !ok {
		return nil, catalogservice.ErrServiceNotFound
	}
	return service, nil
}

func (f *fakeCatalogClient) GetStaff(_ context.Context, _, staffID int64) (*catalogservice.Staff, error) {
	staff, ok := f.staff[staffID]
	if !ok {
		return nil, catalogservice.ErrStaffNotFound
	}
	return staff, nil
}

type fakeNotifyClient struct {
	sent chan *notifyservice.Notification
}

func newFakeNotifyClient() *fakeNotifyClient {
	return &fakeNotifyClient{sent: make(chan *notifyservice.Notification, 1)}
}

func (f *fakeNotifyClient) Send(_ context.Context, n *notifyservice.Notification) error {
	select {
	case f.sent <- n:
	default:
	}
	return nil
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// ---------------------------------------------------------------
// Базовый сценарий: салон 09:00-18:00, мастер 09:00-17:00,
// услуга 30 минут за 50.0
// ---------------------------------------------------------------

const (
	testCustomerID = int64(500)
	testSalonID    = int64(1)
	testStaffID    = int64(7)
	testServiceID  = int64(100)
)

func openWeek(open, close types.TimeString) domain.WeekSchedule {
	window := domain.WorkingWindow{IsOpen: true, OpenTime: open, CloseTime: close}
	return domain.WeekSchedule{
		Monday:    window,
		Tuesday:   window,
		Wednesday: window,
		Thursday:  window,
		Friday:    window,
		Saturday:  window,
		Sunday:    window,
	}
}

type fixture struct {
	appointmentRepo *fakeAppointmentRepo
	scheduleRepo    *fakeScheduleRepo
	configRepo      *fakeConfigRepo
	catalogClient   *fakeCatalogClient
	notifyClient    *fakeNotifyClient
	txManager       *fakeTxManager
	now             time.Time
	loc             *time.Location
	date            time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Zurich")
	require.NoError(t, err)

	price := 50.0

	return &fixture{
		appointmentRepo: &fakeAppointmentRepo{},
		scheduleRepo: &fakeScheduleRepo{
			opening: &domain.OpeningHours{
				SalonID: testSalonID,
				Week:    openWeek("09:00", "18:00"),
			},
			staffHours: map[int64]*domain.StaffWorkingHours{
				testStaffID: {
					StaffID: testStaffID,
					SalonID: testSalonID,
					Week:    openWeek("09:00", "17:00"),
				},
			},
		},
		configRepo: &fakeConfigRepo{
			config: &domain.SalonBookingConfig{
				SalonID:                testSalonID,
				SlotGranularityMinutes: 15,
				MinLeadTimeMinutes:     0,
				AdvanceBookingDays:     0,
				Timezone:               "Europe/Zurich",
			},
		},
		catalogClient: &fakeCatalogClient{
			services: map[int64]*catalogservice.Service{
				testServiceID: {
					ID:              testServiceID,
					SalonID:         testSalonID,
					Name:            "Haircut",
					DurationMinutes: 30,
					Price:           &price,
					StaffIDs:        []int64{testStaffID},
					IsActive:        true,
				},
			},
			staff: map[int64]*catalogservice.Staff{
				testStaffID: {ID: testStaffID, SalonID: testSalonID, Name: "Anna", IsActive: true},
			},
		},
		notifyClient: newFakeNotifyClient(),
		txManager:    &fakeTxManager{},
		now:          time.Date(2026, 9, 8, 12, 0, 0, 0, loc),
		loc:          loc,
		date:         time.Date(2026, 9, 15, 0, 0, 0, 0, loc), // вторник
	}
}

func (fx *fixture) useCase() *UseCase {
	uc := NewUseCase(
		fx.appointmentRepo,
		fx.scheduleRepo,
		fx.configRepo,
		fx.catalogClient,
		fx.notifyClient,
		fx.txManager,
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: fx.now}
	return uc
}

func (fx *fixture) request() *Request {
	return &Request{
		CustomerID: testCustomerID,
		SalonID:    testSalonID,
		StaffID:    testStaffID,
		ServiceIDs: []int64{testServiceID},
		Date:       fx.date,
		StartTime:  "10:00",
	}
}

// ---------------------------------------------------------------
// Тесты
// ---------------------------------------------------------------

func TestExecute_Success(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	resp, err := fx.useCase().Execute(context.Background(), fx.request())
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, testCustomerID, resp.CustomerID)
	assert.Equal(t, testStaffID, resp.StaffID)
	assert.Equal(t, types.TimeString("10:00"), resp.StartTime)
	assert.Equal(t, types.TimeString("10:30"), resp.EndTime)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, []string{"Haircut"}, resp.ServiceNames)
	assert.Equal(t, 50.0, resp.TotalPrice)

	// Запись создана внутри транзакции
	assert.Equal(t, 1, fx.txManager.calls)
	require.NotNil(t, fx.appointmentRepo.created)
	assert.Equal(t, domain.StatusConfirmed, fx.appointmentRepo.created.Status)

	// Уведомление о подтверждении отправляется после коммита
	select {
	case n := <-fx.notifyClient.sent:
		assert.Equal(t, notifyservice.EventAppointmentConfirmed, n.Event)
		assert.Equal(t, int64(42), n.AppointmentID)
	case <-time.After(time.Second):
		t.Fatal("confirmation notification was not sent")
	}
}

func TestExecute_Hold(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	req := fx.request()
	req.Hold = true

	resp, err := fx.useCase().Execute(context.Background(), req)
	require.NoError(t, err)

	// Предварительная бронь создается как pending и не шлет подтверждение
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	require.NotNil(t, fx.appointmentRepo.created)
	assert.Equal(t, domain.StatusPending, fx.appointmentRepo.created.Status)

	select {
	case <-fx.notifyClient.sent:
		t.Fatal("no notification expected for a pending hold")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestExecute_PriceAggregation(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	// Вторая услуга без цены - трактуется как 0
	fx.catalogClient.services[200] = &catalogservice.Service{
		ID:              200,
		SalonID:         testSalonID,
		Name:            "Styling",
		DurationMinutes: 20,
		BufferMinutes:   10,
		StaffIDs:        []int64{testStaffID},
		IsActive:        true,
	}

	req := fx.request()
	req.ServiceIDs = []int64{testServiceID, 200}

	resp, err := fx.useCase().Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 60, resp.DurationMinutes) // 30 + (20 + 10 буфер)
	assert.Equal(t, 50.0, resp.TotalPrice)
	assert.Equal(t, []string{"Haircut", "Styling"}, resp.ServiceNames)
}

func TestExecute_SlotConflicts(t *testing.T) {
	t.Parallel()

	t.Run("existing appointment overlaps", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.appointmentRepo.existing = []*domain.Appointment{
			{
				ID:              1,
				SalonID:         testSalonID,
				StaffID:         testStaffID,
				StartTime:       "09:45",
				DurationMinutes: 30,
				Status:          domain.StatusConfirmed,
			},
		}

		_, err := fx.useCase().Execute(context.Background(), fx.request())
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("back-to-back appointment does not conflict", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.appointmentRepo.existing = []*domain.Appointment{
			{
				ID:              1,
				SalonID:         testSalonID,
				StaffID:         testStaffID,
				StartTime:       "09:30",
				DurationMinutes: 30, // заканчивается ровно в 10:00
				Status:          domain.StatusConfirmed,
			},
		}

		_, err := fx.useCase().Execute(context.Background(), fx.request())
		assert.NoError(t, err)
	})

	t.Run("cancelled appointment does not conflict", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.appointmentRepo.existing = []*domain.Appointment{
			{
				ID:              1,
				SalonID:         testSalonID,
				StaffID:         testStaffID,
				StartTime:       "10:00",
				DurationMinutes: 30,
				Status:          domain.StatusCancelled,
			},
		}

		_, err := fx.useCase().Execute(context.Background(), fx.request())
		assert.NoError(t, err)
	})

	t.Run("exclusion constraint rejects concurrent insert", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.appointmentRepo.createErr = appointmentRepo.ErrSlotTaken

		_, err := fx.useCase().Execute(context.Background(), fx.request())
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("absence overlaps requested slot", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.scheduleRepo.absences = []domain.StaffAbsence{
			{
				StaffID: testStaffID,
				SalonID: testSalonID,
				StartAt: time.Date(2026, 9, 15, 10, 15, 0, 0, fx.loc),
				EndAt:   time.Date(2026, 9, 15, 11, 0, 0, 0, fx.loc),
			},
		}

		_, err := fx.useCase().Execute(context.Background(), fx.request())
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("salon-wide block overlaps requested slot", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.scheduleRepo.blocked = []domain.BlockedTime{
			{
				SalonID: testSalonID,
				StaffID: nil,
				StartAt: time.Date(2026, 9, 15, 9, 0, 0, 0, fx.loc),
				EndAt:   time.Date(2026, 9, 15, 10, 30, 0, 0, fx.loc),
			},
		}

		_, err := fx.useCase().Execute(context.Background(), fx.request())
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("another staff's appointment does not conflict", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.appointmentRepo.existing = []*domain.Appointment{
			{
				ID:              1,
				SalonID:         testSalonID,
				StaffID:         99,
				StartTime:       "10:00",
				DurationMinutes: 30,
				Status:          domain.StatusConfirmed,
			},
		}

		_, err := fx.useCase().Execute(context.Background(), fx.request())
		assert.NoError(t, err)
	})
}

func TestExecute_ConcurrentReservations(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	store := &racingAppointmentRepo{}

	uc := NewUseCase(
		store,
		fx.scheduleRepo,
		fx.configRepo,
		fx.catalogClient,
		fx.notifyClient,
		fx.txManager,
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: fx.now}

	// Два одновременных запроса на один и тот же слот
	start := make(chan struct{})
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := uc.Execute(context.Background(), fx.request())
			errs <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	var successes, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSlotNotAvailable):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes, "ровно одна бронь должна пройти")
	assert.Equal(t, 1, conflicts, "вторая бронь должна получить конфликт слота")
	assert.Len(t, store.stored, 1)
}

func TestExecute_WorkingHours(t *testing.T) {
	t.Parallel()

	t.Run("salon closed on requested day", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.scheduleRepo.opening = &domain.OpeningHours{SalonID: testSalonID}

		_, err := fx.useCase().Execute(context.Background(), fx.request())
		assert.ErrorIs(t, err, ErrSalonClosed)
	})

	t.Run("staff has no schedule", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.scheduleRepo.staffHours = map[int64]*domain.StaffWorkingHours{}

		_, err := fx.useCase().Execute(context.Background(), fx.request())
		assert.ErrorIs(t, err, ErrOutsideWorkingHours)
	})

	t.Run("slot extends past staff window", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		req := fx.request()
		req.StartTime = "16:45" // 16:45 + 30 минут > 17:00

		_, err := fx.useCase().Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrOutsideWorkingHours)
	})

	t.Run("slot ending exactly at window close is allowed", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		req := fx.request()
		req.StartTime = "16:30"

		_, err := fx.useCase().Execute(context.Background(), req)
		assert.NoError(t, err)
	})

	t.Run("slot before opening", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		req := fx.request()
		req.StartTime = "08:30"

		_, err := fx.useCase().Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrOutsideWorkingHours)
	})
}

func TestExecute_LeadTime(t *testing.T) {
	t.Parallel()

	t.Run("same-day booking below lead time", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.configRepo.config.MinLeadTimeMinutes = 120
		fx.now = time.Date(2026, 9, 15, 9, 0, 0, 0, fx.loc)

		// 10:00 ближе двух часов от 09:00
		_, err := fx.useCase().Execute(context.Background(), fx.request())
		assert.ErrorIs(t, err, ErrTooLateToBook)
	})

	t.Run("same-day booking beyond lead time", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.configRepo.config.MinLeadTimeMinutes = 30
		fx.now = time.Date(2026, 9, 15, 9, 0, 0, 0, fx.loc)

		_, err := fx.useCase().Execute(context.Background(), fx.request())
		assert.NoError(t, err)
	})

	t.Run("lead time does not apply to future dates", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.configRepo.config.MinLeadTimeMinutes = 10080 // неделя

		_, err := fx.useCase().Execute(context.Background(), fx.request())
		assert.NoError(t, err)
	})
}

func TestExecute_CatalogErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown staff", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		req := fx.request()
		req.StaffID = 999

		_, err := fx.useCase().Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrStaffNotFound)
	})

	t.Run("inactive staff", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.catalogClient.staff[testStaffID].IsActive = false

		_, err := fx.useCase().Execute(context.Background(), fx.request())
		assert.ErrorIs(t, err, ErrStaffNotFound)
	})

	t.Run("unknown service", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		req := fx.request()
		req.ServiceIDs = []int64{999}

		_, err := fx.useCase().Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("staff not qualified", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.catalogClient.services[testServiceID].StaffIDs = []int64{42}

		_, err := fx.useCase().Execute(context.Background(), fx.request())
		assert.ErrorIs(t, err, ErrStaffNotQualified)
	})
}

func TestExecute_DateValidation(t *testing.T) {
	t.Parallel()

	t.Run("date in the past", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		req := fx.request()
		req.Date = time.Date(2026, 9, 1, 0, 0, 0, 0, fx.loc)

		_, err := fx.useCase().Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("date beyond advance booking limit", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.configRepo.config.AdvanceBookingDays = 3

		_, err := fx.useCase().Execute(context.Background(), fx.request())
		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
	})
}

func TestExecute_DefaultConfigWhenMissing(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.configRepo.err = configRepo.ErrConfigNotFound

	_, err := fx.useCase().Execute(context.Background(), fx.request())
	assert.NoError(t, err)
}

func TestExecute_InputValidation(t *testing.T) {
	t.Parallel()

	longNotes := make([]byte, domain.MaxNotesLength+1)
	for i := range longNotes {
		longNotes[i] = 'a'
	}
	longNotesStr := string(longNotes)

	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"non-positive customer id", func(req *Request) { req.CustomerID = 0 }},
		{"non-positive salon id", func(req *Request) { req.SalonID = -1 }},
		{"non-positive staff id", func(req *Request) { req.StaffID = 0 }},
		{"no services", func(req *Request) { req.ServiceIDs = nil }},
		{"zero date", func(req *Request) { req.Date = time.Time{} }},
		{"empty start time", func(req *Request) { req.StartTime = "" }},
		{"malformed start time", func(req *Request) { req.StartTime = "25:99" }},
		{"notes too long", func(req *Request) { req.Notes = &longNotesStr }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fx := newFixture(t)
			req := fx.request()
			tt.mutate(req)

			_, err := fx.useCase().Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
