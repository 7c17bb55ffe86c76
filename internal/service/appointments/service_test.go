package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/domain"
	appointmentRepo "github.com/carosellagiuliano-max/salon-booking-service/internal/infra/storage/appointment"
	"github.com/carosellagiuliano-max/salon-booking-service/internal/integrations/catalogservice"
	"github.com/carosellagiuliano-max/salon-booking-service/internal/integrations/notifyservice"
	"github.com/carosellagiuliano-max/salon-booking-service/internal/service/appointments/models"
)

// ---------------------------------------------------------------
// Фейки зависимостей
// ---------------------------------------------------------------

type fakeAppointmentRepo struct {
	byID map[int64]*domain.Appointment

	cancelledID     int64
	cancelledReason string
	updatedID       int64
	updatedStatus   domain.AppointmentStatus

	customerAppointments []*domain.Appointment
	salonAppointments    []*domain.Appointment
	lastFilter           domain.SalonAppointmentsFilter
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appointment, ok := f.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return appointment, nil
}

func (f *fakeAppointmentRepo) GetByCustomerID(_ context.Context, _ int64, _ *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	return f.customerAppointments, nil
}

func (f *fakeAppointmentRepo) GetBySalonWithFilter(_ context.Context, filter domain.SalonAppointmentsFilter) ([]*domain.Appointment, error) {
	f.lastFilter = filter
	return f.salonAppointments, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	f.updatedID = id
	f.updatedStatus = status
	return nil
}

func (f *fakeAppointmentRepo) Cancel(_ context.Context, id int64, reason string) error {
	f.cancelledID = id
	f.cancelledReason = reason
	return nil
}

type fakeCatalogClient struct {
	staff map[int64]*catalogservice.Staff
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

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// ---------------------------------------------------------------
// Базовый сценарий
// ---------------------------------------------------------------

const (
	testAppointmentID = int64(42)
	testCustomerID    = int64(500)
	testSalonID       = int64(1)
	testStaffUserID   = int64(7) // активный сотрудник салона
	testStrangerID    = int64(999)
)

type fixture struct {
	appointmentRepo *fakeAppointmentRepo
	catalogClient   *fakeCatalogClient
	notifyClient    *fakeNotifyClient
}

func newFixture(status domain.AppointmentStatus) *fixture {
	return &fixture{
		appointmentRepo: &fakeAppointmentRepo{
			byID: map[int64]*domain.Appointment{
				testAppointmentID: {
					ID:              testAppointmentID,
					SalonID:         testSalonID,
					StaffID:         testStaffUserID,
					CustomerID:      testCustomerID,
					Date:            time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
					StartTime:       "10:00",
					DurationMinutes: 30,
					Status:          status,
				},
			},
		},
		catalogClient: &fakeCatalogClient{
			staff: map[int64]*catalogservice.Staff{
				testStaffUserID: {ID: testStaffUserID, SalonID: testSalonID, IsActive: true},
			},
		},
		notifyClient: newFakeNotifyClient(),
	}
}

func (fx *fixture) service() *Service {
	return NewService(fx.appointmentRepo, fx.catalogClient, fx.notifyClient, nopLogger{})
}

func waitForNotification(t *testing.T, fx *fixture) *notifyservice.Notification {
	t.Helper()
	select {
	case n := <-fx.notifyClient.sent:
		return n
	case <-time.After(time.Second):
		t.Fatal("notification was not sent")
		return nil
	}
}

// ---------------------------------------------------------------
// GetByID
// ---------------------------------------------------------------

func TestGetByID(t *testing.T) {
	t.Parallel()

	t.Run("owner can see own appointment", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusConfirmed)

		resp, err := fx.service().GetByID(context.Background(), testAppointmentID, testCustomerID)
		require.NoError(t, err)
		assert.Equal(t, testAppointmentID, resp.ID)
		assert.Equal(t, "confirmed", resp.Status)
	})

	t.Run("salon staff can see any salon appointment", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusConfirmed)

		_, err := fx.service().GetByID(context.Background(), testAppointmentID, testStaffUserID)
		assert.NoError(t, err)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusConfirmed)

		_, err := fx.service().GetByID(context.Background(), testAppointmentID, testStrangerID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("inactive staff is denied", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusConfirmed)
		fx.catalogClient.staff[testStaffUserID].IsActive = false

		_, err := fx.service().GetByID(context.Background(), testAppointmentID, testStaffUserID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusConfirmed)

		_, err := fx.service().GetByID(context.Background(), 777, testCustomerID)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

// ---------------------------------------------------------------
// GetCustomerAppointments
// ---------------------------------------------------------------

func TestGetCustomerAppointments(t *testing.T) {
	t.Parallel()

	t.Run("customer sees own history", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusConfirmed)
		fx.appointmentRepo.customerAppointments = []*domain.Appointment{
			fx.appointmentRepo.byID[testAppointmentID],
		}

		resp, err := fx.service().GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{
			CustomerID: testCustomerID,
			UserID:     testCustomerID,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Appointments, 1)
	})

	t.Run("other user's history is denied", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusConfirmed)

		_, err := fx.service().GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{
			CustomerID: testCustomerID,
			UserID:     testStrangerID,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusConfirmed)
		badStatus := "archived"

		_, err := fx.service().GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{
			CustomerID: testCustomerID,
			UserID:     testCustomerID,
			Status:     &badStatus,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

// ---------------------------------------------------------------
// GetSalonAppointments
// ---------------------------------------------------------------

func TestGetSalonAppointments(t *testing.T) {
	t.Parallel()

	t.Run("staff member gets filtered list", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusConfirmed)
		fx.appointmentRepo.salonAppointments = []*domain.Appointment{
			fx.appointmentRepo.byID[testAppointmentID],
		}

		staffID := testStaffUserID
		resp, err := fx.service().GetSalonAppointments(context.Background(), &models.GetSalonAppointmentsRequest{
			SalonID: testSalonID,
			UserID:  testStaffUserID,
			StaffID: &staffID,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Appointments, 1)
		require.NotNil(t, fx.appointmentRepo.lastFilter.StaffID)
		assert.Equal(t, staffID, *fx.appointmentRepo.lastFilter.StaffID)
		assert.False(t, fx.appointmentRepo.lastFilter.IncludeInactive)
	})

	t.Run("non-staff user is denied", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusConfirmed)

		_, err := fx.service().GetSalonAppointments(context.Background(), &models.GetSalonAppointmentsRequest{
			SalonID: testSalonID,
			UserID:  testStrangerID,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

// ---------------------------------------------------------------
// Cancel
// ---------------------------------------------------------------

func TestCancel(t *testing.T) {
	t.Parallel()

	t.Run("owner cancels confirmed appointment", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusConfirmed)

		err := fx.service().Cancel(context.Background(), testAppointmentID, &models.CancelAppointmentRequest{
			UserID:             testCustomerID,
			CancellationReason: "plans changed",
		})
		require.NoError(t, err)
		assert.Equal(t, testAppointmentID, fx.appointmentRepo.cancelledID)
		assert.Equal(t, "plans changed", fx.appointmentRepo.cancelledReason)

		n := waitForNotification(t, fx)
		assert.Equal(t, notifyservice.EventAppointmentCancelled, n.Event)
		assert.Equal(t, testAppointmentID, n.AppointmentID)
	})

	t.Run("cancelling already cancelled appointment is idempotent", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusCancelled)

		err := fx.service().Cancel(context.Background(), testAppointmentID, &models.CancelAppointmentRequest{
			UserID: testCustomerID,
		})
		require.NoError(t, err)
		// Повторного обращения к репозиторию не было
		assert.Zero(t, fx.appointmentRepo.cancelledID)
	})

	t.Run("completed appointment cannot be cancelled", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusCompleted)

		err := fx.service().Cancel(context.Background(), testAppointmentID, &models.CancelAppointmentRequest{
			UserID: testCustomerID,
		})
		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("no-show appointment cannot be cancelled", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusNoShow)

		err := fx.service().Cancel(context.Background(), testAppointmentID, &models.CancelAppointmentRequest{
			UserID: testCustomerID,
		})
		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusConfirmed)

		err := fx.service().Cancel(context.Background(), testAppointmentID, &models.CancelAppointmentRequest{
			UserID: testStrangerID,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("too long cancellation reason", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusConfirmed)

		long := make([]byte, domain.MaxCancellationReasonLength+1)
		for i := range long {
			long[i] = 'x'
		}

		err := fx.service().Cancel(context.Background(), testAppointmentID, &models.CancelAppointmentRequest{
			UserID:             testCustomerID,
			CancellationReason: string(long),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusConfirmed)

		err := fx.service().Cancel(context.Background(), 777, &models.CancelAppointmentRequest{
			UserID: testCustomerID,
		})
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

// ---------------------------------------------------------------
// UpdateStatus
// ---------------------------------------------------------------

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	t.Run("confirmed to completed", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusConfirmed)

		err := fx.service().UpdateStatus(context.Background(), testAppointmentID, &models.UpdateStatusRequest{
			UserID: testStaffUserID,
			Status: "completed",
		})
		require.NoError(t, err)
		assert.Equal(t, testAppointmentID, fx.appointmentRepo.updatedID)
		assert.Equal(t, domain.StatusCompleted, fx.appointmentRepo.updatedStatus)
	})

	t.Run("pending to confirmed sends confirmation", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusPending)

		err := fx.service().UpdateStatus(context.Background(), testAppointmentID, &models.UpdateStatusRequest{
			UserID: testStaffUserID,
			Status: "confirmed",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, fx.appointmentRepo.updatedStatus)

		n := waitForNotification(t, fx)
		assert.Equal(t, notifyservice.EventAppointmentConfirmed, n.Event)
	})

	t.Run("transition to cancelled goes through Cancel", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusConfirmed)

		err := fx.service().UpdateStatus(context.Background(), testAppointmentID, &models.UpdateStatusRequest{
			UserID: testStaffUserID,
			Status: "cancelled",
		})
		require.NoError(t, err)
		assert.Equal(t, testAppointmentID, fx.appointmentRepo.cancelledID)
		assert.Zero(t, fx.appointmentRepo.updatedID)

		n := waitForNotification(t, fx)
		assert.Equal(t, notifyservice.EventAppointmentCancelled, n.Event)
	})

	t.Run("pending to completed is forbidden", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusPending)

		err := fx.service().UpdateStatus(context.Background(), testAppointmentID, &models.UpdateStatusRequest{
			UserID: testStaffUserID,
			Status: "completed",
		})
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	})

	t.Run("terminal status cannot transition", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusCompleted)

		err := fx.service().UpdateStatus(context.Background(), testAppointmentID, &models.UpdateStatusRequest{
			UserID: testStaffUserID,
			Status: "cancelled",
		})
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	})

	t.Run("unknown status value", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusConfirmed)

		err := fx.service().UpdateStatus(context.Background(), testAppointmentID, &models.UpdateStatusRequest{
			UserID: testStaffUserID,
			Status: "done",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("customer cannot update status", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(domain.StatusConfirmed)

		err := fx.service().UpdateStatus(context.Background(), testAppointmentID, &models.UpdateStatusRequest{
			UserID: testCustomerID,
			Status: "completed",
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}
