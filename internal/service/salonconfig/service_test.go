package salonconfig

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/domain"
	configRepo "github.com/carosellagiuliano-max/salon-booking-service/internal/infra/storage/salonconfig"
	"github.com/carosellagiuliano-max/salon-booking-service/internal/integrations/catalogservice"
	"github.com/carosellagiuliano-max/salon-booking-service/internal/service/salonconfig/models"
)

type fakeConfigRepo struct {
	config   *domain.SalonBookingConfig
	getErr   error
	upserted *domain.SalonBookingConfig
}

func (f *fakeConfigRepo) GetBySalonID(_ context.Context, _ int64) (*domain.SalonBookingConfig, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.config, nil
}

func (f *fakeConfigRepo) Upsert(_ context.Context, config *domain.SalonBookingConfig) (*domain.SalonBookingConfig, error) {
	f.upserted = config
	return config, nil
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

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const (
	testSalonID     = int64(1)
	testStaffUserID = int64(7)
)

func newService(repo *fakeConfigRepo) *Service {
	catalog := &fakeCatalogClient{
		staff: map[int64]*catalogservice.Staff{
			testStaffUserID: {ID: testStaffUserID, SalonID: testSalonID, IsActive: true},
		},
	}
	return NewService(repo, catalog, nopLogger{})
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestGet(t *testing.T) {
	t.Parallel()

	t.Run("stored config", func(t *testing.T) {
		t.Parallel()
		svc := newService(&fakeConfigRepo{
			config: &domain.SalonBookingConfig{
				ID:                     10,
				SalonID:                testSalonID,
				SlotGranularityMinutes: 30,
				MinLeadTimeMinutes:     60,
				AdvanceBookingDays:     14,
				Timezone:               "Europe/Berlin",
			},
		})

		resp, err := svc.Get(context.Background(), testSalonID)
		require.NoError(t, err)
		assert.Equal(t, 30, resp.SlotGranularityMinutes)
		assert.Equal(t, "Europe/Berlin", resp.Timezone)
	})

	t.Run("missing config falls back to defaults", func(t *testing.T) {
		t.Parallel()
		svc := newService(&fakeConfigRepo{getErr: configRepo.ErrConfigNotFound})

		resp, err := svc.Get(context.Background(), testSalonID)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSlotGranularityMinutes, resp.SlotGranularityMinutes)
		assert.Equal(t, domain.DefaultMinLeadTimeMinutes, resp.MinLeadTimeMinutes)
		assert.Equal(t, domain.DefaultAdvanceBookingDays, resp.AdvanceBookingDays)
		assert.Equal(t, domain.DefaultTimezone, resp.Timezone)
	})
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	t.Run("partial update keeps unspecified fields", func(t *testing.T) {
		t.Parallel()
		repo := &fakeConfigRepo{
			config: &domain.SalonBookingConfig{
				ID:                     10,
				SalonID:                testSalonID,
				SlotGranularityMinutes: 15,
				MinLeadTimeMinutes:     60,
				AdvanceBookingDays:     14,
				Timezone:               "Europe/Zurich",
			},
		}
		svc := newService(repo)

		resp, err := svc.Update(context.Background(), &models.UpdateConfigRequest{
			UserID:                 testStaffUserID,
			SalonID:                testSalonID,
			SlotGranularityMinutes: intPtr(30),
		})
		require.NoError(t, err)

		assert.Equal(t, 30, resp.SlotGranularityMinutes)
		assert.Equal(t, 60, resp.MinLeadTimeMinutes)
		assert.Equal(t, 14, resp.AdvanceBookingDays)
		assert.Equal(t, "Europe/Zurich", resp.Timezone)
		require.NotNil(t, repo.upserted)
	})

	t.Run("first update starts from defaults", func(t *testing.T) {
		t.Parallel()
		repo := &fakeConfigRepo{getErr: configRepo.ErrConfigNotFound}
		svc := newService(repo)

		resp, err := svc.Update(context.Background(), &models.UpdateConfigRequest{
			UserID:             testStaffUserID,
			SalonID:            testSalonID,
			AdvanceBookingDays: intPtr(30),
		})
		require.NoError(t, err)
		assert.Equal(t, 30, resp.AdvanceBookingDays)
		assert.Equal(t, domain.DefaultSlotGranularityMinutes, resp.SlotGranularityMinutes)
	})

	t.Run("non-staff user is denied", func(t *testing.T) {
		t.Parallel()
		svc := newService(&fakeConfigRepo{getErr: configRepo.ErrConfigNotFound})

		_, err := svc.Update(context.Background(), &models.UpdateConfigRequest{
			UserID:  999,
			SalonID: testSalonID,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			req  *models.UpdateConfigRequest
		}{
			{
				name: "granularity too small",
				req: &models.UpdateConfigRequest{
					SlotGranularityMinutes: intPtr(domain.MinSlotGranularityMinutes - 1),
				},
			},
			{
				name: "granularity too large",
				req: &models.UpdateConfigRequest{
					SlotGranularityMinutes: intPtr(domain.MaxSlotGranularityMinutes + 1),
				},
			},
			{
				name: "negative lead time",
				req: &models.UpdateConfigRequest{
					MinLeadTimeMinutes: intPtr(-1),
				},
			},
			{
				name: "lead time above a week",
				req: &models.UpdateConfigRequest{
					MinLeadTimeMinutes: intPtr(domain.MaxLeadTimeMinutesLimit + 1),
				},
			},
			{
				name: "advance booking above a year",
				req: &models.UpdateConfigRequest{
					AdvanceBookingDays: intPtr(domain.MaxAdvanceBookingDays + 1),
				},
			},
			{
				name: "unknown timezone",
				req: &models.UpdateConfigRequest{
					Timezone: strPtr("Mars/Olympus"),
				},
			},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				svc := newService(&fakeConfigRepo{getErr: configRepo.ErrConfigNotFound})

				tt.req.UserID = testStaffUserID
				tt.req.SalonID = testSalonID

				_, err := svc.Update(context.Background(), tt.req)
				assert.ErrorIs(t, err, ErrInvalidInput)
			})
		}
	})
}
