package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidStatusTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from     AppointmentStatus
		to       AppointmentStatus
		expected bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to completed is forbidden", StatusPending, StatusCompleted, false},
		{"pending to no_show is forbidden", StatusPending, StatusNoShow, false},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed to no_show", StatusConfirmed, StatusNoShow, true},
		{"confirmed to pending is forbidden", StatusConfirmed, StatusPending, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusConfirmed, false},
		{"no_show is terminal", StatusNoShow, StatusCompleted, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ValidStatusTransition(tt.from, tt.to))
		})
	}
}

func TestAppointment_IsActive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status   AppointmentStatus
		expected bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusCompleted, true},
		{StatusCancelled, false},
		{StatusNoShow, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			a := &Appointment{Status: tt.status}
			assert.Equal(t, tt.expected, a.IsActive())
		})
	}
}

func TestAppointment_CanBeCancelled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status   AppointmentStatus
		expected bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusCompleted, false},
		{StatusCancelled, false},
		{StatusNoShow, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			a := &Appointment{Status: tt.status}
			assert.Equal(t, tt.expected, a.CanBeCancelled())
		})
	}
}

func TestAppointment_Interval(t *testing.T) {
	t.Parallel()

	t.Run("valid start time", func(t *testing.T) {
		t.Parallel()
		a := &Appointment{StartTime: "10:00", DurationMinutes: 45}
		interval, err := a.Interval()
		require.NoError(t, err)
		assert.Equal(t, NewInterval(600, 645), interval)
	})

	t.Run("malformed start time", func(t *testing.T) {
		t.Parallel()
		a := &Appointment{StartTime: "noon", DurationMinutes: 45}
		_, err := a.Interval()
		assert.Error(t, err)
	})
}
