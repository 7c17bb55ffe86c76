// Package schedule репозиторий календарных данных салона: часы работы,
// графики мастеров, отсутствия и блокировки времени
//
// Эти данные принадлежат административному workflow салона (внешний CRUD) -
// движок доступности их только читает.
package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/carosellagiuliano-max/salon-booking-service/internal/domain"
	"github.com/carosellagiuliano-max/salon-booking-service/pkg/dbmetrics"
	"github.com/carosellagiuliano-max/salon-booking-service/pkg/psqlbuilder"
	"github.com/carosellagiuliano-max/salon-booking-service/pkg/types"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий календарных данных
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetOpeningHours получает часы работы салона на все дни недели
// Дни без строки в таблице считаются закрытыми
func (r *Repository) GetOpeningHours(ctx context.Context, salonID int64) (*domain.OpeningHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"weekday",
		"is_open",
		"open_time",
		"close_time",
	).
		From("opening_hours").
		Where(squirrel.Eq{"salon_id": salonID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOpeningHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOpeningHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := &domain.OpeningHours{SalonID: salonID}
	found := false

	for rows.Next() {
		window, weekday, err := scanWindow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetOpeningHours - scan row: %v", ErrScanRow, err)
		}
		setWindow(&hours.Week, weekday, window)
		found = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetOpeningHours - rows error: %v", ErrScanRow, err)
	}

	if !found {
		return nil, ErrScheduleNotFound
	}

	return hours, nil
}

// GetStaffWorkingHours получает персональные графики всех мастеров салона
// Возвращает map staff_id -> график; мастер без строк на день недели
// недоступен в этот день
func (r *Repository) GetStaffWorkingHours(ctx context.Context, salonID int64) (map[int64]*domain.StaffWorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"staff_id",
		"weekday",
		"is_open",
		"open_time",
		"close_time",
	).
		From("staff_working_hours").
		Where(squirrel.Eq{"salon_id": salonID}).
		OrderBy("staff_id ASC, weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffWorkingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffWorkingHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[int64]*domain.StaffWorkingHours)

	for rows.Next() {
		var staffID int64
		var weekday int
		var isOpen bool
		var openTime, closeTime types.TimeString

		if err := rows.Scan(&staffID, &weekday, &isOpen, &openTime, &closeTime); err != nil {
			return nil, fmt.Errorf("%w: GetStaffWorkingHours - scan row: %v", ErrScanRow, err)
		}

		hours, ok := result[staffID]
		if !ok {
			hours = &domain.StaffWorkingHours{StaffID: staffID, SalonID: salonID}
			result[staffID] = hours
		}

		setWindow(&hours.Week, time.Weekday(weekday), domain.WorkingWindow{
			Weekday:   time.Weekday(weekday),
			IsOpen:    isOpen,
			OpenTime:  openTime,
			CloseTime: closeTime,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetStaffWorkingHours - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// GetAbsences получает отсутствия мастеров салона, пересекающие период [from, to)
func (r *Repository) GetAbsences(ctx context.Context, salonID int64, from, to time.Time) ([]domain.StaffAbsence, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"salon_id",
		"start_at",
		"end_at",
		"reason",
		"created_at",
	).
		From("staff_absences").
		Where(squirrel.Eq{"salon_id": salonID}).
		Where(squirrel.Lt{"start_at": to}).
		Where(squirrel.Gt{"end_at": from}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAbsences - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAbsences - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	absences := make([]domain.StaffAbsence, 0)

	for rows.Next() {
		var a domain.StaffAbsence
		var createdAt sql.NullTime

		if err := rows.Scan(&a.ID, &a.StaffID, &a.SalonID, &a.StartAt, &a.EndAt, &a.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: GetAbsences - scan row: %v", ErrScanRow, err)
		}

		a.CreatedAt = createdAt.Time
		absences = append(absences, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAbsences - rows error: %v", ErrScanRow, err)
	}

	return absences, nil
}

// GetBlockedTimes получает блокировки времени салона, пересекающие период [from, to)
// Включает как общесалонные блокировки (staff_id IS NULL), так и персональные
func (r *Repository) GetBlockedTimes(ctx context.Context, salonID int64, from, to time.Time) ([]domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"salon_id",
		"staff_id",
		"start_at",
		"end_at",
		"reason",
		"created_at",
	).
		From("blocked_times").
		Where(squirrel.Eq{"salon_id": salonID}).
		Where(squirrel.Lt{"start_at": to}).
		Where(squirrel.Gt{"end_at": from}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedTimes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedTimes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]domain.BlockedTime, 0)

	for rows.Next() {
		var b domain.BlockedTime
		var createdAt sql.NullTime

		if err := rows.Scan(&b.ID, &b.SalonID, &b.StaffID, &b.StartAt, &b.EndAt, &b.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: GetBlockedTimes - scan row: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		blocks = append(blocks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBlockedTimes - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}

func scanWindow(rows *sql.Rows) (domain.WorkingWindow, time.Weekday, error) {
	var weekday int
	var isOpen bool
	var openTime, closeTime types.TimeString

	if err := rows.Scan(&weekday, &isOpen, &openTime, &closeTime); err != nil {
		return domain.WorkingWindow{}, 0, err
	}

	return domain.WorkingWindow{
		Weekday:   time.Weekday(weekday),
		IsOpen:    isOpen,
		OpenTime:  openTime,
		CloseTime: closeTime,
	}, time.Weekday(weekday), nil
}

func setWindow(week *domain.WeekSchedule, weekday time.Weekday, window domain.WorkingWindow) {
	switch weekday {
	case time.Monday:
		week.Monday = window
	case time.Tuesday:
		week.Tuesday = window
	case time.Wednesday:
		week.Wednesday = window
	case time.Thursday:
		week.Thursday = window
	case time.Friday:
		week.Friday = window
	case time.Saturday:
		week.Saturday = window
	case time.Sunday:
		week.Sunday = window
	}
}
