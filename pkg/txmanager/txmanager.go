// Package txmanager менеджер сериализуемых транзакций для обёрнутой метриками БД
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/carosellagiuliano-max/salon-booking-service/pkg/dbmetrics"
)

// Количество повторов при serialization failure
const maxRetries = 3

var (
	// ErrBeginTx возвращается при ошибке открытия транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается при ошибке фиксации транзакции
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")

	// ErrRetriesExceeded возвращается, когда все повторы исчерпаны
	ErrRetriesExceeded = errors.New("txmanager: serialization retries exceeded")
)

// TxBeginner интерфейс для начала транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции в сериализуемых транзакциях
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает новый менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable выполняет fn в транзакции с уровнем изоляции SERIALIZABLE
// Транзакция передается внутрь fn через context (dbmetrics.WithTx)
// При serialization failure (40001) или deadlock (40P01) транзакция повторяется
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBeginTx, err)
		}

		txCtx := dbmetrics.WithTx(ctx, tx)

		if err := fn(txCtx); err != nil {
			tx.Rollback()
			if IsSerializationFailure(err) {
				lastErr = err
				continue
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			if IsSerializationFailure(err) {
				lastErr = err
				continue
			}
			return fmt.Errorf("%w: %v", ErrCommitTx, err)
		}

		return nil
	}

	return fmt.Errorf("%w: %v", ErrRetriesExceeded, lastErr)
}

// IsSerializationFailure проверяет, является ли ошибка конфликтом сериализации PostgreSQL
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	// 40001 - serialization_failure, 40P01 - deadlock_detected
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}
