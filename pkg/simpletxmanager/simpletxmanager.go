// Package simpletxmanager менеджер сериализуемых транзакций поверх голого *sql.DB
// Используется, когда метрики отключены и БД не обёрнута в dbmetrics.DB
package simpletxmanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/carosellagiuliano-max/salon-booking-service/pkg/dbmetrics"
	"github.com/carosellagiuliano-max/salon-booking-service/pkg/txmanager"
)

// Количество повторов при serialization failure
const maxRetries = 3

// TransactionManager выполняет функции в сериализуемых транзакциях
type TransactionManager struct {
	db *sql.DB
}

// NewTransactionManager создает новый менеджер транзакций
func NewTransactionManager(db *sql.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable выполняет fn в транзакции с уровнем изоляции SERIALIZABLE
// Семантика идентична txmanager.TransactionManager.DoSerializable
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err != nil {
			return fmt.Errorf("%w: %v", txmanager.ErrBeginTx, err)
		}

		txCtx := dbmetrics.WithTx(ctx, tx)

		if err := fn(txCtx); err != nil {
			tx.Rollback()
			if txmanager.IsSerializationFailure(err) {
				lastErr = err
				continue
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			if txmanager.IsSerializationFailure(err) {
				lastErr = err
				continue
			}
			return fmt.Errorf("%w: %v", txmanager.ErrCommitTx, err)
		}

		return nil
	}

	return fmt.Errorf("%w: %v", txmanager.ErrRetriesExceeded, lastErr)
}
