package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"myCourseCompass/domain"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	DB *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(txn).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

func (r *TransactionRepository) FindByReference(ctx context.Context, reference string) (domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Transaction{}, fmt.Errorf("context error: %w", err)
	}

	var txn domain.Transaction
	if err := r.DB.WithContext(ctx).Where("reference = ?", reference).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Transaction{}, domain.ErrTransactionNotFound
		}
		return domain.Transaction{}, fmt.Errorf("failed to find transaction: %w", err)
	}

	return txn, nil
}

func (r *TransactionRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var txns []domain.Transaction
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC").Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("failed to find transactions: %w", err)
	}

	return txns, nil
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, reference, status, channel string, paidAt *time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updates := map[string]any{
		"status":     status,
		"updated_at": time.Now(),
	}
	if channel != "" {
		updates["channel"] = channel
	}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}

	result := r.DB.WithContext(ctx).Model(&domain.Transaction{}).Where("reference = ?", reference).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}
