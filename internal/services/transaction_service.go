package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "moneylovers/internal/errors"
	"moneylovers/internal/logger"
	"moneylovers/internal/models"
	"moneylovers/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db                 *gorm.DB
	categoryService    CategoryServicer
	budgetService      BudgetServicer
	partnershipService PartnershipServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, categoryService CategoryServicer, budgetService BudgetServicer, partnershipService PartnershipServicer) TransactionServicer {
	return &transactionService{
		db:                 db,
		categoryService:    categoryService,
		budgetService:      budgetService,
		partnershipService: partnershipService,
	}
}

// CreateTransaction records a manual transaction in a visible category
func (s *transactionService) CreateTransaction(
	userID string,
	categoryID string,
	transactionType models.TransactionType,
	sharingType models.SharingType,
	paymentMethod *models.PaymentMethod,
	amount decimal.Decimal,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction_date is required")
	}
	if sharingType == "" {
		sharingType = models.SharingTypePersonal
	}

	category, err := s.categoryService.FindVisibleCategory(s.db, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if string(category.Type) != string(transactionType) {
		return nil, apperrors.ErrCategoryTypeMismatch
	}

	transaction := &models.Transaction{
		UserID:          userID,
		CategoryID:      categoryID,
		Amount:          amount.Round(2),
		TransactionType: transactionType,
		SharingType:     sharingType,
		PaymentMethod:   paymentMethod,
		Description:     description,
		TransactionDate: date,
	}
	if err := s.InsertTransaction(s.db, transaction); err != nil {
		return nil, err
	}

	if transactionType == models.TransactionTypeExpense && s.budgetService != nil {
		if err := s.budgetService.CheckBudgetAlerts(userID, categoryID, date); err != nil {
			logger.Get().Warnw("budget alert check failed", "user_id", userID, "error", err)
		}
	}

	return transaction, nil
}

// InsertTransaction writes the transaction through tx.
func (s *transactionService) InsertTransaction(tx *gorm.DB, transaction *models.Transaction) error {
	transaction.PartnershipID = nil
	if transaction.SharingType == models.SharingTypeShared {
		p, err := requireSharedPartnership(s.partnershipService, tx, transaction.UserID)
		if err != nil {
			return err
		}
		transaction.PartnershipID = &p.ID
	}
	if err := tx.Create(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's transactions.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	result, err := pagination.Find[models.Transaction](base, page, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Category").Order("transaction_date DESC").Order("created_at DESC")
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("transaction_date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("transaction_date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("transaction_type = ?", *f.Type)
	}
	if f.SharingType != nil {
		q = q.Where("sharing_type = ?", *f.SharingType)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.SourceRuleID != nil {
		q = q.Where("source_rule_id = ?", *f.SourceRuleID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction soft-deletes a transaction. Deleting a generated
// transaction does not rewind its recurring transaction.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
