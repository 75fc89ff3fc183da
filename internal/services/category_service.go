package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "moneylovers/internal/errors"
	"moneylovers/internal/models"
	"moneylovers/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// visibleTo scopes a category query to default categories and those owned by userID.
func visibleTo(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(is_default = ? OR user_id = ?)", true, userID)
	}
}

// CreateCategory creates a new category owned by the user
func (s *categoryService) CreateCategory(
	userID string,
	name string,
	categoryType models.CategoryType,
	icon string,
	color string,
	isLoveCategory bool,
	sortOrder int,
) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	// Names are unique among the categories a user can see
	var count int64
	if err := s.db.Model(&models.Category{}).
		Scopes(visibleTo(userID)).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategory
	}

	owner := userID
	category := &models.Category{
		UserID:         &owner,
		Name:           name,
		Type:           categoryType,
		Icon:           icon,
		Color:          color,
		IsLoveCategory: isLoveCategory,
		SortOrder:      sortOrder,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetVisibleCategories lists default and owned categories ordered by sort_order.
func (s *categoryService) GetVisibleCategories(userID string, categoryType *models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	base := s.db.Model(&models.Category{}).Scopes(visibleTo(userID))
	if categoryType != nil {
		base = base.Where("type = ?", *categoryType)
	}

	result, err := pagination.Find[models.Category](base, page, func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC").Order("name ASC")
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetCategoryByID retrieves a category visible to the user
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	return s.FindVisibleCategory(s.db, userID, categoryID)
}

// FindVisibleCategory returns the category if it is a default category or is
// owned by userID.
func (s *categoryService) FindVisibleCategory(db *gorm.DB, userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := db.Scopes(visibleTo(userID)).Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// getOwnedCategory returns a category the user may modify.
func (s *categoryService) getOwnedCategory(userID, categoryID string) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.IsDefault {
		return nil, apperrors.ErrDefaultCategory
	}
	return category, nil
}

// UpdateCategory updates an owned category
func (s *categoryService) UpdateCategory(
	userID string,
	categoryID string,
	name string,
	icon string,
	color string,
	sortOrder *int,
) (*models.Category, error) {
	category, err := s.getOwnedCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" && name != category.Name {
		var count int64
		if err := s.db.Model(&models.Category{}).
			Scopes(visibleTo(userID)).
			Where("name = ? AND id <> ?", name, categoryID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateCategory
		}
		updates["name"] = name
	}
	if icon != "" {
		updates["icon"] = icon
	}
	if color != "" {
		updates["color"] = color
	}
	if sortOrder != nil {
		updates["sort_order"] = *sortOrder
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory soft-deletes an owned category that no active recurring
// transaction uses. Existing transactions keep their category_id for history.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.getOwnedCategory(userID, categoryID)
	if err != nil {
		return err
	}

	var ruleCount int64
	if err := s.db.Model(&models.RecurringTransaction{}).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Count(&ruleCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if ruleCount > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
