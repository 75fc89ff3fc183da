package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category represents a transaction category. Default categories have no
// owner and are visible to every user.
type Category struct {
	Base
	UserID         *string      `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Name           string       `gorm:"size:100;not null" json:"name"`
	Type           CategoryType `gorm:"size:10;not null;default:expense" json:"type"`
	Icon           string       `gorm:"size:50" json:"icon"`
	Color          string       `gorm:"size:7" json:"color"`
	IsDefault      bool         `gorm:"not null;default:false" json:"is_default"`
	IsLoveCategory bool         `gorm:"not null;default:false" json:"is_love_category"`
	SortOrder      int          `gorm:"not null;default:0" json:"sort_order"`
}

// VisibleTo reports whether userID may use the category.
func (c *Category) VisibleTo(userID string) bool {
	return c.IsDefault || (c.UserID != nil && *c.UserID == userID)
}
