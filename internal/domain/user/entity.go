// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role distinguishes sellers from customers
type Role string

const (
	RoleSeller   Role = "seller"
	RoleCustomer Role = "customer"
)

// User represents the user entity
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Username    string     `gorm:"uniqueIndex;not null;size:150" json:"username"`
	Password    string     `gorm:"not null;size:255" json:"-"` // Don't return in JSON
	FirstName   string     `gorm:"size:100" json:"first_name"`
	LastName    string     `gorm:"size:100" json:"last_name"`
	Phone       string     `gorm:"size:20" json:"phone"`
	Role        Role       `gorm:"size:20;not null;default:'customer'" json:"role"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	IsStaff     bool       `gorm:"default:false" json:"is_staff"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"date_joined"`
	UpdatedAt   time.Time  `json:"updated_at"`

	SellerShop *SellerShop `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"seller_shop,omitempty"`
}

// SellerShop is the storefront owned by a seller account
type SellerShop struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     uint      `gorm:"uniqueIndex;not null" json:"owner_id"`
	ShopName    string    `gorm:"uniqueIndex;not null;size:255" json:"shop_name"`
	Slug        string    `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Phone       string    `gorm:"size:20" json:"phone"`
	Email       string    `gorm:"size:255" json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for SellerShop
func (SellerShop) TableName() string {
	return "seller_shops"
}

// BeforeCreate hook to handle business logic before user creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	// Email should be lowercase
	u.Email = strings.ToLower(u.Email)
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	return nil
}

// GetFullName returns the title-cased first and last name
func (u *User) GetFullName() string {
	return strings.TrimSpace(titleWord(u.FirstName) + " " + titleWord(u.LastName))
}

// GetDisplayName returns display name (full name or username)
func (u *User) GetDisplayName() string {
	if fullName := u.GetFullName(); fullName != "" {
		return fullName
	}
	return u.Username
}

// IsSeller reports whether the account owns a shop
func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}

func titleWord(s string) string {
	runes := []rune(strings.ToLower(strings.TrimSpace(s)))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}
