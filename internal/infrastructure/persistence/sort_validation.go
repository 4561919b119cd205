package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns defaultField when the input is empty or not whitelisted.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"brand":          true,
	"category":       true,
	"base_price":     true,
	"sold_count":     true,
	"view_count":     true,
	"rating_average": true,
	"rating_count":   true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"status":       true,
	"total_amount": true,
}

// ReviewSortFields contains allowed sort fields for reviews
var ReviewSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"rating":     true,
}

// NotificationSortFields contains allowed sort fields for notifications
var NotificationSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"priority":   true,
	"status":     true,
}
