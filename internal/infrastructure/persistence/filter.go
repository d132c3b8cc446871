package persistence

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopledger/backend/internal/domain/shared"
)

// sortableColumns is the allow-list for caller-supplied ordering. Anything
// not listed falls back to the repository's default order, which keeps raw
// query input out of the ORDER BY clause.
var sortableColumns = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"date":           true,
	"due_date":       true,
	"total":          true,
	"due_amount":     true,
	"paid_amount":    true,
	"status":         true,
	"sequence":       true,
	"invoice_number": true,
	"received_at":    true,
	"price":          true,
	"stock":          true,
	"email":          true,
}

// scopeTenant restricts a query to one tenant. uuid.Nil means unscoped:
// the all-shops view of an un-overridden SUPER_ADMIN.
func scopeTenant(query *gorm.DB, tenantID uuid.UUID) *gorm.DB {
	if tenantID == uuid.Nil {
		return query
	}
	return query.Where("tenant_id = ?", tenantID)
}

// applySearch adds a case-insensitive LIKE across the given columns
func applySearch(query *gorm.DB, filter shared.Filter, columns ...string) *gorm.DB {
	if filter.Search == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(filter.Search) + "%"
	clause := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clause[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where(strings.Join(clause, " OR "), args...)
}

// applyPagination adds ordering and page windowing to a query
func applyPagination(query *gorm.DB, filter shared.Filter, defaultOrder string) *gorm.DB {
	order := defaultOrder
	if filter.OrderBy != "" && sortableColumns[filter.OrderBy] {
		dir := "ASC"
		if strings.EqualFold(filter.OrderDir, "desc") {
			dir = "DESC"
		}
		order = filter.OrderBy + " " + dir
	}
	return query.Order(order).Offset(filter.Offset()).Limit(filter.Limit())
}
