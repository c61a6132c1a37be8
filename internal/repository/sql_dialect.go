package repository

import (
	"strings"

	"gorm.io/gorm"
)

// matchKeyword 多列模糊查询，任一列包含关键字即命中；空关键字不加条件
func matchKeyword(keyword string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		dialect := ""
		if db.Dialector != nil {
			dialect = db.Dialector.Name()
		}
		condition, args := keywordCondition(dialect, keyword, columns)
		if condition == "" {
			return db
		}
		return db.Where(condition, args...)
	}
}

// keywordCondition postgres 用 ILIKE 保持与 sqlite LIKE 一致的大小写不敏感
func keywordCondition(dialect, keyword string, columns []string) (string, []any) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || len(columns) == 0 {
		return "", nil
	}
	op := " LIKE ?"
	if d := strings.ToLower(dialect); d == "postgres" || d == "postgresql" {
		op = " ILIKE ?"
	}
	pattern := "%" + keyword + "%"
	parts := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, column := range columns {
		parts[i] = column + op
		args[i] = pattern
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}
