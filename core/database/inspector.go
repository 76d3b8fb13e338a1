package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo matches the output of SHOW COLUMNS
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string // Pointer because NULL default is possible
	Extra   string
}

// GetTableColumns retrieves the column definitions for a given table.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo
	if db.Dialector.Name() == "sqlite" {
		// SQLite uses PRAGMA table_info
		type SQLiteColumn struct {
			Cid        int
			Name       string
			Type       string
			Notnull    int
			DefaultVal *string
			Pk         int
		}
		var sqliteCols []SQLiteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&sqliteCols).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, col := range sqliteCols {
			columns = append(columns, ColumnInfo{
				Field: strings.ToLower(col.Name),
				Type:  strings.ToLower(col.Type),
			})
		}
		return columns, nil
	}

	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	// Normalize types to lowercase
	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
		columns[i].Field = strings.ToLower(columns[i].Field)
	}
	return columns, nil
}

// SchemaIssue describes a difference between a model and its table.
type SchemaIssue struct {
	Table  string `json:"table"`
	Column string `json:"column,omitempty"`
	Issue  string `json:"issue"`
}

func (i SchemaIssue) String() string {
	if i.Column == "" {
		return fmt.Sprintf("%s: %s", i.Table, i.Issue)
	}
	return fmt.Sprintf("%s.%s: %s", i.Table, i.Column, i.Issue)
}

// CheckSchema compares the tables of the database with the given models.
// It reports missing tables and missing columns; extra columns are ignored.
func CheckSchema(db *gorm.DB, models ...any) ([]SchemaIssue, error) {
	var issues []SchemaIssue
	for _, model := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		if !db.Migrator().HasTable(table) {
			issues = append(issues, SchemaIssue{Table: table, Issue: "table missing"})
			continue
		}
		columns, err := GetTableColumns(db, table)
		if err != nil {
			return nil, err
		}

		existing := make(map[string]struct{}, len(columns))
		for _, col := range columns {
			existing[col.Field] = struct{}{}
		}
		for _, name := range stmt.Schema.DBNames {
			if _, ok := existing[strings.ToLower(name)]; !ok {
				issues = append(issues, SchemaIssue{Table: table, Column: name, Issue: "column missing"})
			}
		}
	}
	return issues, nil
}
