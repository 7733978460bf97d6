package sqlite

import (
	"database/sql"
	"encoding/json"
	"time"

	"c4dsl/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// ============================================================================
// JSON Marshaling Helpers
// ============================================================================

// unmarshalFindings decodes a findings column, treating NULL as empty
func unmarshalFindings(ns sql.NullString) ([]domain.ParseError, error) {
	out := make([]domain.ParseError, 0)
	if !ns.Valid || ns.String == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// marshalFindings encodes findings; an empty list is stored as NULL
func marshalFindings(findings []domain.ParseError) (sql.NullString, error) {
	if len(findings) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(findings)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// ============================================================================
// Run Row Scanner
// ============================================================================
//
// To add a column to the runs table:
// 1. Add field to runRow
// 2. APPEND it to scanArgs() and runColumns in the same position
// 3. Map it in toDomain()
// 4. Add the column to the schema in sqlite.go migrate()

// runColumns MUST match runRow.scanArgs() order
const runColumns = `id, digest, source, is_valid, error_count, warning_count, errors, warnings, created_at`

// runRow holds all columns from a run query for scanning
type runRow struct {
	ID           string
	Digest       string
	Source       sql.NullString
	IsValid      bool
	ErrorCount   int
	WarningCount int
	ErrorsJSON   sql.NullString
	WarningsJSON sql.NullString
	CreatedAt    int64
}

// scanArgs returns pointers to all fields for sql.Scan()
func (r *runRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,           // 1
		&r.Digest,       // 2
		&r.Source,       // 3
		&r.IsValid,      // 4
		&r.ErrorCount,   // 5
		&r.WarningCount, // 6
		&r.ErrorsJSON,   // 7
		&r.WarningsJSON, // 8
		&r.CreatedAt,    // 9
	}
}

// toDomain converts the scanned row to a domain.Run
func (r *runRow) toDomain() (*domain.Run, error) {
	errs, err := unmarshalFindings(r.ErrorsJSON)
	if err != nil {
		return nil, err
	}
	warnings, err := unmarshalFindings(r.WarningsJSON)
	if err != nil {
		return nil, err
	}
	return &domain.Run{
		ID:        r.ID,
		Digest:    r.Digest,
		Source:    nullToString(r.Source),
		IsValid:   r.IsValid,
		Errors:    errs,
		Warnings:  warnings,
		CreatedAt: time.Unix(0, r.CreatedAt).UTC(),
	}, nil
}
