package postgres

import (
	"database/sql"
	"time"

	"github.com/ogurasousui/codex-grpc-team-scope/internal/core/team"
)

// ownerColumns はレコード所有者の列です。users を u、companies を c として結合してください。
const ownerColumns = `u.id, u.name, u.email, u.company_id, c.name`

// ownerScan は ownerColumns の読み取り先です。
type ownerScan struct {
	userID      string
	name        string
	email       string
	companyID   sql.NullString
	companyName sql.NullString
}

func (o *ownerScan) targets() []any {
	return []any{&o.userID, &o.name, &o.email, &o.companyID, &o.companyName}
}

func (o *ownerScan) owner() team.Owner {
	return team.Owner{
		UserID:      o.userID,
		Name:        o.name,
		Email:       o.email,
		CompanyID:   nullableStringPtr(o.companyID),
		CompanyName: nullableStringPtr(o.companyName),
	}
}

func nullableStringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullableTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}

func nullableIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

// nullableText は空文字を NULL として渡します。
func nullableText(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// nullableLimit は 0 以下を NULL (LIMIT NULL は無制限) として渡します。
func nullableLimit(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

func nullableTimeArg(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC()
}
