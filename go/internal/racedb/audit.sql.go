package racedb

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const insertAuditLog = `-- name: InsertAuditLog :one
INSERT INTO audit_logs (id, event_id, admin_id, action, target_type, target_id, old_value, new_value, reason)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, event_id, admin_id, action, target_type, target_id, old_value, new_value, reason, created_at
`

type InsertAuditLogParams struct {
	ID         uuid.UUID
	EventID    uuid.UUID
	AdminID    uuid.UUID
	Action     string
	TargetType string
	TargetID   uuid.UUID
	OldValue   pqtype.NullRawMessage
	NewValue   pqtype.NullRawMessage
	Reason     sql.NullString
}

func (q *Queries) InsertAuditLog(ctx context.Context, arg InsertAuditLogParams) (AuditLog, error) {
	row := q.db.QueryRowContext(ctx, insertAuditLog,
		arg.ID,
		arg.EventID,
		arg.AdminID,
		arg.Action,
		arg.TargetType,
		arg.TargetID,
		arg.OldValue,
		arg.NewValue,
		arg.Reason,
	)
	var i AuditLog
	err := row.Scan(
		&i.ID,
		&i.EventID,
		&i.AdminID,
		&i.Action,
		&i.TargetType,
		&i.TargetID,
		&i.OldValue,
		&i.NewValue,
		&i.Reason,
		&i.CreatedAt,
	)
	return i, err
}

const listAuditLogsByEvent = `-- name: ListAuditLogsByEvent :many
SELECT id, event_id, admin_id, action, target_type, target_id, old_value, new_value, reason, created_at
FROM audit_logs
WHERE event_id = $1
ORDER BY created_at DESC, id DESC
`

func (q *Queries) ListAuditLogsByEvent(ctx context.Context, eventID uuid.UUID) ([]AuditLog, error) {
	return q.listAuditLogs(ctx, listAuditLogsByEvent, eventID)
}

const listAuditLogsByTarget = `-- name: ListAuditLogsByTarget :many
SELECT id, event_id, admin_id, action, target_type, target_id, old_value, new_value, reason, created_at
FROM audit_logs
WHERE target_id = $1
ORDER BY created_at DESC, id DESC
`

func (q *Queries) ListAuditLogsByTarget(ctx context.Context, targetID uuid.UUID) ([]AuditLog, error) {
	return q.listAuditLogs(ctx, listAuditLogsByTarget, targetID)
}

func (q *Queries) listAuditLogs(ctx context.Context, query string, id uuid.UUID) ([]AuditLog, error) {
	rows, err := q.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AuditLog
	for rows.Next() {
		var i AuditLog
		if err := rows.Scan(
			&i.ID,
			&i.EventID,
			&i.AdminID,
			&i.Action,
			&i.TargetType,
			&i.TargetID,
			&i.OldValue,
			&i.NewValue,
			&i.Reason,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
