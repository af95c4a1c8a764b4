package racedb

import (
	"github.com/kpcrmv4/AProject/go/internal/models"
	"github.com/kpcrmv4/AProject/go/internal/sqlutil"
)

// Conversions from rows to domain models shared by every repository.

func (e Event) ToModel() *models.Event {
	return &models.Event{
		ID:                 e.ID,
		AdminID:            e.AdminID,
		Slug:               e.Slug,
		Name:               e.Name,
		RaceDate:           e.RaceDate,
		RegistrationOpens:  sqlutil.FromSqlTime(e.RegistrationOpens),
		RegistrationCloses: sqlutil.FromSqlTime(e.RegistrationCloses),
		Published:          e.Published,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func (c Checkpoint) ToModel() models.Checkpoint {
	return models.Checkpoint{
		ID:            c.ID,
		EventID:       c.EventID,
		Name:          c.Name,
		SortOrder:     int(c.SortOrder),
		AccessCode:    c.AccessCode,
		CodeExpiresAt: c.CodeExpiresAt,
		CreatedAt:     c.CreatedAt,
	}
}

func (c Class) ToModel() models.RaceClass {
	return models.RaceClass{
		ID:        c.ID,
		EventID:   c.EventID,
		Name:      c.Name,
		SortOrder: int(c.SortOrder),
		CreatedAt: c.CreatedAt,
	}
}

func (r Racer) ToModel() models.Racer {
	return models.Racer{
		ID:        r.ID,
		EventID:   r.EventID,
		Name:      r.Name,
		Team:      sqlutil.FromSqlStringPtr(r.Team),
		CreatedAt: r.CreatedAt,
	}
}

func (t Timestamp) ToModel() models.Timestamp {
	return models.Timestamp{
		ID:           t.ID,
		CheckpointID: t.CheckpointID,
		RacerID:      t.RacerID,
		RecordedAt:   t.RecordedAt,
		RecordedBy:   sqlutil.FromNullUUID(t.RecordedBy),
		CreatedAt:    t.CreatedAt,
	}
}

func (p Penalty) ToModel() models.Penalty {
	return models.Penalty{
		ID:        p.ID,
		RacerID:   p.RacerID,
		Seconds:   int(p.Seconds),
		Reason:    p.Reason,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
	}
}

func (d DnfRecord) ToModel() models.DnfRecord {
	return models.DnfRecord{
		ID:           d.ID,
		RacerID:      d.RacerID,
		CheckpointID: sqlutil.FromNullUUID(d.CheckpointID),
		Reason:       d.Reason,
		CreatedBy:    d.CreatedBy,
		CreatedAt:    d.CreatedAt,
	}
}

func (a AuditLog) ToModel() models.AuditLogEntry {
	return models.AuditLogEntry{
		ID:         a.ID,
		EventID:    a.EventID,
		AdminID:    a.AdminID,
		Action:     models.AuditAction(a.Action),
		TargetType: models.AuditTargetType(a.TargetType),
		TargetID:   a.TargetID,
		OldValue:   sqlutil.FromNullRawMessage(a.OldValue),
		NewValue:   sqlutil.FromNullRawMessage(a.NewValue),
		Reason:     sqlutil.FromSqlString(a.Reason, ""),
		CreatedAt:  a.CreatedAt,
	}
}
