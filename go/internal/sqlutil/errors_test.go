package sqlutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	pqDup := &pq.Error{Code: "23505", Constraint: "timestamps_racer_checkpoint_key"}
	pgDup := &pgconn.PgError{Code: "23505", ConstraintName: "dnf_records_racer_key"}

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"nil", nil, "", false},
		{"plain error", errors.New("boom"), "", false},
		{"pq any constraint", pqDup, "", true},
		{"pq wrapped", fmt.Errorf("insert: %w", pqDup), "timestamps_racer_checkpoint_key", true},
		{"pq other constraint", pqDup, "dnf_records_racer_key", false},
		{"pq foreign key", &pq.Error{Code: "23503"}, "", false},
		{"pgx match", pgDup, "dnf_records_racer_key", true},
		{"pgx other constraint", pgDup, "timestamps_racer_checkpoint_key", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err, tt.constraint))
		})
	}
}
