package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrateURL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@db:5432/jobs":   "pgx5://u:p@db:5432/jobs",
		"postgresql://u:p@db:5432/jobs": "pgx5://u:p@db:5432/jobs",
		"pgx5://u:p@db:5432/jobs":       "pgx5://u:p@db:5432/jobs",
	}
	for in, want := range tests {
		assert.Equal(t, want, migrateURL(in), in)
	}
}
