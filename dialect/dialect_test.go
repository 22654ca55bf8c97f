package dialect_test

import (
	"testing"

	"github.com/syssam/evolve/dialect"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		driver string
		want   string
	}{
		{"sqlserver", dialect.SQLServer},
		{"mssql", dialect.SQLServer},
		{"postgres", dialect.Postgres},
		{"pgx", dialect.Postgres},
		{"mysql", dialect.MySQL},
		{"sqlite", dialect.SQLite},
		{"sqlite3", dialect.SQLite},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			t.Parallel()
			got, err := dialect.Of(tt.driver)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := dialect.Of("oracle")
	assert.ErrorContains(t, err, `unknown driver "oracle"`)
}
