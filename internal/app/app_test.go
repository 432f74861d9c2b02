package app

import (
	"testing"

	"go-portal-rh/internal/config"
	"go-portal-rh/internal/shared/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	tests := []struct {
		driver        string
		wantDirectory bool
	}{
		{driver: "sqlite", wantDirectory: true},
		{driver: "postgres", wantDirectory: false},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			db := testdb.Open(t)
			cfg := &config.Config{DB: config.DatabaseConfig{Driver: tt.driver}}

			require.NoError(t, migrate(db, cfg))

			for _, table := range []string{"leave_balances", "leave_requests", "holidays", "outbox_events", "rbac_role_permissions", "rbac_role_parents"} {
				assert.True(t, db.Migrator().HasTable(table), table)
			}
			assert.Equal(t, tt.wantDirectory, db.Migrator().HasTable("employees"))
		})
	}
}
