package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursecatalog/api/internal/config"
)

func TestNewPoolConfig(t *testing.T) {
	t.Parallel()

	pc, err := newPoolConfig(config.PostgresConfig{
		DSN:              "postgres://u:p@db:5432/catalog?sslmode=disable",
		MaxOpen:          8,
		MaxIdle:          2,
		ConnMaxLifetime:  time.Minute,
		StatementTimeout: 1500 * time.Millisecond,
	}, "coursecatalog-api")
	require.NoError(t, err)

	assert.EqualValues(t, 8, pc.MaxConns)
	assert.EqualValues(t, 2, pc.MinConns)
	assert.Equal(t, time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, "coursecatalog-api", pc.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "1500", pc.ConnConfig.RuntimeParams["statement_timeout"])
	assert.Equal(t, "db", pc.ConnConfig.Host)
}

func TestNewPoolConfig_ZeroValuesKeepPgxDefaults(t *testing.T) {
	t.Parallel()

	pc, err := newPoolConfig(config.PostgresConfig{DSN: "postgres://u:p@db/catalog"}, "")
	require.NoError(t, err)

	assert.Positive(t, pc.MaxConns)
	assert.NotContains(t, pc.ConnConfig.RuntimeParams, "statement_timeout")
	assert.NotContains(t, pc.ConnConfig.RuntimeParams, "application_name")
}

func TestNewPoolConfig_BadDSN(t *testing.T) {
	t.Parallel()

	_, err := newPoolConfig(config.PostgresConfig{DSN: "postgres://u:p@db:notaport/x"}, "api")
	assert.Error(t, err)
}
