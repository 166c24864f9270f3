// internal/store/store_test.go
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cablescan-service/internal/config"
	"cablescan-service/internal/database"
	"cablescan-service/internal/model"
)

var edited = model.PersistedConfig{
	Frequency:     346,
	SymbolRate:    6900,
	NetworkID:     4100,
	Modulation:    model.ModulationQAM256,
	KeepNumbering: true,
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	cfg, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPersistedConfig(), cfg)

	require.NoError(t, s.Save(ctx, edited))
	cfg, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, edited, cfg)

	invalid := edited
	invalid.Frequency = 0
	assert.Error(t, s.Save(ctx, invalid))
}

func TestYAMLStore_MissingFileYieldsDefaults(t *testing.T) {
	s := NewYAMLStore(filepath.Join(t.TempDir(), "cablescan.yaml"), zap.NewNop())

	cfg, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPersistedConfig(), cfg)
}

func TestYAMLStore_SaveAndReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "cablescan.yaml")

	require.NoError(t, NewYAMLStore(path, zap.NewNop()).Save(ctx, edited))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "frequency: 346")
	assert.Contains(t, string(raw), "modulation: QAM256")

	cfg, err := NewYAMLStore(path, zap.NewNop()).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, edited, cfg)
}

func TestYAMLStore_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cablescan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cablescan:\n  frequency: 450\n  modulation: 5\n"), 0644))

	cfg, err := NewYAMLStore(path, zap.NewNop()).Load(context.Background())
	require.NoError(t, err)

	want := model.DefaultPersistedConfig()
	want.Frequency = 450
	want.Modulation = model.ModulationQAM256
	assert.Equal(t, want, cfg)
}

func TestYAMLStore_RejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cablescan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cablescan:\n  frequency: 5000\n"), 0644))

	_, err := NewYAMLStore(path, zap.NewNop()).Load(context.Background())
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("cablescan: [not, a, map"), 0644))
	_, err = NewYAMLStore(path, zap.NewNop()).Load(context.Background())
	assert.Error(t, err)
}

func newMockDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return database.Wrap(sqlDB, zap.NewNop()), mock
}

func TestPostgresStore_Load(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresStore(db, zap.NewNop())
	query := regexp.QuoteMeta("FROM cablescan_config")

	rows := sqlmock.NewRows([]string{"frequency", "symbol_rate", "network_id", "modulation", "keep_numbering"}).
		AddRow(346, 6900, 4100, 5, true)
	mock.ExpectQuery(query).WillReturnRows(rows)

	cfg, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, edited, cfg)

	mock.ExpectQuery(query).WillReturnError(sql.ErrNoRows)
	cfg, err = s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPersistedConfig(), cfg)

	mock.ExpectQuery(query).WillReturnError(sql.ErrConnDone)
	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, sql.ErrConnDone)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Save(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresStore(db, zap.NewNop())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cablescan_config")).
		WithArgs(346, 6900, 4100, 5, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Save(context.Background(), edited))

	invalid := edited
	invalid.Modulation = 9
	assert.Error(t, s.Save(context.Background(), invalid))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNew_SelectsBackend(t *testing.T) {
	logger := zap.NewNop()

	s, err := New(&config.StoreConfig{Backend: "memory"}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = New(&config.StoreConfig{Backend: "yaml", Path: filepath.Join(t.TempDir(), "c.yaml")}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &YAMLStore{}, s)

	_, err = New(&config.StoreConfig{Backend: "postgres"}, nil, logger)
	assert.Error(t, err)

	db, _ := newMockDB(t)
	s, err = New(&config.StoreConfig{Backend: "postgres"}, db, logger)
	require.NoError(t, err)
	assert.IsType(t, &PostgresStore{}, s)

	_, err = New(&config.StoreConfig{Backend: "etcd"}, nil, logger)
	assert.Error(t, err)
}
