package migration

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tabelkeeper/internal/app/server/config"
)

// MockMigrator — мок для интерфейса Migrator
type MockMigrator struct {
	mock.Mock
}

func (m *MockMigrator) Up() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockMigrator) Close() (error, error) {
	args := m.Called()
	return args.Error(0), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		DB: config.DBConfig{DatabaseURI: "", Migrations: ""},
	}
}

func TestMigration_Up_Success(t *testing.T) {
	mockM := new(MockMigrator)

	// Настраиваем поведение
	mockM.On("Up").Return(nil)
	mockM.On("Close").Return(nil, nil)

	// Инжектим мок через фабрику
	engine := func(source, db string) (Migrator, error) {
		return mockM, nil
	}

	mg := NewMigration(testConfig(), engine)
	err := mg.Up()

	assert.NoError(t, err)
	mockM.AssertExpectations(t)
}

func TestMigration_Up_NoChange(t *testing.T) {
	mockM := new(MockMigrator)

	// ErrNoChange не должна считаться ошибкой в методе Up()
	mockM.On("Up").Return(migrate.ErrNoChange)
	mockM.On("Close").Return(nil, nil)

	engine := func(source, db string) (Migrator, error) {
		return mockM, nil
	}

	mg := NewMigration(testConfig(), engine)
	err := mg.Up()

	assert.NoError(t, err)
}

func TestMigration_Up_EngineError(t *testing.T) {
	engineErr := errors.New("bad source")
	engine := func(source, db string) (Migrator, error) {
		return nil, engineErr
	}

	mg := NewMigration(testConfig(), engine)
	err := mg.Up()

	assert.ErrorIs(t, err, engineErr)
}

func TestMigration_Up_CloseError(t *testing.T) {
	mockM := new(MockMigrator)

	// Ошибки закрытия не должны теряться при успешном Up
	srcErr := errors.New("source close failed")
	dbErr := errors.New("database close failed")
	mockM.On("Up").Return(nil)
	mockM.On("Close").Return(srcErr, dbErr)

	engine := func(source, db string) (Migrator, error) {
		return mockM, nil
	}

	mg := NewMigration(testConfig(), engine)
	err := mg.Up()

	assert.ErrorIs(t, err, srcErr)
	assert.ErrorContains(t, err, "migration database error")
}

func TestMigration_Up_UpError(t *testing.T) {
	mockM := new(MockMigrator)

	upErr := errors.New("dirty database")
	mockM.On("Up").Return(upErr)
	mockM.On("Close").Return(nil, nil)

	engine := func(source, db string) (Migrator, error) {
		return mockM, nil
	}

	mg := NewMigration(testConfig(), engine)
	err := mg.Up()

	assert.ErrorIs(t, err, upErr)
}
