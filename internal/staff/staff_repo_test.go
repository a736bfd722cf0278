package staff_test

import (
	"context"
	"testing"

	"github.com/Jordan1022/laundryco-scheduler/internal/staff"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupStaffRepoTest(t *testing.T) (staff.Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)

	return staff.NewRepository(gormDB), sqlMock
}

func TestStaffRepository_CountActiveAdminsForUpdate(t *testing.T) {
	t.Run("locks admin rows in id order", func(t *testing.T) {
		repo, mock := setupStaffRepoTest(t)

		mock.ExpectQuery(`SELECT "id" FROM "users" WHERE role = \$1 AND is_active = \$2 ORDER BY id FOR UPDATE`).
			WithArgs(staff.RoleAdmin, true).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).
				AddRow(uuid.New().String()).
				AddRow(uuid.New().String()))

		count, err := repo.CountActiveAdminsForUpdate(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
