package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGormDB opens a GORM connection backed by sqlmock so tests can
// assert the exact SQL the repositories emit against postgres.
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return gormDB, mock
}

func TestGormRuleRepository_IncrementTriggerStatsSQL(t *testing.T) {
	db, mock := newMockGormDB(t)
	repo := NewGormRuleRepository(db)

	ruleID := uuid.New()
	now := time.Now()

	// The increment must run inside the store; a read-modify-write here
	// would lose updates under concurrent triggers.
	mock.ExpectExec(`UPDATE "automation_rules" SET .*"trigger_count"=trigger_count \+ 1.* WHERE id = \$`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.IncrementTriggerStats(context.Background(), ruleID, now)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBuyerTrustProvider_TrustScoreSQL(t *testing.T) {
	db, mock := newMockGormDB(t)
	provider := NewGormBuyerTrustProvider(db)

	buyerID := uuid.New()
	rows := sqlmock.NewRows([]string{"buyer_id", "score", "updated_at"}).
		AddRow(buyerID, 72.5, time.Now())
	mock.ExpectQuery(`SELECT \* FROM "buyer_trust_scores" WHERE buyer_id = \$1`).
		WithArgs(buyerID, 1).
		WillReturnRows(rows)

	score, found, err := provider.TrustScore(context.Background(), buyerID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 72.5, score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBuyerTrustProvider_TrustScoreUnknownBuyer(t *testing.T) {
	db, mock := newMockGormDB(t)
	provider := NewGormBuyerTrustProvider(db)

	buyerID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "buyer_trust_scores"`).
		WithArgs(buyerID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"buyer_id", "score", "updated_at"}))

	score, found, err := provider.TrustScore(context.Background(), buyerID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, score)
	assert.NoError(t, mock.ExpectationsWereMet())
}
