package service

import (
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testLogger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	testNow    = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	testPolicy = Policy{
		LoanPeriod:         14 * 24 * time.Hour,
		MaxOpenLoans:       3,
		DailyPenaltyRate:   decimal.RequireFromString("5.00"),
		SevereOverdueAfter: 60 * 24 * time.Hour,
	}
)

func newMockDBAndTx(t *testing.T) (*sqlx.DB, *sqlx.Tx, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, smock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")

	smock.ExpectBegin()

	tx, err := sqlxDB.Beginx()
	require.NoError(t, err)

	return sqlxDB, tx, smock
}

type repoMocks struct {
	transactor   *TransactorMock
	catalog      *CatalogRepositoryMock
	members      *MemberRepositoryMock
	loans        *LoanRepositoryMock
	reservations *ReservationRepositoryMock
	returns      *ReturnRequestRepositoryMock
	payments     *PaymentRepositoryMock
	reports      *ReportRepositoryMock
	notifier     *NotifierMock
}

func newRepoMocks() *repoMocks {
	return &repoMocks{
		transactor:   new(TransactorMock),
		catalog:      new(CatalogRepositoryMock),
		members:      new(MemberRepositoryMock),
		loans:        new(LoanRepositoryMock),
		reservations: new(ReservationRepositoryMock),
		returns:      new(ReturnRequestRepositoryMock),
		payments:     new(PaymentRepositoryMock),
		reports:      new(ReportRepositoryMock),
		notifier:     new(NotifierMock),
	}
}

func (m *repoMocks) repositories() Repositories {
	return Repositories{
		Catalog:        m.catalog,
		Members:        m.members,
		Loans:          m.loans,
		Reservations:   m.reservations,
		ReturnRequests: m.returns,
		Payments:       m.payments,
		Reports:        m.reports,
	}
}

func (m *repoMocks) assertExpectations(t *testing.T) {
	t.Helper()

	m.transactor.AssertExpectations(t)
	m.catalog.AssertExpectations(t)
	m.members.AssertExpectations(t)
	m.loans.AssertExpectations(t)
	m.reservations.AssertExpectations(t)
	m.returns.AssertExpectations(t)
	m.payments.AssertExpectations(t)
	m.reports.AssertExpectations(t)
	m.notifier.AssertExpectations(t)
}

// beginTx makes the transactor hand out a sqlmock-backed transaction that
// expects either a commit or a rollback.
func (m *repoMocks) beginTx(t *testing.T, commit bool) *sqlx.Tx {
	t.Helper()

	_, tx, smock := newMockDBAndTx(t)
	if commit {
		smock.ExpectCommit()
	} else {
		smock.ExpectRollback()
	}

	m.transactor.On("BeginTxx", mock.Anything, (*sql.TxOptions)(nil)).Return(tx, nil).Once()

	return tx
}
