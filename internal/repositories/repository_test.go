package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"elvalg/config"
	"elvalg/internal/database"
	. "elvalg/internal/models"
	"elvalg/internal/services"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) database.DB {
	t.Helper()

	db, err := database.New(config.Config{DatabaseDriver: config.DriverSQLite, DatabaseDbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func datePtr(year int, month time.Month, day int) *Date {
	d := NewDate(civil.Date{Year: year, Month: month, Day: day})
	return &d
}

func TestLeadRepository(t *testing.T) {
	repo := NewLead(newTestDB(t))
	ctx := context.Background()

	leads := []*Lead{
		{Name: "Kari", Email: "kari@example.no", PostalCode: "0150", PriceZone: "NO1"},
		{Name: "Ola", Email: "ola@example.no", PostalCode: "5003", PriceZone: "NO5"},
		{Name: "Per", Email: "per@example.no", PostalCode: "0151", PriceZone: "NO1"},
	}
	for _, lead := range leads {
		require.NoError(t, repo.Create(ctx, lead))
		assert.NotEmpty(t, lead.ID)
		time.Sleep(time.Millisecond)
	}

	got, err := repo.GetByID(ctx, leads[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Ola", got.Name)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	listed, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Per", listed[0].Name)

	all, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	counts, err := repo.CountByZone(ctx)
	require.NoError(t, err)
	want := []ZoneCount{{PriceZone: "NO1", Count: 2}, {PriceZone: "NO5", Count: 1}}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("CountByZone mismatch (-want +got):\n%s", diff)
	}
}

func TestContractRepository_Reminders(t *testing.T) {
	repo := NewContract(newTestDB(t))
	ctx := context.Background()

	contract := func(email string, reminder *Date, status string) *Contract {
		return &Contract{
			CustomerName:   "Kunde",
			Email:          email,
			Supplier:       "Tibber",
			StartDate:      NewDate(civil.Date{Year: 2024, Month: time.January, Day: 1}),
			Duration:       "12",
			ReminderDate:   reminder,
			ReminderStatus: status,
		}
	}

	early := contract("early@example.no", datePtr(2024, time.May, 1), ReminderStatusPending)
	onDay := contract("onday@example.no", datePtr(2024, time.June, 1), ReminderStatusPending)
	later := contract("later@example.no", datePtr(2024, time.June, 2), ReminderStatusPending)
	sent := contract("sent@example.no", datePtr(2024, time.April, 1), ReminderStatusSent)
	variable := contract("variable@example.no", nil, ReminderStatusNotApplicable)
	variable.Duration = "variable"

	for _, c := range []*Contract{early, onDay, later, sent, variable} {
		require.NoError(t, repo.Create(ctx, c))
	}

	stored, err := repo.GetByID(ctx, early.ID)
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.January, Day: 1}, stored.StartDate.Date)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.May, Day: 1}, stored.ReminderDate.Date)

	due, err := repo.DueReminders(ctx, *datePtr(2024, time.June, 1))
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, early.ID, due[0].ID)
	assert.Equal(t, onDay.ID, due[1].ID)

	pending, err := repo.CountPendingReminders(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pending)

	dueCount, err := repo.CountPendingReminders(ctx, datePtr(2024, time.June, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), dueCount)

	sentAt := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MarkReminderSent(ctx, early.ID, sentAt))
	require.NoError(t, repo.MarkReminderFailed(ctx, onDay.ID, "mailbox full"))

	due, err = repo.DueReminders(ctx, *datePtr(2024, time.June, 30))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, later.ID, due[0].ID)

	failed, err := repo.GetByID(ctx, onDay.ID)
	require.NoError(t, err)
	assert.Equal(t, ReminderStatusFailed, failed.ReminderStatus)
	require.NotNil(t, failed.ReminderError)
	assert.Equal(t, "mailbox full", *failed.ReminderError)

	sentEarly, err := repo.GetByID(ctx, early.ID)
	require.NoError(t, err)
	assert.Equal(t, ReminderStatusSent, sentEarly.ReminderStatus)
	require.NotNil(t, sentEarly.ReminderSentAt)
	assert.True(t, sentAt.Equal(*sentEarly.ReminderSentAt))

	err = repo.MarkReminderSent(ctx, "missing", sentAt)
	assert.ErrorIs(t, err, ErrNotFound)
	err = repo.MarkReminderFailed(ctx, "missing", "mailbox full")
	assert.ErrorIs(t, err, ErrNotFound)

	counts, err := repo.CountByDuration(ctx)
	require.NoError(t, err)
	assert.Equal(t, []DurationCount{{Duration: "12", Count: 4}, {Duration: "variable", Count: 1}}, counts)
}

func TestContractRepository_ClaimReminder(t *testing.T) {
	repo := NewContract(newTestDB(t))
	ctx := context.Background()

	contract := &Contract{
		CustomerName:   "Kari",
		Email:          "kari@example.no",
		Supplier:       "Tibber",
		StartDate:      NewDate(civil.Date{Year: 2023, Month: time.July, Day: 1}),
		Duration:       "12",
		ReminderDate:   datePtr(2023, time.August, 1),
		ReminderStatus: ReminderStatusPending,
	}
	require.NoError(t, repo.Create(ctx, contract))
	sentAt := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)

	claimed, err := repo.ClaimReminder(ctx, contract.ID, sentAt)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.ClaimReminder(ctx, contract.ID, sentAt)
	require.NoError(t, err)
	assert.False(t, claimed)

	require.NoError(t, repo.ReleaseReminder(ctx, contract.ID))
	stored, err := repo.GetByID(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, ReminderStatusPending, stored.ReminderStatus)
	assert.Nil(t, stored.ReminderSentAt)

	claimed, err = repo.ClaimReminder(ctx, contract.ID, sentAt)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.ClaimReminder(ctx, "missing", sentAt)
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.ErrorIs(t, repo.ReleaseReminder(ctx, "missing"), ErrNotFound)
}

func TestRepositories_UseTransactionFromContext(t *testing.T) {
	db := newTestDB(t)
	repos := New(db)
	transactions := services.NewTransactionService(db)
	ctx := context.Background()

	errRollback := errors.New("rollback")
	err := transactions.Execute(ctx, func(txCtx context.Context) error {
		require.NoError(t, repos.Leads.Create(txCtx, &Lead{Name: "Kari", Email: "kari@example.no", PostalCode: "0150", PriceZone: "NO1"}))
		require.NoError(t, repos.Subscribers.Create(txCtx, &NewsletterSubscriber{Email: "kari@example.no"}))
		return errRollback
	})
	assert.ErrorIs(t, err, errRollback)

	leads, err := repos.Leads.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, leads)

	count, err := repos.Subscribers.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSubscriberAndAdminRepositories(t *testing.T) {
	repos := New(newTestDB(t))
	ctx := context.Background()

	_, err := repos.Subscribers.GetByEmail(ctx, "kari@example.no")
	assert.ErrorIs(t, err, ErrNotFound)

	subscriber := &NewsletterSubscriber{Email: "kari@example.no", Source: "footer"}
	require.NoError(t, repos.Subscribers.Create(ctx, subscriber))
	assert.Error(t, repos.Subscribers.Create(ctx, &NewsletterSubscriber{Email: "kari@example.no"}))

	require.NoError(t, repos.Subscribers.MarkSynced(ctx, subscriber.ID))
	assert.ErrorIs(t, repos.Subscribers.MarkSynced(ctx, "missing"), ErrNotFound)
	stored, err := repos.Subscribers.GetByEmail(ctx, "kari@example.no")
	require.NoError(t, err)
	assert.True(t, stored.ProviderSync)

	admin, err := repos.Admins.Upsert(ctx, "admin", "hash-1")
	require.NoError(t, err)
	updated, err := repos.Admins.Upsert(ctx, "admin", "hash-2")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, updated.ID)

	got, err := repos.Admins.GetByLogin(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "hash-2", got.PasswordHash)
}
