package adminController

import (
	"context"
	"testing"
	"time"

	"elvalg/config"
	"elvalg/internal/controllers"
	"elvalg/internal/database"
	. "elvalg/internal/models"
	"elvalg/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var now = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*AdminController, repositories.Repositories) {
	t.Helper()

	db, err := database.New(config.Config{DatabaseDriver: config.DriverSQLite, DatabaseDbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := repositories.New(db)
	hash, err := bcrypt.GenerateFromPassword([]byte("hemmelig123"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = repos.Admins.Upsert(context.Background(), "admin", string(hash))
	require.NoError(t, err)

	controller := New(repos, NewSessionStore(nil), time.Hour, time.UTC)
	controller.now = func() time.Time { return now }

	return controller, repos
}

func TestLogin(t *testing.T) {
	controller, _ := setup(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		request LoginRequest
		wantErr bool
	}{
		{"valid", LoginRequest{Login: " admin ", Password: "hemmelig123"}, false},
		{"wrong password", LoginRequest{Login: "admin", Password: "feil"}, true},
		{"unknown login", LoginRequest{Login: "ola", Password: "hemmelig123"}, true},
		{"empty", LoginRequest{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := controller.Login(ctx, tt.request)
			if tt.wantErr {
				assert.ErrorIs(t, err, controllers.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, session.Token)
			assert.Equal(t, "admin", session.Login)
			assert.Equal(t, now.Add(time.Hour), session.ExpiresAt)
		})
	}
}

func TestAuthenticateAndLogout(t *testing.T) {
	controller, _ := setup(t)
	ctx := context.Background()

	_, err := controller.Authenticate(ctx, "")
	assert.ErrorIs(t, err, controllers.ErrUnauthorized)

	_, err = controller.Authenticate(ctx, "unknown-token")
	assert.ErrorIs(t, err, controllers.ErrUnauthorized)

	session, err := controller.Login(ctx, LoginRequest{Login: "admin", Password: "hemmelig123"})
	require.NoError(t, err)

	got, err := controller.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Login)

	require.NoError(t, controller.Logout(ctx, session.Token))
	_, err = controller.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, controllers.ErrUnauthorized)
}

func TestAuthenticate_Expired(t *testing.T) {
	controller, _ := setup(t)
	ctx := context.Background()

	session, err := controller.Login(ctx, LoginRequest{Login: "admin", Password: "hemmelig123"})
	require.NoError(t, err)

	controller.now = func() time.Time { return now.Add(59 * time.Minute) }
	_, err = controller.Authenticate(ctx, session.Token)
	require.NoError(t, err)

	controller.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = controller.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, controllers.ErrUnauthorized)

	controller.now = func() time.Time { return now }
	_, err = controller.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, controllers.ErrUnauthorized)
}

func TestDashboard(t *testing.T) {
	controller, repos := setup(t)
	ctx := context.Background()

	for _, lead := range []*Lead{
		{Name: "Kari", Email: "kari@example.no", PostalCode: "0150", PriceZone: "NO1"},
		{Name: "Ola", Email: "ola@example.no", PostalCode: "0151", PriceZone: "NO1"},
		{Name: "Per", Email: "per@example.no", PostalCode: "5003", PriceZone: "NO5"},
	} {
		require.NoError(t, repos.Leads.Create(ctx, lead))
	}

	past := DateOf(now.AddDate(0, -1, 0))
	future := DateOf(now.AddDate(0, 3, 0))
	for _, contract := range []*Contract{
		{CustomerName: "Kari", Email: "kari@example.no", Supplier: "Tibber", StartDate: DateOf(now), Duration: "12", ReminderDate: &past, ReminderStatus: ReminderStatusPending},
		{CustomerName: "Ola", Email: "ola@example.no", Supplier: "Tibber", StartDate: DateOf(now), Duration: "12", ReminderDate: &future, ReminderStatus: ReminderStatusPending},
		{CustomerName: "Per", Email: "per@example.no", Supplier: "Fjordkraft", StartDate: DateOf(now), Duration: "variable", ReminderStatus: ReminderStatusNotApplicable},
	} {
		require.NoError(t, repos.Contracts.Create(ctx, contract))
	}

	require.NoError(t, repos.Subscribers.Create(ctx, &NewsletterSubscriber{Email: "kari@example.no"}))

	dashboard, err := controller.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, []ZoneCount{{PriceZone: "NO1", Count: 2}, {PriceZone: "NO5", Count: 1}}, dashboard.LeadsByZone)
	assert.Equal(t, []DurationCount{{Duration: "12", Count: 2}, {Duration: "variable", Count: 1}}, dashboard.ContractsByDuration)
	assert.Equal(t, int64(2), dashboard.PendingReminders)
	assert.Equal(t, int64(1), dashboard.DueReminders)
	assert.Equal(t, int64(1), dashboard.Subscribers)
}
