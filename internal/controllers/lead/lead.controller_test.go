package leadController

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"elvalg/config"
	"elvalg/internal/controllers"
	"elvalg/internal/database"
	. "elvalg/internal/models"
	"elvalg/internal/repositories"
	"elvalg/internal/services"
	"elvalg/internal/websockets"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriber struct {
	repo repositories.SubscriberRepository
	err  error
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, email, source string) (*NewsletterSubscriber, error) {
	if f.err != nil {
		return nil, f.err
	}
	subscriber := &NewsletterSubscriber{Email: email, Source: source}
	return subscriber, f.repo.Create(ctx, subscriber)
}

type fakeBroadcaster struct {
	types []string
	data  []any
}

func (b *fakeBroadcaster) Broadcast(messageType string, data any) {
	b.types = append(b.types, messageType)
	b.data = append(b.data, data)
}

type fixture struct {
	controller  *LeadController
	repos       repositories.Repositories
	subscriber  *fakeSubscriber
	broadcaster *fakeBroadcaster
}

func setup(t *testing.T) fixture {
	t.Helper()

	db, err := database.New(config.Config{DatabaseDriver: config.DriverSQLite, DatabaseDbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := repositories.New(db)
	subscriber := &fakeSubscriber{repo: repos.Subscribers}
	broadcaster := &fakeBroadcaster{}

	return fixture{
		controller:  New(repos.Leads, subscriber, services.NewTransactionService(db), broadcaster),
		repos:       repos,
		subscriber:  subscriber,
		broadcaster: broadcaster,
	}
}

func strPtr(s string) *string {
	return &s
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name       string
		request    CreateLeadRequest
		wantZone   string
		wantManual bool
	}{
		{
			name:     "resolved from postal code",
			request:  CreateLeadRequest{Name: "Kari", Email: "kari@example.no", PostalCode: "0150"},
			wantZone: "NO1",
		},
		{
			name:     "postal code wins over manual zone",
			request:  CreateLeadRequest{Name: "Kari", Email: "kari@example.no", PostalCode: "5003", PriceZone: "NO1"},
			wantZone: "NO5",
		},
		{
			name:       "manual zone for unknown postal code",
			request:    CreateLeadRequest{Name: "Ola", Email: "ola@example.no", PostalCode: "99999", PriceZone: "no4"},
			wantZone:   "NO4",
			wantManual: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)

			lead, err := f.controller.Create(context.Background(), tt.request)
			require.NoError(t, err)
			assert.Equal(t, tt.wantZone, lead.PriceZone)
			assert.Equal(t, tt.wantManual, lead.ZoneManual)

			stored, err := f.repos.Leads.GetByID(context.Background(), lead.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantZone, stored.PriceZone)

			assert.Equal(t, []string{websockets.EventLeadCreated}, f.broadcaster.types)
		})
	}
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		request CreateLeadRequest
		want    error
	}{
		{"zone required", CreateLeadRequest{Name: "Ola", Email: "ola@example.no", PostalCode: "99999"}, controllers.ErrZoneRequired},
		{"bad manual zone", CreateLeadRequest{Name: "Ola", Email: "ola@example.no", PostalCode: "99999", PriceZone: "SE3"}, controllers.ErrValidation},
		{"missing name", CreateLeadRequest{Email: "ola@example.no", PostalCode: "0150"}, controllers.ErrValidation},
		{"bad postal code", CreateLeadRequest{Name: "Ola", Email: "ola@example.no", PostalCode: "015"}, controllers.ErrValidation},
		{"negative consumption", CreateLeadRequest{Name: "Ola", Email: "ola@example.no", PostalCode: "0150", Consumption: func() *int { v := -1; return &v }()}, controllers.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)

			_, err := f.controller.Create(context.Background(), tt.request)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.broadcaster.types)
		})
	}
}

func TestCreate_NewsletterRollsBackOnFailure(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	lead, err := f.controller.Create(ctx, CreateLeadRequest{Name: "Kari", Email: "kari@example.no", PostalCode: "0150", Newsletter: true})
	require.NoError(t, err)
	_, err = f.repos.Subscribers.GetByEmail(ctx, lead.Email)
	require.NoError(t, err)

	f.subscriber.err = errors.New("subscriber store unavailable")
	_, err = f.controller.Create(ctx, CreateLeadRequest{Name: "Ola", Email: "ola@example.no", PostalCode: "0150", Newsletter: true})
	require.Error(t, err)

	leads, err := f.repos.Leads.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, leads, 1)
}

func TestExportCSV(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.controller.Create(ctx, CreateLeadRequest{
		Name:          "Kari, Nordmann",
		Email:         "kari@example.no",
		Phone:         strPtr(" 912 34 567 "),
		PostalCode:    "0150",
		Source:        "forside",
		CurrentVendor: strPtr("Tibber"),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.controller.ExportCSV(ctx, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeaders, records[0])

	row := records[1]
	want := []string{"Kari, Nordmann", "kari@example.no", "912 34 567", "0150", "NO1", "false", "forside", "false", "", "Tibber"}
	if diff := cmp.Diff(want, row[2:]); diff != "" {
		t.Errorf("csv row mismatch (-want +got):\n%s", diff)
	}
}
