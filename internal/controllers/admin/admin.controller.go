package adminController

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"elvalg/internal/controllers"
	"elvalg/internal/logger"
	. "elvalg/internal/models"
	"elvalg/internal/repositories"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AdminController struct {
	adminRepo      repositories.AdminRepository
	leadRepo       repositories.LeadRepository
	contractRepo   repositories.ContractRepository
	subscriberRepo repositories.SubscriberRepository
	sessions       SessionStore
	sessionTTL     time.Duration
	location       *time.Location
	now            func() time.Time
	log            logger.Logger
}

func New(
	repos repositories.Repositories,
	sessions SessionStore,
	sessionTTL time.Duration,
	location *time.Location,
) *AdminController {
	if location == nil {
		location = time.UTC
	}
	return &AdminController{
		adminRepo:      repos.Admins,
		leadRepo:       repos.Leads,
		contractRepo:   repos.Contracts,
		subscriberRepo: repos.Subscribers,
		sessions:       sessions,
		sessionTTL:     sessionTTL,
		location:       location,
		now:            time.Now,
		log:            logger.New("AdminController"),
	}
}

// Compared against when the login is unknown so both failure paths cost a
// bcrypt comparison.
var placeholderHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("elvalg-placeholder"), bcrypt.DefaultCost)
	return hash
})

func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", controllers.Invalid("password", "must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (ac *AdminController) Login(ctx context.Context, request LoginRequest) (*Session, error) {
	log := ac.log.Function("Login")

	login := strings.TrimSpace(request.Login)
	if login == "" || request.Password == "" {
		return nil, controllers.ErrUnauthorized
	}

	admin, err := ac.adminRepo.GetByLogin(ctx, login)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, log.Err("failed to get admin user", err, "login", login)
	}

	hash := placeholderHash()
	if admin != nil {
		hash = []byte(admin.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(request.Password)); err != nil || admin == nil {
		log.Warn("Rejected admin login", "login", login)
		return nil, controllers.ErrUnauthorized
	}

	token, err := uuid.NewRandom()
	if err != nil {
		return nil, log.Err("failed to generate session token", err)
	}

	session := Session{
		Token:     token.String(),
		Login:     admin.Login,
		ExpiresAt: ac.now().Add(ac.sessionTTL).UTC(),
	}
	if err := ac.sessions.Save(ctx, session, ac.sessionTTL); err != nil {
		return nil, log.Err("failed to store session", err, "login", login)
	}

	log.Info("Admin logged in", "login", admin.Login)
	return &session, nil
}

func (ac *AdminController) Logout(ctx context.Context, token string) error {
	if err := ac.sessions.Delete(ctx, token); err != nil {
		return ac.log.Function("Logout").Err("failed to delete session", err)
	}
	return nil
}

// Authenticate returns the live session for token, or ErrUnauthorized.
func (ac *AdminController) Authenticate(ctx context.Context, token string) (*Session, error) {
	log := ac.log.Function("Authenticate")

	if token == "" {
		return nil, controllers.ErrUnauthorized
	}

	session, found, err := ac.sessions.Get(ctx, token)
	if err != nil {
		return nil, log.Err("failed to read session", err)
	}
	if !found {
		return nil, controllers.ErrUnauthorized
	}
	if !session.ExpiresAt.After(ac.now()) {
		if err := ac.sessions.Delete(ctx, token); err != nil {
			log.Warn("failed to delete expired session", "error", err)
		}
		return nil, controllers.ErrUnauthorized
	}

	return session, nil
}

func (ac *AdminController) Dashboard(ctx context.Context) (*Dashboard, error) {
	log := ac.log.Function("Dashboard")

	leadsByZone, err := ac.leadRepo.CountByZone(ctx)
	if err != nil {
		return nil, log.Err("failed to count leads", err)
	}

	contractsByDuration, err := ac.contractRepo.CountByDuration(ctx)
	if err != nil {
		return nil, log.Err("failed to count contracts", err)
	}

	pending, err := ac.contractRepo.CountPendingReminders(ctx, nil)
	if err != nil {
		return nil, log.Err("failed to count pending reminders", err)
	}

	today := NewDate(civil.DateOf(ac.now().In(ac.location)))
	due, err := ac.contractRepo.CountPendingReminders(ctx, &today)
	if err != nil {
		return nil, log.Err("failed to count due reminders", err)
	}

	subscribers, err := ac.subscriberRepo.Count(ctx)
	if err != nil {
		return nil, log.Err("failed to count subscribers", err)
	}

	return &Dashboard{
		LeadsByZone:         leadsByZone,
		ContractsByDuration: contractsByDuration,
		PendingReminders:    pending,
		DueReminders:        due,
		Subscribers:         subscribers,
	}, nil
}
