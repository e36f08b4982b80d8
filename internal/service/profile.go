package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	guestEmail = "guest@grocio.com"
	guestName  = "Guest User"
)

// TokenIssuer signs session tokens. identity.Issuer satisfies it.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// ProfileConfig holds the demo account that SignIn accepts
type ProfileConfig struct {
	DemoEmail    string
	DemoPassword string
	DemoName     string
	DemoPhone    string
}

// Session is the result of signing in
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
	Guest bool         `json:"guest"`
}

// ProfileUpdate carries editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phone_number"`
}

// ProfileService manages user profiles and sign-in
type ProfileService struct {
	store  *store.Store
	writer *store.Writer
	issuer TokenIssuer
	clock  Clock
	cfg    ProfileConfig
	logger *zap.Logger

	mu    sync.Mutex
	users map[string]*models.User
}

// NewProfileService creates a new profile service
func NewProfileService(st *store.Store, writer *store.Writer, issuer TokenIssuer, clock Clock, cfg ProfileConfig) *ProfileService {
	return &ProfileService{
		store:  st,
		writer: writer,
		issuer: issuer,
		clock:  clock,
		cfg:    cfg,
		logger: util.Named("profile"),
		users:  make(map[string]*models.User),
	}
}

// SignIn checks the credentials against the demo account and opens a session.
// The profile is created on first sign-in.
func (s *ProfileService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != strings.ToLower(s.cfg.DemoEmail) || password != s.cfg.DemoPassword {
		return nil, ErrInvalidCredentials
	}

	userID := userIDForEmail(email)
	user, err := s.Get(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		user = &models.User{
			ID:          userID,
			Email:       email,
			Name:        s.cfg.DemoName,
			PhoneNumber: s.cfg.DemoPhone,
			Addresses:   []models.Address{},
			CreatedAt:   s.clock.Now(),
		}
		s.put(cloneUser(user))
		s.logger.Info("Created profile on first sign-in", zap.String("user_id", userID))
	} else if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(userID)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token}, nil
}

// GuestLogin opens a session for the shared guest identity
func (s *ProfileService) GuestLogin(ctx context.Context) (*Session, error) {
	user, err := s.Get(ctx, models.GuestUserID)
	if err != nil {
		return nil, err
	}
	token, err := s.issuer.Issue(models.GuestUserID)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, Guest: true}, nil
}

// Get returns a copy of a profile. The guest profile always exists.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.User, error) {
	userID = normalizeUser(userID)

	s.mu.Lock()
	u, ok := s.users[userID]
	s.mu.Unlock()
	if ok {
		return cloneUser(u), nil
	}

	stored, found, err := s.store.LoadUser(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load profile", zap.String("user_id", userID), zap.Error(err))
		if userID != models.GuestUserID {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
	}

	if !found {
		if userID != models.GuestUserID {
			return nil, ErrUserNotFound
		}
		stored = &models.User{
			ID:        models.GuestUserID,
			Email:     guestEmail,
			Name:      guestName,
			Addresses: []models.Address{},
			CreatedAt: s.clock.Now(),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		return cloneUser(u), nil
	}
	s.users[userID] = stored
	return cloneUser(stored), nil
}

// Update changes the editable profile fields
func (s *ProfileService) Update(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	return s.modify(ctx, userID, func(u *models.User) error {
		if upd.Name != nil {
			u.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.PhoneNumber != nil {
			u.PhoneNumber = strings.TrimSpace(*upd.PhoneNumber)
		}
		return nil
	})
}

// AddAddress saves a new address. The first address, or one flagged default, becomes the default.
func (s *ProfileService) AddAddress(ctx context.Context, userID string, addr models.Address) (*models.User, error) {
	if !addressComplete(addr) {
		return nil, ErrInvalidAddress
	}
	if addr.ID == "" {
		addr.ID = uuid.New().String()
	}

	return s.modify(ctx, userID, func(u *models.User) error {
		if len(u.Addresses) == 0 {
			addr.IsDefault = true
		}
		if addr.IsDefault {
			for i := range u.Addresses {
				u.Addresses[i].IsDefault = false
			}
		}
		u.Addresses = append(u.Addresses, addr)
		return nil
	})
}

// DefaultAddress returns the user's default delivery address
func (s *ProfileService) DefaultAddress(ctx context.Context, userID string) (models.Address, bool) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return models.Address{}, false
	}
	return u.DefaultAddress()
}

func (s *ProfileService) modify(ctx context.Context, userID string, fn func(*models.User) error) (*models.User, error) {
	userID = normalizeUser(userID)
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := cloneUser(s.users[userID])
	if err := fn(u); err != nil {
		return nil, err
	}
	s.putLocked(u)
	return cloneUser(u), nil
}

func (s *ProfileService) put(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(u)
}

func (s *ProfileService) putLocked(u *models.User) {
	s.users[u.ID] = u
	snapshot := cloneUser(u)
	s.writer.Enqueue("save_user", func(ctx context.Context) error {
		return s.store.SaveUser(ctx, snapshot)
	})
}

// userIDForEmail derives a stable user id so the same account maps to the same profile across restarts
func userIDForEmail(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String()
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Addresses = append([]models.Address{}, u.Addresses...)
	return &c
}

func addressComplete(a models.Address) bool {
	return strings.TrimSpace(a.Street) != "" &&
		strings.TrimSpace(a.City) != "" &&
		strings.TrimSpace(a.ZipCode) != ""
}
