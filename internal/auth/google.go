package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/starconnect/starconnect-backend/internal/users"
	"github.com/starconnect/starconnect-backend/pkg/config"
	"github.com/starconnect/starconnect-backend/pkg/db/models"
	pkgerrors "github.com/starconnect/starconnect-backend/pkg/errors"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleUser is the slice of Google's userinfo response we consume.
type GoogleUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleProvider wraps the authorization-code flow against Google.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider builds a provider from the configured OAuth credentials.
func NewGoogleProvider(cfg config.GoogleOAuthConfig) (*GoogleProvider, error) {
	if !cfg.Enabled() {
		return nil, errors.New("google oauth is not configured")
	}
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}, nil
}

// AuthURL returns the consent-screen URL for the provided CSRF state.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for the Google user profile.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleUser, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging oauth code: %w", err)
	}

	client := p.config.Client(ctx, token)
	resp, err := client.Get(googleUserinfoURL)
	if err != nil {
		return nil, fmt.Errorf("calling userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var gu GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, fmt.Errorf("decoding userinfo: %w", err)
	}
	if gu.ID == "" || gu.Email == "" {
		return nil, errors.New("userinfo response missing id or email")
	}
	return &gu, nil
}

type googleExchanger interface {
	Exchange(ctx context.Context, code string) (*GoogleUser, error)
}

type googleUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// GoogleLoginService completes the Google sign-in flow: find-or-create the
// account, then issue a session like a password login.
type GoogleLoginService interface {
	LoginWithGoogle(ctx context.Context, req GoogleCallbackRequest) (*SessionResponse, error)
}

type googleLoginService struct {
	provider googleExchanger
	users    googleUserRepository
	sessions *service
}

// GoogleLoginParams bundles the dependencies for the Google login flow.
type GoogleLoginParams struct {
	Provider googleExchanger
	UserRepo googleUserRepository
	Sessions Service
}

// NewGoogleLoginService wires the OAuth provider to the session issuer.
func NewGoogleLoginService(params GoogleLoginParams) (GoogleLoginService, error) {
	if params.Provider == nil {
		return nil, errors.New("google provider is required")
	}
	if params.UserRepo == nil {
		return nil, errors.New("user repository is required")
	}
	base, ok := params.Sessions.(*service)
	if !ok || base == nil {
		return nil, errors.New("session service is required")
	}
	return &googleLoginService{
		provider: params.Provider,
		users:    params.UserRepo,
		sessions: base,
	}, nil
}

func (s *googleLoginService) LoginWithGoogle(ctx context.Context, req GoogleCallbackRequest) (*SessionResponse, error) {
	profile, err := s.provider.Exchange(ctx, req.Code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "google sign-in failed")
	}

	user, err := s.resolveUser(ctx, profile)
	if err != nil {
		return nil, err
	}

	now, err := s.sessions.recordLogin(ctx, user)
	if err != nil {
		return nil, err
	}

	return s.sessions.issueSession(ctx, user, now)
}

// resolveUser matches by google_id first, then links by email, then creates.
func (s *googleLoginService) resolveUser(ctx context.Context, profile *GoogleUser) (*models.User, error) {
	user, err := s.users.FindByGoogleID(ctx, profile.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup google user")
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))
	user, err = s.users.FindByEmail(ctx, email)
	if err == nil {
		if linkErr := s.users.LinkGoogleID(ctx, user.ID, profile.ID); linkErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, linkErr, "link google account")
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user by email")
	}

	username := strings.TrimSpace(profile.Name)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	googleID := profile.ID
	created, err := s.users.Create(ctx, users.CreateUserDTO{
		Username: username,
		Email:    email,
		GoogleID: &googleID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create google user")
	}
	return created, nil
}
