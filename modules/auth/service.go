package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/motorlane/shopcore/modules/staff"
	"github.com/motorlane/shopcore/pkg/jwt"
	"github.com/motorlane/shopcore/pkg/tenant"
)

// Config holds token lifecycle settings.
type Config struct {
	SigningKey string        `env:"JWT_SIGNING_KEY,required"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:"shopcore"`
	Audience   string        `env:"JWT_AUDIENCE" envDefault:"shopcore-api"`
	AccessTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`

	RefreshCookieName   string `env:"REFRESH_COOKIE_NAME" envDefault:"refresh_token"`
	RefreshCookieSecure bool   `env:"REFRESH_COOKIE_SECURE" envDefault:"true"`
}

// TokenPair is the result of login and refresh: a short-lived access token
// and the raw refresh token to be stored by the client's cookie jar.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}

// Service issues access tokens and manages the refresh token rotation
// chain. Staff membership lookups run against the ambient tenant, so a
// login on a tenant host carries staff and tenant claims while a
// tenant-less login yields a bare identity token.
type Service struct {
	cfg     Config
	jwt     *jwt.Service
	users   UserStorage
	refresh RefreshStorage
	staff   staff.Storage
	log     *slog.Logger
}

// NewService wires the token service. The staff storage may be nil when the
// deployment has no staff-linked claims.
func NewService(cfg Config, users UserStorage, refresh RefreshStorage, staffStorage staff.Storage, log *slog.Logger) (*Service, error) {
	jwtSvc, err := jwt.New([]byte(cfg.SigningKey),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
	)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Service{
		cfg:     cfg,
		jwt:     jwtSvc,
		users:   users,
		refresh: refresh,
		staff:   staffStorage,
		log:     log,
	}, nil
}

// Config returns the service configuration.
func (s *Service) Config() Config { return s.cfg }

// Login verifies credentials and issues a fresh token pair. The client IP
// is recorded on the refresh token row.
func (s *Service) Login(ctx context.Context, email, password, ip string) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Burn comparable time so unknown emails don't answer faster
			// than wrong passwords.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(ctx, user, ip)
}

// Refresh exchanges an active refresh token for a new token pair, revoking
// the presented token with a forward pointer to its successor. Under two
// concurrent exchanges of the same token exactly one succeeds; the loser
// gets ErrInvalidToken. Presenting an already-revoked token is treated as
// replay and revokes the remainder of that token's rotation chain.
func (s *Service) Refresh(ctx context.Context, rawToken, ip string) (*TokenPair, error) {
	if rawToken == "" {
		return nil, ErrInvalidToken
	}

	hash := HashToken(rawToken)
	current, err := s.refresh.GetByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	now := time.Now()
	if current.IsRevoked {
		// A revoked token coming back means a stale or stolen copy. Lock
		// out the whole downstream chain so a thief racing the legitimate
		// client wins nothing.
		s.revokeChain(ctx, current, ip)
		return nil, ErrInvalidToken
	}
	if !current.Active(now) {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, current.UserID)
	if err != nil {
		return nil, err
	}

	successorRaw, err := newRawRefreshToken()
	if err != nil {
		return nil, err
	}
	successorHash := HashToken(successorRaw)

	// Revoke-then-insert: the conditional revoke is the rotation's point of
	// serialization. Only the winner persists a successor row, so the chain
	// gains exactly one link per exchange.
	won, err := s.refresh.Revoke(ctx, RevokeParams{
		TokenHash:       hash,
		Reason:          RevocationReasonRotated,
		RevokedByIP:     ip,
		ReplacedByToken: successorHash,
	})
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrInvalidToken
	}

	successor := &RefreshToken{
		Token:       successorHash,
		UserID:      user.ID,
		ExpiresAt:   now.Add(s.cfg.RefreshTTL),
		CreatedByIP: ip,
	}
	if err := s.refresh.Create(ctx, successor); err != nil {
		return nil, err
	}

	s.cleanupExpired(ctx, user.ID)

	access, accessExpiry, err := s.issueAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExpiry,
		RefreshToken:     successorRaw,
		RefreshExpiresAt: successor.ExpiresAt,
	}, nil
}

// Logout revokes the presented refresh token. Unknown or already-revoked
// tokens are not an error: logout is idempotent.
func (s *Service) Logout(ctx context.Context, rawToken, ip string) error {
	if rawToken == "" {
		return nil
	}

	_, err := s.refresh.Revoke(ctx, RevokeParams{
		TokenHash:   HashToken(rawToken),
		Reason:      RevocationReasonLogout,
		RevokedByIP: ip,
	})
	if err != nil && !errors.Is(err, ErrTokenNotFound) {
		return err
	}
	return nil
}

// VerifyAccessToken parses and validates an access token.
func (s *Service) VerifyAccessToken(token string) (AccessClaims, error) {
	var claims AccessClaims
	if err := s.jwt.Parse(token, &claims); err != nil {
		return AccessClaims{}, err
	}
	return claims, nil
}

func (s *Service) issuePair(ctx context.Context, user *User, ip string) (*TokenPair, error) {
	raw, err := newRawRefreshToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	row := &RefreshToken{
		Token:       HashToken(raw),
		UserID:      user.ID,
		ExpiresAt:   now.Add(s.cfg.RefreshTTL),
		CreatedByIP: ip,
	}
	if err := s.refresh.Create(ctx, row); err != nil {
		return nil, err
	}

	s.cleanupExpired(ctx, user.ID)

	access, accessExpiry, err := s.issueAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExpiry,
		RefreshToken:     raw,
		RefreshExpiresAt: row.ExpiresAt,
	}, nil
}

func (s *Service) issueAccessToken(ctx context.Context, user *User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)

	claims := AccessClaims{
		StandardClaims: jwt.StandardClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			Issuer:    s.cfg.Issuer,
			Audience:  s.cfg.Audience,
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  now.Unix(),
		},
		Email: user.Email,
	}

	// Staff and tenant claims only exist when the login/refresh happened
	// within a tenant scope and the user holds a staff row there.
	if s.staff != nil {
		if tn, ok := tenant.FromContext(ctx); ok {
			if member, err := s.staff.GetByUserID(ctx, user.ID); err == nil {
				claims.StaffID = member.ID.String()
				claims.StaffRole = string(member.Role)
				claims.StaffStatus = string(member.Status)
				claims.TenantID = tn.ID.String()
				claims.TenantSlug = tn.Slug
			}
		}
	}

	token, err := s.jwt.Generate(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// revokeChain walks the rotation chain forward from a replayed token,
// revoking every still-active successor.
func (s *Service) revokeChain(ctx context.Context, from *RefreshToken, ip string) {
	const maxChainLength = 1000

	next := from.ReplacedByToken
	for range maxChainLength {
		if next == "" {
			return
		}
		t, err := s.refresh.GetByTokenHash(ctx, next)
		if err != nil {
			if !errors.Is(err, ErrTokenNotFound) {
				s.log.ErrorContext(ctx, "failed to walk refresh token chain", "error", err)
			}
			return
		}
		if !t.IsRevoked {
			if _, err := s.refresh.Revoke(ctx, RevokeParams{
				TokenHash:   t.Token,
				Reason:      RevocationReasonReplay,
				RevokedByIP: ip,
			}); err != nil {
				s.log.ErrorContext(ctx, "failed to revoke replayed token chain", "error", err)
				return
			}
			s.log.WarnContext(ctx, "refresh token replay detected, chain revoked",
				"user_id", from.UserID.String())
			return
		}
		next = t.ReplacedByToken
	}
}

// cleanupExpired prunes the user's expired refresh rows. Best-effort: a
// failure is logged and never surfaces to the caller.
func (s *Service) cleanupExpired(ctx context.Context, userID uuid.UUID) {
	if err := s.refresh.DeleteExpired(ctx, userID, time.Now()); err != nil {
		s.log.WarnContext(ctx, "failed to clean up expired refresh tokens",
			"user_id", userID.String(), "error", err)
	}
}

// dummyHash is a bcrypt hash of an unguessable value, used to equalize
// login timing for unknown emails.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
