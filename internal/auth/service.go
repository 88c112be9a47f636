package auth

import (
	"context"
	"strings"
	"time"

	"github.com/niyam-ai/compliance-os-backend/internal/records"
	pkgauth "github.com/niyam-ai/compliance-os-backend/pkg/auth"
	"github.com/niyam-ai/compliance-os-backend/pkg/config"
	pkgerrors "github.com/niyam-ai/compliance-os-backend/pkg/errors"
	"github.com/niyam-ai/compliance-os-backend/pkg/logger"
)

// Service implements registration, login, profile, and token refresh on top
// of whichever Backend it was constructed with.
type Service struct {
	backend Backend
	jwtCfg  config.JWTConfig
	logg    *logger.Logger
	now     func() time.Time
}

type ServiceParams struct {
	Backend Backend
	JWT     config.JWTConfig
	Logger  *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth backend required")
	}
	return &Service{
		backend: params.Backend,
		jwtCfg:  params.JWT,
		logg:    params.Logger,
		now:     time.Now,
	}, nil
}

// BackendName reports which storage variant is live, for health reporting.
func (s *Service) BackendName() string {
	return s.backend.Name()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register provisions an identity, its business, and its profile, then
// issues a token pair. The three writes are not transactional: when a later
// step fails, earlier writes are left in place and logged for cleanup.
func (s *Service) Register(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	email := normalizeEmail(req.Email)
	now := s.now().UTC()

	userID, err := s.backend.SignUp(ctx, email, req.Password)
	if err != nil {
		return nil, err
	}

	business, err := s.backend.CreateBusiness(ctx, &records.Business{
		UserID:    userID,
		LegalName: req.BusinessName,
		TradeName: req.BusinessName,
		GSTIN:     req.GSTIN,
		PAN:       req.PAN,
		CreatedAt: now,
	})
	if err != nil {
		s.errorLog(ctx, "registration failed creating business", err, map[string]any{"step": "create_business"})
		return nil, err
	}

	user, err := s.backend.CreateUser(ctx, &records.User{
		ID:         userID,
		Email:      email,
		FullName:   req.FullName,
		Phone:      req.Phone,
		BusinessID: business.ID,
		CreatedAt:  now,
	}, req.Password)
	if err != nil {
		s.errorLog(ctx, "registration failed creating user profile", err, map[string]any{
			"step":                 "create_user",
			"orphaned_business_id": business.ID,
		})
		return nil, err
	}

	pair, err := s.mintPair(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		UserID:       user.ID,
		BusinessID:   business.ID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserName:     user.FullName,
		BusinessName: business.TradeName,
	}, nil
}

// Login verifies credentials and issues a fresh token pair. The last-login
// stamp is best effort; a failed stamp never blocks the login.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	email := normalizeEmail(req.Email)

	userID, err := s.backend.SignIn(ctx, email, req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.backend.FindUserByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if err := s.backend.UpdateLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		s.warnLog(ctx, "failed to stamp last login", map[string]any{"user_id": user.ID})
	}

	businessName := "Business"
	if user.BusinessID != "" {
		if business, err := s.backend.FindBusinessByID(ctx, user.BusinessID); err == nil {
			businessName = business.TradeName
		}
	}

	pair, err := s.mintPair(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		UserID:       user.ID,
		BusinessID:   user.BusinessID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserName:     user.FullName,
		BusinessName: businessName,
	}, nil
}

// Profile returns the stored user with the credential hash stripped, plus
// the linked business when one can be loaded.
func (s *Service) Profile(ctx context.Context, userID string) (*ProfileResult, error) {
	user, err := s.backend.FindUserByID(ctx, userID)
	if err != nil {
		if pkgErr := pkgerrors.As(err); pkgErr != nil && pkgErr.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user profile not found")
		}
		return nil, err
	}

	result := &ProfileResult{User: user.Redacted()}
	if user.BusinessID != "" {
		if business, err := s.backend.FindBusinessByID(ctx, user.BusinessID); err == nil {
			result.Business = business
		}
	}
	return result, nil
}

// Refresh exchanges a valid refresh token for a brand new pair. Access
// tokens are rejected here just as refresh tokens are rejected on protected
// routes.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := pkgauth.ParseToken(s.jwtCfg, refreshToken, pkgauth.PurposeRefresh)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
	}
	return s.mintPair(claims.Subject)
}

func (s *Service) mintPair(subjectID string) (*TokenPair, error) {
	now := s.now()
	access, err := pkgauth.MintAccessToken(s.jwtCfg, now, subjectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	refresh, err := pkgauth.MintRefreshToken(s.jwtCfg, now, subjectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint refresh token")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) errorLog(ctx context.Context, msg string, err error, fields map[string]any) {
	if s.logg == nil {
		return
	}
	s.logg.Error(s.logg.WithFields(ctx, fields), msg, err)
}

func (s *Service) warnLog(ctx context.Context, msg string, fields map[string]any) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithFields(ctx, fields), msg)
}
