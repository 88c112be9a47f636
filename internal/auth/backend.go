package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/niyam-ai/compliance-os-backend/internal/records"
	"github.com/niyam-ai/compliance-os-backend/pkg/config"
	pkgerrors "github.com/niyam-ai/compliance-os-backend/pkg/errors"
	"github.com/niyam-ai/compliance-os-backend/pkg/security"
	"github.com/niyam-ai/compliance-os-backend/pkg/supabase"
)

// Backend is the storage-and-credentials capability behind the auth service.
// It has exactly two implementations: the hosted Supabase backend and the
// flat-file fallback store. The service is handed one of them at
// construction and never switches.
type Backend interface {
	// Name identifies the variant for health reporting and logs.
	Name() string

	// SignUp reserves the identity and returns the new user id. The
	// uniqueness check belongs to the backend: the fallback store pre-checks
	// the email, the hosted backend enforces it in its own sign-up.
	SignUp(ctx context.Context, email, password string) (string, error)

	// SignIn validates credentials and returns the user id. Every credential
	// failure is the same unauthorized error.
	SignIn(ctx context.Context, email, password string) (string, error)

	CreateBusiness(ctx context.Context, business *records.Business) (*records.Business, error)

	// CreateUser persists the profile. The plaintext password is only used
	// by the fallback variant, which stores a hash; the hosted backend owns
	// credentials itself and ignores it.
	CreateUser(ctx context.Context, user *records.User, password string) (*records.User, error)

	FindUserByEmail(ctx context.Context, email string) (*records.User, error)
	FindUserByID(ctx context.Context, id string) (*records.User, error)
	FindBusinessByID(ctx context.Context, id string) (*records.Business, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

const invalidCredentialsMessage = "invalid email or password"

type fileBackend struct {
	store       *records.FileStore
	passwordCfg config.PasswordConfig
}

// NewFileBackend wraps the flat-file record store as an auth backend.
func NewFileBackend(store *records.FileStore, passwordCfg config.PasswordConfig) (Backend, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "record store required")
	}
	return &fileBackend{store: store, passwordCfg: passwordCfg}, nil
}

func (b *fileBackend) Name() string { return "records" }

func (b *fileBackend) SignUp(ctx context.Context, email, password string) (string, error) {
	if _, err := b.store.FindUserByEmail(ctx, email); err == nil {
		return "", pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, records.ErrNotFound) {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}
	return uuid.NewString(), nil
}

func (b *fileBackend) SignIn(ctx context.Context, email, password string) (string, error) {
	user, err := b.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.HashedPassword)
	if err != nil || !valid {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user.ID, nil
}

func (b *fileBackend) CreateBusiness(ctx context.Context, business *records.Business) (*records.Business, error) {
	if business.ID == "" {
		business.ID = uuid.NewString()
	}
	created, err := b.store.CreateBusiness(ctx, business)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create business")
	}
	return created, nil
}

func (b *fileBackend) CreateUser(ctx context.Context, user *records.User, password string) (*records.User, error) {
	hash, err := security.HashPassword(password, b.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	user.HashedPassword = hash

	created, err := b.store.CreateUser(ctx, user)
	if err != nil {
		if records.IsDuplicate(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return created, nil
}

func (b *fileBackend) FindUserByEmail(ctx context.Context, email string) (*records.User, error) {
	user, err := b.store.FindUserByEmail(ctx, email)
	return user, mapRecordsErr(err, "user not found")
}

func (b *fileBackend) FindUserByID(ctx context.Context, id string) (*records.User, error) {
	user, err := b.store.FindUserByID(ctx, id)
	return user, mapRecordsErr(err, "user not found")
}

func (b *fileBackend) FindBusinessByID(ctx context.Context, id string) (*records.Business, error) {
	business, err := b.store.FindBusinessByID(ctx, id)
	return business, mapRecordsErr(err, "business not found")
}

func (b *fileBackend) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if err := b.store.UpdateLastLogin(ctx, id, at); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	return nil
}

func mapRecordsErr(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, records.ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record store")
}

type supabaseBackend struct {
	anon    *supabase.Client
	service *supabase.Client
}

// NewSupabaseBackend wraps the hosted backend handles as an auth backend.
// The service-role handle is used only for the two bootstrap inserts during
// registration; everything else goes through the anon handle and the
// backend's own row-level authorization.
func NewSupabaseBackend(pair *supabase.Pair) (Backend, error) {
	if pair == nil || pair.Anon == nil || pair.Service == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "supabase handles required")
	}
	return &supabaseBackend{anon: pair.Anon, service: pair.Service}, nil
}

func (b *supabaseBackend) Name() string { return "supabase" }

func (b *supabaseBackend) SignUp(ctx context.Context, email, password string) (string, error) {
	id, err := b.anon.SignUp(ctx, email, password)
	if err != nil {
		var apiErr *supabase.APIError
		if errors.As(err, &apiErr) &&
			(apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusUnprocessableEntity) {
			return "", pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign up")
	}
	return id, nil
}

func (b *supabaseBackend) SignIn(ctx context.Context, email, password string) (string, error) {
	id, err := b.anon.SignInWithPassword(ctx, email, password)
	if err != nil {
		var apiErr *supabase.APIError
		if errors.As(err, &apiErr) {
			return "", pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign in")
	}
	return id, nil
}

type businessRow struct {
	UserID    string    `json:"user_id"`
	LegalName string    `json:"legal_name"`
	TradeName string    `json:"trade_name"`
	GSTIN     *string   `json:"gstin"`
	PAN       *string   `json:"pan"`
	CreatedAt time.Time `json:"created_at"`
}

func (b *supabaseBackend) CreateBusiness(ctx context.Context, business *records.Business) (*records.Business, error) {
	row := businessRow{
		UserID:    business.UserID,
		LegalName: business.LegalName,
		TradeName: business.TradeName,
		GSTIN:     business.GSTIN,
		PAN:       business.PAN,
		CreatedAt: business.CreatedAt,
	}

	var created records.Business
	if err := b.service.Insert(ctx, "businesses", row, &created); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create business")
	}
	return &created, nil
}

type userRow struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Phone      *string   `json:"phone"`
	BusinessID string    `json:"business_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (b *supabaseBackend) CreateUser(ctx context.Context, user *records.User, _ string) (*records.User, error) {
	row := userRow{
		ID:         user.ID,
		Email:      user.Email,
		FullName:   user.FullName,
		Phone:      user.Phone,
		BusinessID: user.BusinessID,
		CreatedAt:  user.CreatedAt,
	}

	var created records.User
	if err := b.service.Insert(ctx, "users", row, &created); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return &created, nil
}

func (b *supabaseBackend) FindUserByEmail(ctx context.Context, email string) (*records.User, error) {
	var user records.User
	if err := b.anon.SelectOne(ctx, "users", "email", email, &user); err != nil {
		return nil, mapSupabaseErr(err, "user not found")
	}
	return &user, nil
}

func (b *supabaseBackend) FindUserByID(ctx context.Context, id string) (*records.User, error) {
	var user records.User
	if err := b.anon.SelectOne(ctx, "users", "id", id, &user); err != nil {
		return nil, mapSupabaseErr(err, "user not found")
	}
	return &user, nil
}

func (b *supabaseBackend) FindBusinessByID(ctx context.Context, id string) (*records.Business, error) {
	var business records.Business
	if err := b.anon.SelectOne(ctx, "businesses", "id", id, &business); err != nil {
		return nil, mapSupabaseErr(err, "business not found")
	}
	return &business, nil
}

func (b *supabaseBackend) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	patch := map[string]any{"last_login": at}
	if err := b.anon.UpdateByID(ctx, "users", id, patch); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update last login")
	}
	return nil
}

func mapSupabaseErr(err error, notFoundMsg string) error {
	if errors.Is(err, supabase.ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query backend")
}
