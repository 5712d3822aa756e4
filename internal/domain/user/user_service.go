package user

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

const (
	MinNameLength       = 3
	MaxNameLength       = 32
	MinPasswordLength   = 6
	MaxPasswordLength   = 72
	MaxBackgroundLength = 512

	ErrNameTaken          = "Name already taken"
	ErrInvalidCredentials = "Invalid name or password"
)

type RegisterInput struct {
	Name     string
	Password string
	Gender   Gender
}

type UserService struct {
	repo       UserRepository
	tokens     TokenIssuer
	bcryptCost int
	now        func() time.Time
	dummyHash  []byte
}

func NewUserService(repo UserRepository, tokens TokenIssuer, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	// compared against when the name is unknown
	dummy, _ := bcrypt.GenerateFromPassword([]byte("unknown-user-password"), bcryptCost)
	return &UserService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		now:        time.Now,
		dummyHash:  dummy,
	}
}

// Register creates a user with a bcrypt password hash and returns a session token.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	if n := utf8.RuneCountInString(name); n < MinNameLength || n > MaxNameLength {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "name must be between 3 and 32 characters", nil, "6d222002-954e-4765-a98f-a71dc5551847")
	}
	if n := len(input.Password); n < MinPasswordLength || n > MaxPasswordLength {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "password must be between 6 and 72 bytes", nil, "8b4aea02-298c-456a-b2be-07dcc6c0c77e")
	}
	if !input.Gender.IsValid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "gender must be male or female", nil, "d250d462-1e06-45e1-a598-0a1400afe52a")
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to look up user")
	}
	if existing != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, ErrNameTaken, nil, "e725f984-b667-4948-bf45-d0df2d3b24f0")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to hash password", err, "54338121-b0ae-4a26-b420-5ab230aafeb2")
	}

	u := &User{
		ID:           uuid.NewString(),
		Name:         name,
		PasswordHash: string(hash),
		Role:         RoleUser,
		Gender:       input.Gender,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, ErrNameTaken, err, "b9b62683-7564-47f1-aa64-1e6538ebf528")
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create user")
	}

	token, err := s.tokens.IssueToken(u.ID, u.Name)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to issue token", err, "6a186347-5229-4a10-9180-f38fdaf4e628")
	}
	return &AuthResult{Token: token, User: u}, nil
}

// Login verifies the password against the stored hash. Unknown names and wrong passwords
// produce the same validation error.
func (s *UserService) Login(ctx context.Context, name, password string) (*AuthResult, error) {
	u, err := s.repo.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to look up user")
	}

	hash := s.dummyHash
	if u != nil {
		hash = []byte(u.PasswordHash)
	}
	compareErr := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if u == nil || errors.Is(compareErr, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, ErrInvalidCredentials, nil, "e7d3263d-3893-4aaa-9e5b-8de7fa8e81c4")
	}
	if compareErr != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to verify password", compareErr, "aae6af63-59c9-4af7-acc9-d7174686ba64")
	}

	token, err := s.tokens.IssueToken(u.ID, u.Name)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to issue token", err, "11f3e876-8019-440b-93da-af617405e980")
	}
	return &AuthResult{Token: token, User: u}, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load user")
	}
	if u == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "User not found", nil, "360cd794-381b-44b8-a1f6-ffc57578343f")
	}
	return u, nil
}

// UpdateBackground stores the user's selected background image reference.
func (s *UserService) UpdateBackground(ctx context.Context, id, background string) (*User, error) {
	background = strings.TrimSpace(background)
	if background == "" || utf8.RuneCountInString(background) > MaxBackgroundLength {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "background must be between 1 and 512 characters", nil, "ea3cc186-8651-43e4-87ea-2c3030193c3d")
	}

	u, err := s.repo.UpdateBackground(ctx, id, background)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update background")
	}
	if u == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "User not found", nil, "092622e4-4ff4-4410-8bfd-894827865a0d")
	}
	return u, nil
}
