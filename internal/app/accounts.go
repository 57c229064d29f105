package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/transfa/returns-service/internal/domain"
	"github.com/transfa/returns-service/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const defaultAdminTitle = "Manager"

// Register creates a customer account and signs the caller in.
func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	switch {
	case firstName == "" || lastName == "":
		return nil, fmt.Errorf("first and last name are required: %w", domain.ErrInvalidArgument)
	case email == "" || !strings.Contains(email, "@"):
		return nil, fmt.Errorf("a valid email is required: %w", domain.ErrInvalidArgument)
	case req.Password == "":
		return nil, fmt.Errorf("password is required: %w", domain.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	customer := &domain.Customer{
		ID:           uuid.New(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	log.Printf("level=info component=accounts msg=\"customer registered\" customer_id=%s", customer.ID)

	return s.authResult(domain.Principal{SubjectID: customer.ID, Role: domain.RoleCustomer}, customer.FullName(), customer.Email)
}

// Login verifies the credentials of a customer or an admin, selected by user type.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", domain.ErrInvalidArgument)
	}
	role := domain.RoleCustomer
	if strings.TrimSpace(req.UserType) != "" {
		parsed, ok := domain.ParseRole(req.UserType)
		if !ok {
			return nil, fmt.Errorf("unknown user type %q: %w", req.UserType, domain.ErrInvalidArgument)
		}
		role = parsed
	}

	if role == domain.RoleAdmin {
		admin, err := s.repo.FindAdminByEmail(ctx, req.Email)
		if err != nil {
			return nil, credentialError(err)
		}
		if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
			return nil, ErrInvalidCredentials
		}
		return s.authResult(domain.Principal{SubjectID: admin.ID, Role: domain.RoleAdmin}, admin.FullName(), admin.Email)
	}

	customer, err := s.repo.FindCustomerByEmail(ctx, req.Email)
	if err != nil {
		return nil, credentialError(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.authResult(domain.Principal{SubjectID: customer.ID, Role: domain.RoleCustomer}, customer.FullName(), customer.Email)
}

// EnsureAdmin creates the bootstrap admin account when no admin uses that email yet.
func (s *Service) EnsureAdmin(ctx context.Context, email string, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return fmt.Errorf("admin email and password are required: %w", domain.ErrInvalidArgument)
	}

	if _, err := s.repo.FindAdminByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin := &domain.Admin{
		ID:           uuid.New(),
		FirstName:    "Admin",
		LastName:     "User",
		Email:        email,
		Title:        defaultAdminTitle,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreateAdmin(ctx, admin); err != nil {
		// Another replica seeded it first.
		if errors.Is(err, store.ErrEmailTaken) {
			return nil
		}
		return err
	}
	log.Printf("level=info component=accounts msg=\"default admin created\" admin_id=%s email=%s", admin.ID, admin.Email)
	return nil
}

func (s *Service) authResult(principal domain.Principal, name string, email string) (*domain.AuthResult, error) {
	if s.tokens == nil {
		return nil, errors.New("token manager is not configured")
	}
	token, err := s.tokens.Issue(principal)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{
		AccessToken: token,
		User: domain.AuthUser{
			ID:    principal.SubjectID,
			Name:  name,
			Email: email,
			Role:  principal.Role,
		},
	}, nil
}

func credentialError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return ErrInvalidCredentials
	}
	return err
}
