package clients

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// NormalizeEmail trims and lower-cases an address and rejects anything that
// is not a bare address.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// Upsert creates the client for email or refreshes its identity fields.
func (s *Service) Upsert(ctx context.Context, email string, identity Identity) (Client, error) {
	if s == nil || s.Repo == nil {
		return Client{}, errors.New("clients service not configured")
	}
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return Client{}, err
	}
	client, err := s.Repo.Upsert(ctx, Client{
		ID:           uuid.NewString(),
		Email:        normalized,
		FirstName:    strings.TrimSpace(identity.FirstName),
		BusinessName: strings.TrimSpace(identity.BusinessName),
		Website:      strings.TrimSpace(identity.Website),
	})
	if err != nil {
		return Client{}, fmt.Errorf("upsert client: %w", err)
	}
	return client, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (Client, error) {
	if s == nil || s.Repo == nil {
		return Client{}, errors.New("clients service not configured")
	}
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return Client{}, err
	}
	return s.Repo.GetByEmail(ctx, normalized)
}

func (s *Service) GetByID(ctx context.Context, id string) (Client, error) {
	if s == nil || s.Repo == nil {
		return Client{}, errors.New("clients service not configured")
	}
	if strings.TrimSpace(id) == "" {
		return Client{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Client, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("clients service not configured")
	}
	return s.Repo.List(ctx)
}

// DisplayName is the name notifications and the admin overview show.
func (c Client) DisplayName() string {
	switch {
	case c.FirstName != "" && c.BusinessName != "":
		return c.FirstName + " (" + c.BusinessName + ")"
	case c.BusinessName != "":
		return c.BusinessName
	case c.FirstName != "":
		return c.FirstName
	default:
		return c.Email
	}
}
