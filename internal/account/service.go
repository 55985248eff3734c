package account

import (
	"context"
	"errors"

	"clarity-backend/internal/admin"
	"clarity-backend/internal/clients"
	"clarity-backend/internal/packs"
	"clarity-backend/internal/payments"
)

type Service struct {
	Clients  *clients.Service
	Payments *payments.Service
	Packs    *packs.Service
	Admin    *admin.Service
}

// Status is everything the client dashboard gates on.
type Status struct {
	Email          string             `json:"email"`
	Payment        payments.Summary   `json:"payment"`
	PackStatus     packs.ClientStatus `json:"packStatus"`
	ReportReleased bool               `json:"reportReleased"`
	Stage          clients.Stage      `json:"stage"`
}

func NewService(clientsSvc *clients.Service, paymentsSvc *payments.Service, packsSvc *packs.Service, adminSvc *admin.Service) *Service {
	return &Service{Clients: clientsSvc, Payments: paymentsSvc, Packs: packsSvc, Admin: adminSvc}
}

// Status reports the account state for email. An address with no client
// record is a new lead with nothing paid or shipped.
func (s *Service) Status(ctx context.Context, email string) (Status, error) {
	if s == nil || s.Clients == nil || s.Payments == nil || s.Packs == nil || s.Admin == nil {
		return Status{}, errors.New("account service not configured")
	}
	normalized, err := clients.NormalizeEmail(email)
	if err != nil {
		return Status{}, err
	}
	st := Status{Email: normalized, PackStatus: packs.ClientNone, Stage: clients.StageNew}

	if st.Payment, err = s.Payments.Status(ctx, normalized); err != nil {
		return Status{}, err
	}
	client, err := s.Clients.GetByEmail(ctx, normalized)
	if errors.Is(err, clients.ErrNotFound) {
		return st, nil
	}
	if err != nil {
		return Status{}, err
	}

	if st.PackStatus, err = s.Packs.ClientStatus(ctx, client.ID); err != nil {
		return Status{}, err
	}
	if st.ReportReleased, err = s.Admin.ReportReleased(ctx, client.ID); err != nil {
		return Status{}, err
	}
	if st.Stage, err = s.Admin.Stage(ctx, client); err != nil {
		return Status{}, err
	}
	return st, nil
}
