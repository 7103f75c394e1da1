package application

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"bakery-backoffice/internal/domain"
	"bakery-backoffice/internal/ports"

	"github.com/google/uuid"
)

type PrincipalService struct {
	repo        ports.PrincipalRepository
	logger      ports.Logger
	superAdmins []string
}

func NewPrincipalService(repo ports.PrincipalRepository, logger ports.Logger, superAdmins []string) *PrincipalService {
	return &PrincipalService{repo: repo, logger: logger, superAdmins: superAdmins}
}

// SignIn creates the principal on first sign-in (pending collaborator, or an
// active super admin for configured bootstrap subjects) and refreshes the
// last login time afterwards.
func (s *PrincipalService) SignIn(ctx context.Context, id domain.Identity) (domain.Principal, error) {
	if id.Subject == "" {
		return domain.Principal{}, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	existing, err := s.repo.GetByID(ctx, id.Subject)
	if err == nil {
		if err := s.repo.TouchLogin(ctx, id.Subject, now); err != nil {
			return domain.Principal{}, err
		}
		existing.LastLoginAt = now
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Principal{}, err
	}
	p := domain.Principal{
		ID:          id.Subject,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		Role:        domain.RoleCollaborator,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		LastLoginAt: now,
	}
	if slices.Contains(s.superAdmins, id.Subject) {
		p.Role = domain.RoleSuperAdmin
		p.Status = domain.StatusActive
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return domain.Principal{}, err
	}
	s.logger.Info(ctx, "principal created", "principal_id", p.ID, "role", p.Role, "status", p.Status)
	return p, nil
}

// Resolve loads an active principal for an authenticated subject.
func (s *PrincipalService) Resolve(ctx context.Context, subject string) (domain.Principal, error) {
	if subject == "" {
		return domain.Principal{}, domain.ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, subject)
	if err != nil {
		return domain.Principal{}, err
	}
	if p.Status != domain.StatusActive {
		return p, domain.ErrInactiveAccount
	}
	return p, nil
}

func (s *PrincipalService) List(ctx context.Context) ([]domain.Principal, error) {
	return s.repo.List(ctx)
}

type PrincipalPatch struct {
	Role       *domain.Role
	Status     *domain.PrincipalStatus
	CustomName *string
}

// Update changes role, status or display name. Principals are never deleted;
// deactivation is a status change. Actors cannot change their own role or
// status.
func (s *PrincipalService) Update(ctx context.Context, actor domain.Principal, id string, patch PrincipalPatch) (domain.Principal, error) {
	if id == "" {
		return domain.Principal{}, domain.ErrInvalidInput
	}
	if actor.ID == id && (patch.Role != nil || patch.Status != nil) {
		return domain.Principal{}, domain.ErrPermissionDeny
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Principal{}, err
	}
	if patch.Role != nil {
		p.Role = *patch.Role
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.CustomName != nil {
		p.CustomName = strings.TrimSpace(*patch.CustomName)
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return domain.Principal{}, err
	}
	s.logger.Info(ctx, "principal updated", "principal_id", p.ID, "role", p.Role, "status", p.Status, "actor_id", actor.ID)
	return p, nil
}

type CustomerService struct {
	repo   ports.CustomerRepository
	logger ports.Logger
}

func NewCustomerService(repo ports.CustomerRepository, logger ports.Logger) *CustomerService {
	return &CustomerService{repo: repo, logger: logger}
}

func (s *CustomerService) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return domain.Customer{}, domain.ErrInvalidInput
	}
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	if err := s.repo.Create(ctx, c); err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

func (s *CustomerService) Update(ctx context.Context, c domain.Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.ID == "" || c.Name == "" {
		return domain.ErrInvalidInput
	}
	return s.repo.Update(ctx, c)
}

func (s *CustomerService) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	if id == "" {
		return domain.Customer{}, domain.ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.List(ctx)
}

func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "customer deleted", "customer_id", id)
	return nil
}

type DestinationService struct {
	repo   ports.DestinationRepository
	logger ports.Logger
}

func NewDestinationService(repo ports.DestinationRepository, logger ports.Logger) *DestinationService {
	return &DestinationService{repo: repo, logger: logger}
}

// Register appends a push destination. The registry is append-only.
func (s *DestinationService) Register(ctx context.Context, token string) (domain.NotificationDestination, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.NotificationDestination{}, domain.ErrInvalidInput
	}
	d := domain.NotificationDestination{ID: uuid.NewString(), Token: token, CreatedAt: time.Now().UTC()}
	if err := s.repo.Add(ctx, d); err != nil {
		return domain.NotificationDestination{}, err
	}
	s.logger.Info(ctx, "push destination registered", "destination_id", d.ID)
	return d, nil
}
