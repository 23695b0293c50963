package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	coreconsultant "github.com/example/ordens/internal/core/consultant"
	"github.com/example/ordens/internal/core/errs"
	"github.com/example/ordens/internal/ctxutil"
	"github.com/example/ordens/internal/ports/primary"
	"github.com/example/ordens/internal/ports/secondary"
)

// ConsultantServiceImpl implements the ConsultantService interface.
type ConsultantServiceImpl struct {
	tx       secondary.Transactor
	deleter  secondary.RecordDeleter
	logger   zerolog.Logger
	hashCost int
}

// NewConsultantService creates a new ConsultantService with injected dependencies.
func NewConsultantService(tx secondary.Transactor, deleter secondary.RecordDeleter, logger zerolog.Logger) *ConsultantServiceImpl {
	return &ConsultantServiceImpl{
		tx:       tx,
		deleter:  deleter,
		logger:   logger.With().Str("service", "consultant").Logger(),
		hashCost: bcrypt.DefaultCost,
	}
}

// Bootstrap creates the first supervisor of an empty database. The requested
// role is ignored.
func (s *ConsultantServiceImpl) Bootstrap(ctx context.Context, req primary.CreateConsultantRequest) (*primary.CreateConsultantResponse, error) {
	req.Role = string(ctxutil.RoleSupervisor)
	if err := validateRequest("consultant", req); err != nil {
		return nil, err
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	var id int64
	err = s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		count, err := store.Consultants().Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return &errs.ForbiddenError{Action: "bootstrap", Reason: "consultants are already registered"}
		}
		id, err = store.Consultants().Create(ctx, &secondary.ConsultantRecord{
			Name:         strings.TrimSpace(req.Name),
			Email:        strings.TrimSpace(req.Email),
			PasswordHash: hash,
			Role:         req.Role,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to bootstrap supervisor: %w", err)
	}

	s.logger.Info().Int64("consultant_id", id).Msg("first supervisor created")
	return &primary.CreateConsultantResponse{ConsultantID: id}, nil
}

// CreateConsultant registers a consultant. Supervisor only.
func (s *ConsultantServiceImpl) CreateConsultant(ctx context.Context, req primary.CreateConsultantRequest) (*primary.CreateConsultantResponse, error) {
	actor, err := requireActor(ctx, "register consultant")
	if err != nil {
		return nil, err
	}
	if result := coreconsultant.CanCreateConsultant(coreconsultant.CreateConsultantContext{
		ActorIsSupervisor: actor.IsSupervisor(),
	}); !result.Allowed {
		return nil, &errs.ForbiddenError{Action: "register consultant", Reason: result.Reason}
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateRequest("consultant", req); err != nil {
		return nil, err
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	var id int64
	err = s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		var err error
		id, err = store.Consultants().Create(ctx, &secondary.ConsultantRecord{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         req.Role,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consultant: %w", err)
	}

	s.logger.Info().Int64("consultant_id", id).Str("role", req.Role).Msg("consultant created")
	return &primary.CreateConsultantResponse{ConsultantID: id}, nil
}

// ListConsultants lists all consultants.
func (s *ConsultantServiceImpl) ListConsultants(ctx context.Context) ([]*primary.Consultant, error) {
	var records []*secondary.ConsultantRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		var err error
		records, err = store.Consultants().List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list consultants: %w", err)
	}

	consultants := make([]*primary.Consultant, len(records))
	for i, r := range records {
		consultants[i] = recordToConsultant(r)
	}
	return consultants, nil
}

// UpdateProfile edits the acting consultant's own profile. A request that
// changes nothing writes nothing and reports Changed false.
func (s *ConsultantServiceImpl) UpdateProfile(ctx context.Context, req primary.UpdateProfileRequest) (*primary.UpdateProfileResponse, error) {
	actor, err := requireActor(ctx, "edit profile")
	if err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateRequest("consultant", req); err != nil {
		return nil, err
	}

	if result := coreconsultant.CanEditProfile(coreconsultant.EditProfileContext{
		ActorID:         actor.UserID,
		TargetID:        req.ConsultantID,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	}); !result.Allowed {
		if actor.UserID != req.ConsultantID {
			return nil, &errs.ForbiddenError{Action: "edit profile", Reason: result.Reason}
		}
		return nil, &errs.ValidationError{Entity: "consultant", Field: "confirm_password", Reason: "must match the new password"}
	}

	changed := false
	err = s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		current, err := store.Consultants().GetByID(ctx, req.ConsultantID)
		if err != nil {
			return err
		}

		updated := *current
		if req.Name != "" && req.Name != current.Name {
			updated.Name = req.Name
			changed = true
		}
		if req.Email != "" && req.Email != current.Email {
			updated.Email = req.Email
			changed = true
		}
		if req.NewPassword != "" &&
			bcrypt.CompareHashAndPassword([]byte(current.PasswordHash), []byte(req.NewPassword)) != nil {
			hash, err := s.hash(req.NewPassword)
			if err != nil {
				return err
			}
			updated.PasswordHash = hash
			changed = true
		}

		if !changed {
			return nil
		}
		return store.Consultants().Update(ctx, &updated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if changed {
		s.logger.Info().Int64("consultant_id", req.ConsultantID).Msg("profile updated")
	}
	return &primary.UpdateProfileResponse{Changed: changed}, nil
}

// DeleteConsultant deletes a consultant. Supervisor only, never self.
func (s *ConsultantServiceImpl) DeleteConsultant(ctx context.Context, consultantID int64) error {
	actor, err := requireActor(ctx, "delete consultant")
	if err != nil {
		return err
	}

	var guardCtx coreconsultant.DeleteConsultantContext
	err = s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		target, err := store.Consultants().GetByID(ctx, consultantID)
		if err != nil {
			return err
		}
		count, err := store.Consultants().CountOrders(ctx, consultantID)
		if err != nil {
			return err
		}
		guardCtx = coreconsultant.DeleteConsultantContext{
			ActorID:           actor.UserID,
			ActorIsSupervisor: actor.IsSupervisor(),
			TargetID:          consultantID,
			TargetName:        target.Name,
			OrderCount:        count,
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load consultant: %w", err)
	}

	if result := coreconsultant.CanDeleteConsultant(guardCtx); !result.Allowed {
		if !actor.IsSupervisor() || actor.UserID == consultantID {
			return &errs.ForbiddenError{Action: "delete consultant", Reason: result.Reason}
		}
		return &errs.ReferentialIntegrityViolation{
			Entity:     "consultant",
			ID:         consultantID,
			References: guardCtx.OrderCount,
			Err:        result.Error(),
		}
	}

	if _, err := s.deleter.DeleteRecord(ctx, secondary.TableConsultants, consultantID); err != nil {
		return fmt.Errorf("failed to delete consultant: %w", err)
	}

	s.logger.Info().Int64("consultant_id", consultantID).Msg("consultant deleted")
	return nil
}

// CheckCredentials verifies an email and password and returns the actor.
// Unknown emails and wrong passwords fail the same way.
func (s *ConsultantServiceImpl) CheckCredentials(ctx context.Context, email, password string) (*ctxutil.Actor, error) {
	record, err := s.getByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, &errs.ForbiddenError{Action: "log in", Reason: "invalid email or password"}
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn().Str("email", record.Email).Msg("login refused")
		return nil, &errs.ForbiddenError{Action: "log in", Reason: "invalid email or password"}
	}

	return recordToActor(record), nil
}

// ResolveActor returns the actor registered under email.
func (s *ConsultantServiceImpl) ResolveActor(ctx context.Context, email string) (*ctxutil.Actor, error) {
	record, err := s.getByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return recordToActor(record), nil
}

// Helper methods

func (s *ConsultantServiceImpl) getByEmail(ctx context.Context, email string) (*secondary.ConsultantRecord, error) {
	var record *secondary.ConsultantRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		var err error
		record, err = store.Consultants().GetByEmail(ctx, strings.TrimSpace(email))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve consultant: %w", err)
	}
	return record, nil
}

func (s *ConsultantServiceImpl) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func recordToConsultant(r *secondary.ConsultantRecord) *primary.Consultant {
	return &primary.Consultant{
		ID:    r.ID,
		Name:  r.Name,
		Email: r.Email,
		Role:  r.Role,
	}
}

func recordToActor(r *secondary.ConsultantRecord) *ctxutil.Actor {
	return &ctxutil.Actor{
		UserID: r.ID,
		Name:   r.Name,
		Role:   ctxutil.Role(r.Role),
	}
}

// Ensure ConsultantServiceImpl implements the interface
var _ primary.ConsultantService = (*ConsultantServiceImpl)(nil)
