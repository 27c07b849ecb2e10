package rentlens

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// RPCResult is the structured outcome of a privileged admin call. Failures
// are carried in the payload rather than panicking the caller.
type RPCResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func rpcOK() RPCResult {
	return RPCResult{Success: true}
}

func rpcFail(err error) RPCResult {
	return RPCResult{Success: false, Error: errorMessage(err)}
}

// AdminService exposes the privileged moderation operations. It mirrors the
// backend's RPC surface: every call returns a structured result, and banning
// the currently authenticated user forces the machine through the banned
// sign-out path so no session survives the ban.
type AdminService struct {
	repo    RepositoryManager
	machine *Machine
	logger  Logger

	actingUserID uuid.UUID
}

func NewAdminService(repo RepositoryManager) *AdminService {
	return &AdminService{
		repo:   repo,
		logger: defLogger{},
	}
}

func (s *AdminService) WithLogger(logger Logger) *AdminService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithMachine wires the auth machine so bans of the signed-in user take
// effect immediately instead of waiting for the next session event.
func (s *AdminService) WithMachine(m *Machine) *AdminService {
	s.machine = m
	return s
}

// SetUserContext records the acting admin for subsequent calls. The user must
// exist and hold the admin role.
func (s *AdminService) SetUserContext(ctx context.Context, userID uuid.UUID) RPCResult {
	if userID == uuid.Nil {
		return rpcFail(goerrors.New("user id is required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest))
	}

	user, err := s.repo.Users().GetByIdentifier(ctx, userID.String())
	if err != nil {
		return rpcFail(err)
	}

	if user.Role != RoleAdmin {
		return rpcFail(goerrors.New("user is not an admin", goerrors.CategoryAuthz).
			WithCode(goerrors.CodeForbidden))
	}

	s.actingUserID = user.ID
	return rpcOK()
}

// BanUser bans the target account and, when the target is the currently
// authenticated user, forces an immediate sign-out carrying the ban code.
func (s *AdminService) BanUser(ctx context.Context, userID uuid.UUID, reason string) RPCResult {
	if userID == uuid.Nil {
		return rpcFail(goerrors.New("user id is required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest))
	}

	user, err := s.repo.Users().Ban(ctx, userID, reason)
	if err != nil {
		return rpcFail(err)
	}

	s.logger.Info("banned user %s: %s", user.ID, reason)

	if s.machine != nil && s.machine.CurrentUserID() == user.ID.String() {
		if err := s.machine.ForceSignOut(TextCodeAccountBanned); err != nil {
			s.logger.Warn("forced sign-out after ban did not clear session: %v", err)
		}
	}

	return rpcOK()
}

// UnbanUser lifts a ban. The user signs in again on their own; no session is
// restored.
func (s *AdminService) UnbanUser(ctx context.Context, userID uuid.UUID) RPCResult {
	if userID == uuid.Nil {
		return rpcFail(goerrors.New("user id is required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest))
	}

	user, err := s.repo.Users().Unban(ctx, userID)
	if err != nil {
		return rpcFail(err)
	}

	s.logger.Info("unbanned user %s", user.ID)

	return rpcOK()
}

// ResolveReport closes an open report with the acting admin's resolution.
func (s *AdminService) ResolveReport(ctx context.Context, reportID uuid.UUID, resolution string) RPCResult {
	if s.actingUserID == uuid.Nil {
		return rpcFail(goerrors.New("no acting admin set", goerrors.CategoryAuthz).
			WithCode(goerrors.CodeForbidden))
	}

	if _, err := s.repo.Reports().Resolve(ctx, reportID, s.actingUserID, resolution); err != nil {
		return rpcFail(err)
	}

	return rpcOK()
}

// DismissReport closes an open report without action.
func (s *AdminService) DismissReport(ctx context.Context, reportID uuid.UUID) RPCResult {
	if s.actingUserID == uuid.Nil {
		return rpcFail(goerrors.New("no acting admin set", goerrors.CategoryAuthz).
			WithCode(goerrors.CodeForbidden))
	}

	if _, err := s.repo.Reports().Dismiss(ctx, reportID, s.actingUserID); err != nil {
		return rpcFail(err)
	}

	return rpcOK()
}
