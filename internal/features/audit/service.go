package audit

import (
	"context"
	"time"

	common_models "chums-admin/internal/common/models"
	"chums-admin/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Module names used in the trail.
const (
	ModuleQuestions       = "questions"
	ModuleDonationBatches = "donationbatches"
	ModuleGroups          = "groups"
)

type AuditService interface {
	LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error
	LogFailure(ctx context.Context, module string, recordID string, cause error)
	ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error)
}

type AuditServiceImpl struct {
	Repo   AuditRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewAuditService(repo AuditRepository, logger *zap.Logger) AuditService {
	return &AuditServiceImpl{
		Repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *AuditServiceImpl) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	return s.Repo.Create(ctx, s.entry(ctx, action, module, recordID, changes))
}

// LogFailure records a remote write that did not take effect. It never fails
// the caller; trail errors are only logged.
func (s *AuditServiceImpl) LogFailure(ctx context.Context, module string, recordID string, cause error) {
	entry := s.entry(ctx, common_models.AuditActionWriteFailed, module, recordID, nil)
	if cause != nil {
		entry.Error = cause.Error()
	}
	if err := s.Repo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to record audit failure",
			zap.String("module", module),
			zap.String("record_id", recordID),
			zap.Error(err),
		)
	}
}

func (s *AuditServiceImpl) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.Repo.List(ctx, filters, limit, offset)
}

func (s *AuditServiceImpl) entry(ctx context.Context, action common_models.AuditAction, module, recordID string, changes map[string]common_models.Change) common_models.AuditLog {
	// Extract Actor from Context
	actorID := "system"
	churchID := ""
	if claims := utils.ClaimsFromContext(ctx); claims != nil {
		actorID = claims.UserID
		churchID = claims.ChurchID
	}

	return common_models.AuditLog{
		ID:        primitive.NewObjectID(),
		ChurchID:  churchID,
		Action:    action,
		Module:    module,
		RecordID:  recordID,
		ActorID:   actorID,
		Changes:   changes,
		Timestamp: s.now(),
	}
}
