package evaluation

import (
	"context"
	"errors"
	"fmt"

	"grc-integrator/internal/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrControlNotFound = errors.New("control not found")

type Service struct {
	db     *gorm.DB
	scorer Scorer
	logger *zap.Logger
}

func NewService(db *gorm.DB, scorer Scorer, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		scorer: scorer,
		logger: logger.With(zap.String("service", "evaluation")),
	}
}

// Evaluate отправляет доказательства на оценку и сохраняет результат.
// Сбой оценщика записывается как failed-оценка, а не возвращается ошибкой.
func (s *Service) Evaluate(ctx context.Context, controlID uint, evidence string, requestedBy *uint) (*models.Evaluation, error) {
	var ctl models.Control
	if err := s.db.WithContext(ctx).First(&ctl, controlID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrControlNotFound
		}
		return nil, fmt.Errorf("load control %d: %w", controlID, err)
	}

	ev := &models.Evaluation{
		ControlID:   ctl.ID,
		Evidence:    evidence,
		RequestedBy: requestedBy,
	}

	res, err := s.scorer.Score(ctx, Request{
		ControlCode: ctl.Code,
		Title:       ctl.Title,
		Description: ctl.Description,
		Evidence:    evidence,
	})
	if err != nil {
		s.logger.Warn("evidence scoring failed", zap.Uint("control_id", ctl.ID), zap.Error(err))
		ev.Status = models.EvaluationFailed
		ev.Error = err.Error()
	} else {
		ev.Status = models.EvaluationCompleted
		ev.Score = res.Score
		ev.Verdict = res.Verdict
		ev.Rationale = res.Rationale
		if len(res.Raw) > 0 {
			ev.Response = datatypes.JSON(res.Raw)
		}
	}

	if err := s.db.WithContext(ctx).Create(ev).Error; err != nil {
		return nil, fmt.Errorf("save evaluation: %w", err)
	}
	return ev, nil
}

func (s *Service) List(ctx context.Context, controlID uint) ([]models.Evaluation, error) {
	var list []models.Evaluation
	err := s.db.WithContext(ctx).
		Where("control_id = ?", controlID).
		Order("created_at desc").
		Find(&list).Error
	return list, err
}
