package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/teleretail/salespoint/internal/observability/metrics"
	operatordomain "github.com/teleretail/salespoint/internal/operator/domain"
	relateddomain "github.com/teleretail/salespoint/internal/related/domain"
	subscriptiondomain "github.com/teleretail/salespoint/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// youthPriceOffset is the fixed amount the featured youth twin sits
// below its main plan's monthly price.
const youthPriceOffset = 50

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	metrics *metrics.Metrics

	subscriptions subscriptiondomain.Repository
	operators     operatordomain.Repository
}

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Metrics *metrics.Metrics

	Subscriptions subscriptiondomain.Repository
	Operators     operatordomain.Repository
}

func NewService(p ServiceParam) relateddomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("related.service"),
		metrics: p.Metrics,

		subscriptions: p.Subscriptions,
		operators:     p.Operators,
	}
}

// Resolve implements domain.Service.
func (s *Service) Resolve(ctx context.Context, sub subscriptiondomain.Subscription) ([]snowflake.ID, error) {
	ids := []snowflake.ID{sub.ID}

	// Extra-user and other non-main lines never fan out to variants.
	if !sub.IsMainSubscription {
		return ids, nil
	}

	operator, err := s.operators.FindByID(ctx, s.db, sub.OperatorID)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, operatordomain.ErrOperatorNotFound
	}

	switch operator.Family {
	case operatordomain.FamilyInstallment:
		if err := s.appendInstallmentTwin(ctx, &ids, sub); err != nil {
			return nil, err
		}
	case operatordomain.FamilyInstallmentYouth:
		if err := s.appendInstallmentTwin(ctx, &ids, sub); err != nil {
			return nil, err
		}
		if err := s.appendYouthTwins(ctx, &ids, sub); err != nil {
			return nil, err
		}
	case operatordomain.FamilyInstallmentStudent:
		if err := s.appendInstallmentTwin(ctx, &ids, sub); err != nil {
			return nil, err
		}
		if err := s.appendStudentTwin(ctx, &ids, sub); err != nil {
			return nil, err
		}
	default:
		// Standard operators carry no silent variants.
	}

	s.metrics.RecordRelatedResolved(ctx, string(operator.Family), len(ids))
	s.log.Debug("resolved related subscriptions",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("operator_family", string(operator.Family)),
		zap.Int("related_count", len(ids)),
	)
	return ids, nil
}

// appendInstallmentTwin adds the installment-only line sold at the same
// monthly price, when one exists.
func (s *Service) appendInstallmentTwin(ctx context.Context, ids *[]snowflake.ID, sub subscriptiondomain.Subscription) error {
	twin, err := s.subscriptions.FindInstallmentVariant(ctx, s.db, sub.OperatorID, sub.MonthlyPrice, false)
	if err != nil {
		return err
	}
	if twin != nil {
		*ids = append(*ids, twin.ID)
	}
	return nil
}

// appendYouthTwins adds the featured youth line priced exactly one
// offset below, and then that youth line's own installment twin at the
// youth price.
func (s *Service) appendYouthTwins(ctx context.Context, ids *[]snowflake.ID, sub subscriptiondomain.Subscription) error {
	youth, err := s.subscriptions.FindYouthVariantByPrice(ctx, s.db, sub.OperatorID, sub.MonthlyPrice-youthPriceOffset)
	if err != nil {
		return err
	}
	if youth == nil {
		return nil
	}
	*ids = append(*ids, youth.ID)

	youthInstallment, err := s.subscriptions.FindInstallmentVariant(ctx, s.db, sub.OperatorID, youth.MonthlyPrice, true)
	if err != nil {
		return err
	}
	if youthInstallment != nil {
		*ids = append(*ids, youthInstallment.ID)
	}
	return nil
}

// appendStudentTwin adds the featured student line carrying the same
// data allowance, then that line's own installment twin at the student
// price. An unlimited plan only matches an unlimited twin.
func (s *Service) appendStudentTwin(ctx context.Context, ids *[]snowflake.ID, sub subscriptiondomain.Subscription) error {
	student, err := s.subscriptions.FindYouthVariantByAllowance(ctx, s.db, sub.OperatorID, sub.DataAllowanceGB)
	if err != nil {
		return err
	}
	if student == nil {
		return nil
	}
	*ids = append(*ids, student.ID)

	studentInstallment, err := s.subscriptions.FindInstallmentVariant(ctx, s.db, sub.OperatorID, student.MonthlyPrice, true)
	if err != nil {
		return err
	}
	if studentInstallment != nil {
		*ids = append(*ids, studentInstallment.ID)
	}
	return nil
}
