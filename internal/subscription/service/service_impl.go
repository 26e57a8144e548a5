package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	relateddomain "github.com/teleretail/salespoint/internal/related/domain"
	subscriptiondomain "github.com/teleretail/salespoint/internal/subscription/domain"
	"github.com/teleretail/salespoint/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	repo       subscriptiondomain.Repository
	relatedSvc relateddomain.Service
}

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Repo       subscriptiondomain.Repository
	RelatedSvc relateddomain.Service
}

func NewService(p ServiceParam) subscriptiondomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("subscription.service"),

		repo:       p.Repo,
		relatedSvc: p.RelatedSvc,
	}
}

// List implements domain.Service.
func (s *Service) List(ctx context.Context, req subscriptiondomain.ListRequest) (subscriptiondomain.ListResponse, error) {
	filter := subscriptiondomain.ListFilter{
		MainOnly:     req.MainOnly,
		DealEligible: req.DealEligible,
		PageSize:     req.PageSize,
		PageToken:    req.PageToken,
	}
	if operatorID := strings.TrimSpace(req.OperatorID); operatorID != "" {
		parsed, err := snowflake.ParseString(operatorID)
		if err != nil {
			return subscriptiondomain.ListResponse{}, subscriptiondomain.ErrInvalidOperator
		}
		filter.OperatorID = &parsed
	}

	rows, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return subscriptiondomain.ListResponse{}, err
	}

	size := req.PageSize
	if size <= 0 {
		size = 25
	}
	pageInfo := pagination.BuildCursorPageInfo(rows, int32(size), func(sub *subscriptiondomain.Subscription) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: sub.ID.String()})
		return token
	})

	if len(rows) > size {
		rows = rows[:size]
	}
	subs := make([]subscriptiondomain.Subscription, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, *row)
	}

	return subscriptiondomain.ListResponse{
		PageInfo:      *pageInfo,
		Subscriptions: subs,
	}, nil
}

// GetByID implements domain.Service.
func (s *Service) GetByID(ctx context.Context, id string) (subscriptiondomain.Subscription, error) {
	parsed, err := parseID(id)
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}

	sub, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}
	if sub == nil {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrSubscriptionNotFound
	}
	return *sub, nil
}

// UpdatePricing implements domain.Service. A change to a main line is
// applied to every silently linked variant the resolver finds, unioned
// with the extra-user lines sharing the operator and display grouping.
// The monthly price moves as a delta so the youth twin keeps its fixed
// offset below the main plan.
func (s *Service) UpdatePricing(ctx context.Context, req subscriptiondomain.UpdatePricingRequest) (subscriptiondomain.UpdatePricingResponse, error) {
	if req.MonthlyPrice == nil && req.MonthlyDiscount == nil &&
		req.DiscountDurationMonths == nil && req.CustomerDiscount == nil {
		return subscriptiondomain.UpdatePricingResponse{}, subscriptiondomain.ErrEmptyUpdate
	}
	for _, amount := range []*int64{req.MonthlyPrice, req.MonthlyDiscount, req.CustomerDiscount} {
		if amount != nil && *amount < 0 {
			return subscriptiondomain.UpdatePricingResponse{}, subscriptiondomain.ErrNegativeAmount
		}
	}

	id, err := parseID(req.ID)
	if err != nil {
		return subscriptiondomain.UpdatePricingResponse{}, err
	}

	target, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return subscriptiondomain.UpdatePricingResponse{}, err
	}
	if target == nil {
		return subscriptiondomain.UpdatePricingResponse{}, subscriptiondomain.ErrSubscriptionNotFound
	}

	ids, err := s.relatedSvc.Resolve(ctx, *target)
	if err != nil {
		return subscriptiondomain.UpdatePricingResponse{}, err
	}

	if target.IsMainSubscription {
		extraUsers, err := s.repo.FindExtraUserLines(ctx, s.db, target.OperatorID, target.TableDisplayName)
		if err != nil {
			return subscriptiondomain.UpdatePricingResponse{}, err
		}
		seen := make(map[snowflake.ID]struct{}, len(ids))
		for _, existing := range ids {
			seen[existing] = struct{}{}
		}
		for _, line := range extraUsers {
			if _, ok := seen[line.ID]; !ok {
				ids = append(ids, line.ID)
			}
		}
	}

	var priceDelta int64
	if req.MonthlyPrice != nil {
		priceDelta = *req.MonthlyPrice - target.MonthlyPrice
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.repo.FindByIDs(ctx, tx, ids)
		if err != nil {
			return err
		}
		for _, row := range rows {
			changes := subscriptiondomain.PricingChanges{
				MonthlyDiscount:        req.MonthlyDiscount,
				DiscountDurationMonths: req.DiscountDurationMonths,
				CustomerDiscount:       req.CustomerDiscount,
			}
			if req.MonthlyPrice != nil {
				newPrice := row.MonthlyPrice + priceDelta
				if newPrice < 0 {
					newPrice = 0
				}
				changes.MonthlyPrice = &newPrice
			}
			if err := s.repo.UpdatePricing(ctx, tx, []snowflake.ID{row.ID}, changes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return subscriptiondomain.UpdatePricingResponse{}, err
	}

	updated := make([]string, 0, len(ids))
	for _, updatedID := range ids {
		updated = append(updated, updatedID.String())
	}

	s.log.Info("subscription pricing updated",
		zap.String("subscription_id", target.ID.String()),
		zap.Int("propagated_rows", len(updated)),
	)

	return subscriptiondomain.UpdatePricingResponse{UpdatedIDs: updated}, nil
}

func parseID(raw string) (snowflake.ID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, subscriptiondomain.ErrInvalidID
	}
	id, err := snowflake.ParseString(trimmed)
	if err != nil {
		return 0, subscriptiondomain.ErrInvalidID
	}
	return id, nil
}
