package service

import (
	"context"
	"math"
	"sort"

	"github.com/bwmarrin/snowflake"
	"github.com/teleretail/salespoint/internal/cache"
	"github.com/teleretail/salespoint/internal/chainmetrics"
	"github.com/teleretail/salespoint/internal/config"
	"github.com/teleretail/salespoint/internal/mobiledeal/domain"
	"github.com/teleretail/salespoint/internal/observability/metrics"
	operatordomain "github.com/teleretail/salespoint/internal/operator/domain"
	phonedomain "github.com/teleretail/salespoint/internal/phone/domain"
	"github.com/teleretail/salespoint/internal/pricing"
	spotdealdomain "github.com/teleretail/salespoint/internal/spotdeal/domain"
	subscriptiondomain "github.com/teleretail/salespoint/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	metrics *metrics.Metrics
	offers  *config.OffersConfigHolder
	cache   *cache.DealCache

	phones        phonedomain.Repository
	subscriptions subscriptiondomain.Repository
	operators     operatordomain.Repository
	spotDeals     spotdealdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Metrics *metrics.Metrics
	Offers  *config.OffersConfigHolder
	Cache   *cache.DealCache

	Phones        phonedomain.Repository
	Subscriptions subscriptiondomain.Repository
	Operators     operatordomain.Repository
	SpotDeals     spotdealdomain.Repository
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("mobiledeal.service"),
		metrics: p.Metrics,
		offers:  p.Offers,
		cache:   p.Cache,

		phones:        p.Phones,
		subscriptions: p.Subscriptions,
		operators:     p.Operators,
		spotDeals:     p.SpotDeals,
	}
}

// candidate is a scored combination before categorization.
type candidate struct {
	deal domain.MobileDeal
}

// GetDeals implements domain.Service.
func (s *Service) GetDeals(ctx context.Context, rawPhoneID string) (domain.DealsResponse, error) {
	phoneID, err := snowflake.ParseString(rawPhoneID)
	if err != nil {
		return domain.DealsResponse{}, domain.ErrPhoneNotFound
	}

	var cached domain.DealsResponse
	if s.cache.Get(ctx, rawPhoneID, &cached) {
		return cached, nil
	}

	var (
		phone *phonedomain.Phone
		subs  []subscriptiondomain.Subscription
		spots []spotdealdomain.SpotDeal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		phone, err = s.phones.FindByID(gctx, s.db, phoneID)
		return err
	})
	g.Go(func() error {
		var err error
		subs, err = s.subscriptions.ListDealEligible(gctx, s.db)
		return err
	})
	g.Go(func() error {
		var err error
		spots, err = s.spotDeals.ListByPhone(gctx, s.db, phoneID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.DealsResponse{}, err
	}

	if phone == nil {
		return domain.DealsResponse{}, domain.ErrPhoneNotFound
	}
	if len(subs) == 0 {
		return domain.DealsResponse{}, domain.ErrCatalogEmpty
	}

	operators, err := s.loadOperators(ctx, subs)
	if err != nil {
		return domain.DealsResponse{}, err
	}

	spotBySub := make(map[snowflake.ID]int64, len(spots))
	for _, spot := range spots {
		spotBySub[spot.SubscriptionID] = spot.DiscountAmount
	}

	cfg := s.offers.Current()
	candidates := make([]candidate, 0, len(subs))
	for _, sub := range subs {
		op, ok := operators[sub.OperatorID]
		if !ok {
			// A dangling operator reference should not sink the whole
			// catalog; skip the row and flag it for cleanup.
			s.log.Warn("deal-eligible subscription references unknown operator",
				zap.String("subscription_id", sub.ID.String()),
				zap.String("operator_id", sub.OperatorID.String()),
			)
			continue
		}
		candidates = append(candidates, s.buildCandidate(sub, *phone, op, spotBySub, cfg.Weights))
	}
	if len(candidates) == 0 {
		return domain.DealsResponse{}, domain.ErrCatalogEmpty
	}

	deals := categorize(candidates, cfg.CategoryLabels)

	resp := domain.DealsResponse{
		Phone: domain.PhoneSummary{
			ID:       phone.ID,
			Name:     phone.DisplayName(),
			Price:    phone.Price,
			ImageURL: phone.ImageURL,
		},
		Deals: deals,
	}

	s.metrics.RecordDealsServed(ctx, len(deals))
	chainmetrics.RecordDealsServed()
	s.cache.Set(ctx, rawPhoneID, resp)
	return resp, nil
}

func (s *Service) loadOperators(ctx context.Context, subs []subscriptiondomain.Subscription) (map[snowflake.ID]operatordomain.Operator, error) {
	ids := make([]snowflake.ID, 0, len(subs))
	seen := make(map[snowflake.ID]struct{}, len(subs))
	for _, sub := range subs {
		if _, ok := seen[sub.OperatorID]; !ok {
			seen[sub.OperatorID] = struct{}{}
			ids = append(ids, sub.OperatorID)
		}
	}
	rows, err := s.operators.FindByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	operators := make(map[snowflake.ID]operatordomain.Operator, len(rows))
	for _, op := range rows {
		operators[op.ID] = op
	}
	return operators, nil
}

func (s *Service) buildCandidate(sub subscriptiondomain.Subscription, phone phonedomain.Phone, op operatordomain.Operator, spotBySub map[snowflake.ID]int64, weights config.DealWeights) candidate {
	phoneDiscount := sub.CustomerDiscount
	isSpot := false
	if amount, ok := spotBySub[sub.ID]; ok {
		phoneDiscount = amount
		isSpot = true
	}

	subMonthly := pricing.SubscriptionMonthlyCost(sub.MonthlyPrice, sub.MonthlyDiscount)
	phoneMonthly := pricing.PhoneMonthlyCost(op.PricingFamily, phone.Price, phoneDiscount)
	total := subMonthly + phoneMonthly
	allowance := sub.TotalDataGB()

	return candidate{deal: domain.MobileDeal{
		SubscriptionID:          sub.ID,
		SubscriptionName:        sub.Name,
		OperatorID:              op.ID,
		SubscriptionMonthlyCost: subMonthly,
		PhoneMonthlyCost:        phoneMonthly,
		TotalMonthlyCost:        total,
		PhoneDiscount:           phoneDiscount,
		IsSpotDeal:              isSpot,
		DataAllowanceGB:         allowance,
		Score:                   score(total, phoneDiscount, isSpot, allowance, sub.Commission, weights),
	}}
}

// score is the weighted sum of five normalized terms, each clamped to
// [0,1] before weighting. The weights come from the reloadable offers
// config and are validated to sum to 1.
func score(totalMonthly, phoneDiscount int64, isSpot bool, allowanceGB *int64, commission int64, w config.DealWeights) float64 {
	priceTerm := math.Min(1, 1/(math.Log(float64(totalMonthly)+1)+1))

	spotFactor := 1.0
	if isSpot {
		spotFactor = 1.2
	}
	discountTerm := math.Min(1, math.Sqrt(float64(phoneDiscount)/1000)*spotFactor)

	dataTerm := 1.0
	if allowanceGB != nil {
		dataTerm = math.Min(1, math.Log(float64(*allowanceGB)+1)/math.Log(1000))
	}

	commissionTerm := math.Min(1, math.Pow(float64(commission)/180, 2))

	spotTerm := 0.0
	if isSpot {
		spotTerm = 1.0
	}

	return w.Price*priceTerm +
		w.Discount*discountTerm +
		w.Data*dataTerm +
		w.Commission*commissionTerm +
		w.SpotDeal*spotTerm
}

// categorize picks the best-score, best-discount and cheapest
// candidates, merges labels when picks coincide on one subscription,
// and returns only the labeled picks in label priority order.
func categorize(candidates []candidate, labels config.CategoryLabels) []domain.MobileDeal {
	best := pickBest(candidates, func(a, b domain.MobileDeal) bool { return a.Score > b.Score })
	mostDiscount := pickBest(candidates, func(a, b domain.MobileDeal) bool { return a.PhoneDiscount > b.PhoneDiscount })
	cheapest := pickBest(candidates, func(a, b domain.MobileDeal) bool { return a.TotalMonthlyCost < b.TotalMonthlyCost })

	type pick struct {
		idx   int
		label string
	}
	picks := []pick{
		{best, labels.Recommended},
		{mostDiscount, labels.MostHardwareDiscount},
		{cheapest, labels.Cheapest},
	}

	bySub := make(map[snowflake.ID]*domain.MobileDeal)
	order := make([]snowflake.ID, 0, 3)
	for _, p := range picks {
		deal := candidates[p.idx].deal
		if existing, ok := bySub[deal.SubscriptionID]; ok {
			existing.Labels = append(existing.Labels, p.label)
			continue
		}
		deal.Labels = []string{p.label}
		bySub[deal.SubscriptionID] = &deal
		order = append(order, deal.SubscriptionID)
	}

	out := make([]domain.MobileDeal, 0, len(order))
	for _, id := range order {
		out = append(out, *bySub[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// pickBest returns the index of the single winner; ties keep the
// earliest candidate.
func pickBest(candidates []candidate, better func(a, b domain.MobileDeal) bool) int {
	best := 0
	for i := 1; i < len(candidates); i++ {
		if better(candidates[i].deal, candidates[best].deal) {
			best = i
		}
	}
	return best
}
