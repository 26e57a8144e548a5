package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	broadbanddomain "github.com/teleretail/salespoint/internal/broadband/domain"
	"github.com/teleretail/salespoint/internal/chainmetrics"
	"github.com/teleretail/salespoint/internal/clock"
	contractcodedomain "github.com/teleretail/salespoint/internal/contractcode/domain"
	"github.com/teleretail/salespoint/internal/contractgen/domain"
	"github.com/teleretail/salespoint/internal/observability/metrics"
	phonedomain "github.com/teleretail/salespoint/internal/phone/domain"
	subscriptiondomain "github.com/teleretail/salespoint/internal/subscription/domain"
	subsidydomain "github.com/teleretail/salespoint/internal/subsidy/domain"
	tvpackagedomain "github.com/teleretail/salespoint/internal/tvpackage/domain"
	"github.com/teleretail/salespoint/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clk     clock.Clock
	metrics *metrics.Metrics

	subscriptions subscriptiondomain.Repository
	phones        phonedomain.Repository
	codes         contractcodedomain.Repository
	subsidies     subsidydomain.Repository
	broadband     repository.Repository[broadbanddomain.Broadband]
	tvPackages    repository.Repository[tvpackagedomain.TVPackage]
}

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Metrics *metrics.Metrics

	Subscriptions subscriptiondomain.Repository
	Phones        phonedomain.Repository
	Codes         contractcodedomain.Repository
	Subsidies     subsidydomain.Repository
	Broadband     repository.Repository[broadbanddomain.Broadband]
	TVPackages    repository.Repository[tvpackagedomain.TVPackage]
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("contractgen.service"),
		clk:     p.Clock,
		metrics: p.Metrics,

		subscriptions: p.Subscriptions,
		phones:        p.Phones,
		codes:         p.Codes,
		subsidies:     p.Subsidies,
		broadband:     p.Broadband,
		tvPackages:    p.TVPackages,
	}
}

// Generate implements domain.Service.
func (s *Service) Generate(ctx context.Context, cart domain.Cart) ([]domain.ContractCodeGroup, error) {
	groups, err := s.generate(ctx, cart)
	if err != nil {
		s.metrics.RecordCodeGenFailure(ctx, failureReason(err))
		chainmetrics.RecordCodeGenFailure(failureReason(err))
		return nil, err
	}
	s.metrics.RecordCodeGroups(ctx, cartKind(cart), len(groups))
	return groups, nil
}

func (s *Service) generate(ctx context.Context, cart domain.Cart) ([]domain.ContractCodeGroup, error) {
	if len(cart.SubscriptionIDs) == 0 && cart.BroadbandID == nil && cart.TVPackageID == nil {
		return nil, domain.ErrEmptyCart
	}

	// Fixed-line products collapse the cart to a single group.
	if cart.BroadbandID != nil {
		return s.broadbandGroup(ctx, *cart.BroadbandID)
	}
	if cart.TVPackageID != nil {
		return s.tvPackageGroup(ctx, *cart.TVPackageID)
	}

	return s.subscriptionGroups(ctx, cart)
}

func (s *Service) broadbandGroup(ctx context.Context, rawID string) ([]domain.ContractCodeGroup, error) {
	id, err := parseID(rawID, "broadband")
	if err != nil {
		return nil, err
	}
	product, err := s.broadband.FindOne(ctx, &broadbanddomain.Broadband{ID: id})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Kind: "broadband", ID: rawID}
	}
	return []domain.ContractCodeGroup{{
		TargetKind: domain.TargetKindBroadband,
		TargetID:   product.ID,
		TargetName: product.Name,
		Entries:    []domain.CodeEntry{{Kind: domain.EntryKindOwn, Code: product.Code, Description: product.Name}},
	}}, nil
}

func (s *Service) tvPackageGroup(ctx context.Context, rawID string) ([]domain.ContractCodeGroup, error) {
	id, err := parseID(rawID, "tv_package")
	if err != nil {
		return nil, err
	}
	product, err := s.tvPackages.FindOne(ctx, &tvpackagedomain.TVPackage{ID: id})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Kind: "tv_package", ID: rawID}
	}
	return []domain.ContractCodeGroup{{
		TargetKind: domain.TargetKindTVPackage,
		TargetID:   product.ID,
		TargetName: product.Name,
		Entries:    []domain.CodeEntry{{Kind: domain.EntryKindOwn, Code: product.Code, Description: product.Name}},
	}}, nil
}

// catalog is the batched read set the subscription path works from. It
// is assembled up front so generation itself is pure and all-or-nothing.
type catalog struct {
	subscriptions map[snowflake.ID]subscriptiondomain.Subscription
	phones        map[snowflake.ID]phonedomain.Phone
	codes         map[snowflake.ID]map[contractcodedomain.CodeType]contractcodedomain.ContractCode
	subsidies     []subsidydomain.ActiveSubsidy
}

func (s *Service) subscriptionGroups(ctx context.Context, cart domain.Cart) ([]domain.ContractCodeGroup, error) {
	subIDs := make([]snowflake.ID, 0, len(cart.SubscriptionIDs))
	for _, raw := range cart.SubscriptionIDs {
		id, err := parseID(raw, "subscription")
		if err != nil {
			return nil, err
		}
		subIDs = append(subIDs, id)
	}

	phoneIDs := make([]snowflake.ID, 0, len(cart.PhoneSelections))
	for _, sel := range cart.PhoneSelections {
		id, err := parseID(sel.PhoneID, "phone")
		if err != nil {
			return nil, err
		}
		phoneIDs = append(phoneIDs, id)
	}

	cat, err := s.loadCatalog(ctx, cart, subIDs, phoneIDs)
	if err != nil {
		return nil, err
	}

	// Explicit claim pool: each phone selection is consumed by at most
	// one subscription, first come first served.
	claimed := make([]bool, len(cart.PhoneSelections))

	groups := make([]domain.ContractCodeGroup, 0, len(subIDs))
	for _, subID := range subIDs {
		sub := cat.subscriptions[subID]
		group, err := s.buildGroup(ctx, sub, cart, cat, claimed)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// loadCatalog fetches every lookup the cart needs, issuing independent
// reads concurrently, and validates that all referenced ids exist.
func (s *Service) loadCatalog(ctx context.Context, cart domain.Cart, subIDs, phoneIDs []snowflake.ID) (*catalog, error) {
	var (
		subs      []subscriptiondomain.Subscription
		phones    []phonedomain.Phone
		subsidies []subsidydomain.ActiveSubsidy
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		subs, err = s.subscriptions.FindByIDs(gctx, s.db, subIDs)
		return err
	})
	g.Go(func() error {
		var err error
		phones, err = s.phones.FindByIDs(gctx, s.db, phoneIDs)
		return err
	})
	g.Go(func() error {
		var err error
		subsidies, err = s.subsidies.ListActiveForSubscriptions(gctx, s.db, subIDs, s.clk.Now())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cat := &catalog{
		subscriptions: make(map[snowflake.ID]subscriptiondomain.Subscription, len(subs)),
		phones:        make(map[snowflake.ID]phonedomain.Phone, len(phones)),
		codes:         make(map[snowflake.ID]map[contractcodedomain.CodeType]contractcodedomain.ContractCode),
		subsidies:     subsidies,
	}
	for _, sub := range subs {
		cat.subscriptions[sub.ID] = sub
	}
	for _, phone := range phones {
		cat.phones[phone.ID] = phone
	}

	for i, id := range subIDs {
		if _, ok := cat.subscriptions[id]; !ok {
			return nil, &domain.NotFoundError{Kind: "subscription", ID: cart.SubscriptionIDs[i]}
		}
	}
	for i, id := range phoneIDs {
		if _, ok := cat.phones[id]; !ok {
			return nil, &domain.NotFoundError{Kind: "phone", ID: cart.PhoneSelections[i].PhoneID}
		}
	}

	operatorIDs := make([]snowflake.ID, 0, len(subs))
	seen := make(map[snowflake.ID]struct{}, len(subs))
	for _, sub := range subs {
		if _, ok := seen[sub.OperatorID]; !ok {
			seen[sub.OperatorID] = struct{}{}
			operatorIDs = append(operatorIDs, sub.OperatorID)
		}
	}
	codes, err := s.codes.ListByOperators(ctx, s.db, operatorIDs)
	if err != nil {
		return nil, err
	}
	for _, code := range codes {
		byType, ok := cat.codes[code.OperatorID]
		if !ok {
			byType = make(map[contractcodedomain.CodeType]contractcodedomain.ContractCode)
			cat.codes[code.OperatorID] = byType
		}
		byType[code.CodeType] = code
	}

	return cat, nil
}

// buildGroup assembles the ordered entry list for one subscription. The
// order is a display and audit expectation of the external sales system.
func (s *Service) buildGroup(ctx context.Context, sub subscriptiondomain.Subscription, cart domain.Cart, cat *catalog, claimed []bool) (domain.ContractCodeGroup, error) {
	group := domain.ContractCodeGroup{
		TargetKind: domain.TargetKindSubscription,
		TargetID:   sub.ID,
		TargetName: sub.Name,
	}

	group.Entries = append(group.Entries, domain.CodeEntry{
		Kind:        domain.EntryKindOwn,
		Code:        sub.Code,
		Description: sub.Name,
	})

	for _, subsidy := range cat.subsidies {
		if subsidy.SubscriptionID == sub.ID && !subsidy.ForPhone() {
			group.Entries = append(group.Entries, domain.CodeEntry{
				Kind:        domain.EntryKindSubsidy,
				Code:        subsidy.Code,
				Description: subsidy.Description,
			})
		}
	}

	if sub.IsMainSubscription && !sub.IsExistingRenewal {
		// Only mandatory when a hardware branch below needs it, so a
		// missing entry-fee code is skipped, not an error.
		if entryFee, ok := cat.codes[sub.OperatorID][contractcodedomain.CodeTypeEntryFee]; ok {
			group.Entries = append(group.Entries, domain.CodeEntry{
				Kind:        domain.EntryKindEntryFee,
				Code:        entryFee.Code,
				Description: entryFee.Description,
				Value:       entryFee.Value,
			})
		}
	}

	selIdx := claimSelection(sub.ID.String(), cart.PhoneSelections, claimed)
	if selIdx >= 0 {
		sel := cart.PhoneSelections[selIdx]
		phoneID, _ := snowflake.ParseString(sel.PhoneID)
		phone := cat.phones[phoneID]

		group.PhoneID = &phone.ID
		catalogPrice := phone.Price
		group.Entries = append(group.Entries, domain.CodeEntry{
			Kind:        domain.EntryKindPhone,
			Code:        phone.Code,
			Description: phone.DisplayName(),
			Value:       &catalogPrice,
		})

		if sel.IsInstallment {
			if err := s.appendInstallmentEntries(ctx, &group, sub, sel, cat); err != nil {
				return domain.ContractCodeGroup{}, err
			}
		}

		for _, subsidy := range cat.subsidies {
			if subsidy.SubscriptionID == sub.ID && subsidy.ForPhone() && *subsidy.PhoneID == phoneID {
				group.Entries = append(group.Entries, domain.CodeEntry{
					Kind:        domain.EntryKindSubsidy,
					Code:        subsidy.Code,
					Description: subsidy.Description,
				})
			}
		}

		if discountGiven := phone.Price - sel.DiscountedPrice; discountGiven > 0 {
			discountCode, ok := cat.codes[sub.OperatorID][contractcodedomain.CodeTypeSubscriptionDiscount]
			if !ok {
				return domain.ContractCodeGroup{}, &domain.RequiredCodeError{
					OperatorID: sub.OperatorID,
					CodeType:   string(contractcodedomain.CodeTypeSubscriptionDiscount),
				}
			}
			group.Entries = append(group.Entries, domain.CodeEntry{
				Kind:        domain.EntryKindDiscount,
				Code:        discountCode.Code,
				Description: discountCode.Description,
				Value:       &discountGiven,
			})
		}
	}

	return group, nil
}

// appendInstallmentEntries handles the hardware installment chain: the
// installment code keyed by the exact discounted price, the mandatory
// increased-fee code valued at that price, and the optional hardware
// flag. Installment billing cannot proceed without the first two, so
// both misses are hard errors.
func (s *Service) appendInstallmentEntries(ctx context.Context, group *domain.ContractCodeGroup, sub subscriptiondomain.Subscription, sel domain.PhoneSelection, cat *catalog) error {
	installment, err := s.codes.FindInstallmentCode(ctx, s.db, sub.OperatorID, sel.DiscountedPrice)
	if err != nil {
		return err
	}
	if installment == nil {
		return &domain.RequiredCodeError{OperatorID: sub.OperatorID, CodeType: "installment"}
	}
	group.Entries = append(group.Entries, domain.CodeEntry{
		Kind:        domain.EntryKindInstallment,
		Code:        installment.Code,
		Description: installment.Description,
	})

	increasedFee, ok := cat.codes[sub.OperatorID][contractcodedomain.CodeTypeIncreasedFee]
	if !ok {
		return &domain.RequiredCodeError{
			OperatorID: sub.OperatorID,
			CodeType:   string(contractcodedomain.CodeTypeIncreasedFee),
		}
	}
	discountedPrice := sel.DiscountedPrice
	group.Entries = append(group.Entries, domain.CodeEntry{
		Kind:        domain.EntryKindIncreasedFee,
		Code:        increasedFee.Code,
		Description: increasedFee.Description,
		Value:       &discountedPrice,
	})

	if flag, ok := cat.codes[sub.OperatorID][contractcodedomain.CodeTypeHardwareInstallment]; ok {
		group.Entries = append(group.Entries, domain.CodeEntry{
			Kind:        domain.EntryKindHardwareFlag,
			Code:        flag.Code,
			Description: flag.Description,
		})
	}
	return nil
}

// claimSelection finds the first unclaimed phone selection naming the
// subscription and marks it consumed.
func claimSelection(subscriptionID string, selections []domain.PhoneSelection, claimed []bool) int {
	for i, sel := range selections {
		if claimed[i] {
			continue
		}
		if sel.SubscriptionID == subscriptionID {
			claimed[i] = true
			return i
		}
	}
	return -1
}

func parseID(raw, kind string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, &domain.NotFoundError{Kind: kind, ID: raw}
	}
	return id, nil
}

func cartKind(cart domain.Cart) string {
	switch {
	case cart.BroadbandID != nil:
		return domain.TargetKindBroadband
	case cart.TVPackageID != nil:
		return domain.TargetKindTVPackage
	default:
		return domain.TargetKindSubscription
	}
}

func failureReason(err error) string {
	switch {
	case err == domain.ErrEmptyCart:
		return "empty_cart"
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsRequiredCodeMissing(err):
		return "required_code_missing"
	default:
		return "internal"
	}
}
