package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
	"github.com/teleretail/salespoint/internal/chainmetrics"
	"github.com/teleretail/salespoint/internal/config"
	contractgendomain "github.com/teleretail/salespoint/internal/contractgen/domain"
	"github.com/teleretail/salespoint/internal/observability/metrics"
	"github.com/teleretail/salespoint/internal/order/domain"
	"github.com/teleretail/salespoint/internal/providers/pdf"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	cfg     config.Config
	metrics *metrics.Metrics

	codes contractgendomain.Service
	pdf   pdf.Provider
}

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Cfg     config.Config
	Metrics *metrics.Metrics

	Codes contractgendomain.Service
	PDF   pdf.Provider
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("order.service"),
		genID:   p.GenID,
		cfg:     p.Cfg,
		metrics: p.Metrics,

		codes: p.Codes,
		pdf:   p.PDF,
	}
}

// Create implements domain.Service. Code generation runs first and is
// all-or-nothing; only a fully generated code set is persisted.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Order, error) {
	seller := strings.TrimSpace(req.SellerName)
	if seller == "" {
		return nil, domain.ErrSellerMissing
	}

	groups, err := s.codes.Generate(ctx, req.Cart)
	if err != nil {
		return nil, err
	}

	rawGroups, err := json.Marshal(groups)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:           s.genID.Generate(),
		SellerName:   seller,
		CustomerRef:  strings.TrimSpace(req.CustomerRef),
		Status:       domain.StatusRegistered,
		SubsidyCodes: collectSubsidyCodes(groups),
		CodeGroups:   rawGroups,
	}

	lines := make([]domain.OrderLine, 0, len(groups))
	for _, group := range groups {
		line := domain.OrderLine{
			ID:         s.genID.Generate(),
			OrderID:    order.ID,
			TargetKind: group.TargetKind,
			TargetID:   group.TargetID,
			TargetName: group.TargetName,
			PhoneID:    group.PhoneID,
		}
		for _, entry := range group.Entries {
			if entry.Kind == contractgendomain.EntryKindPhone {
				line.PhonePrice = entry.Value
			}
		}
		lines = append(lines, line)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	s.metrics.RecordOrderCreated(ctx)
	chainmetrics.RecordOrderRegistered()
	s.log.Info("order registered",
		zap.String("order_id", order.ID.String()),
		zap.Int("lines", len(lines)),
	)
	return order, nil
}

// GetByID implements domain.Service.
func (s *Service) GetByID(ctx context.Context, rawID string) (*domain.Order, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	var order domain.Order
	err = s.db.WithContext(ctx).Preload("Lines").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// CodeSheetPDF implements domain.Service.
func (s *Service) CodeSheetPDF(ctx context.Context, rawID string) ([]byte, error) {
	order, err := s.GetByID(ctx, rawID)
	if err != nil {
		return nil, err
	}

	var groups []contractgendomain.ContractCodeGroup
	if err := json.Unmarshal(order.CodeGroups, &groups); err != nil {
		return nil, err
	}

	data := pdf.CodeSheetData{
		OrderNumber: order.ID.String(),
		StoreName:   s.storeName(),
		SellerName:  order.SellerName,
		CreatedAt:   order.CreatedAt.UTC().Format("2006-01-02 15:04"),
	}
	for _, group := range groups {
		sheet := pdf.CodeSheetGroup{Title: group.TargetName}
		for _, entry := range group.Entries {
			value := ""
			if entry.Value != nil {
				value = fmt.Sprintf("%d", *entry.Value)
			}
			sheet.Entries = append(sheet.Entries, pdf.CodeSheetEntry{
				Code:        entry.Code,
				Description: entry.Description,
				Value:       value,
			})
		}
		data.Groups = append(data.Groups, sheet)
	}

	reader, err := s.pdf.GenerateCodeSheet(ctx, data)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(reader)
}

func (s *Service) storeName() string {
	if name := strings.TrimSpace(s.cfg.ChainMetrics.StoreName); name != "" {
		return name
	}
	return s.cfg.AppName
}

func collectSubsidyCodes(groups []contractgendomain.ContractCodeGroup) pq.StringArray {
	var codes pq.StringArray
	for _, group := range groups {
		for _, entry := range group.Entries {
			if entry.Kind == contractgendomain.EntryKindSubsidy {
				codes = append(codes, entry.Code)
			}
		}
	}
	return codes
}

func parseID(raw string) (snowflake.ID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, domain.ErrInvalidID
	}
	id, err := snowflake.ParseString(trimmed)
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
