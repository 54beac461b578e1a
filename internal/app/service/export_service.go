package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/clientbook-backend/internal/app/model"
	"github.com/ikkim/clientbook-backend/internal/app/repository"
	"github.com/ikkim/clientbook-backend/internal/spreadsheet"
	"github.com/ikkim/clientbook-backend/pkg/logger"
	"gorm.io/gorm"
)

// ExportResult is a generated workbook.
type ExportResult struct {
	Data     []byte
	Filename string
}

type ExportService interface {
	Export(ctx context.Context) (*ExportResult, error)
}

type exportService struct {
	db             *gorm.DB
	clientRepo     repository.ClientRepository
	benefitRepo    repository.BenefitRepository
	commercialRepo repository.CommercialRepository
	now            func() time.Time
}

func NewExportService(
	db *gorm.DB,
	clientRepo repository.ClientRepository,
	benefitRepo repository.BenefitRepository,
	commercialRepo repository.CommercialRepository,
) ExportService {
	return &exportService{
		db:             db,
		clientRepo:     clientRepo,
		benefitRepo:    benefitRepo,
		commercialRepo: commercialRepo,
		now:            time.Now,
	}
}

// Export writes every client, benefit and commercial record into one
// workbook. Each repeatable type gets as many column groups as the largest
// plan count found for it.
func (s *exportService) Export(ctx context.Context) (*ExportResult, error) {
	conn := s.db.WithContext(ctx)

	clients, err := s.clientRepo.WithTx(conn).FindAll(repository.ClientFilter{})
	if err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}
	benefits, err := s.benefitRepo.WithTx(conn).FindAll(repository.BenefitFilter{})
	if err != nil {
		return nil, fmt.Errorf("load benefits: %w", err)
	}
	commercial, err := s.commercialRepo.WithTx(conn).FindAll(repository.CommercialFilter{})
	if err != nil {
		return nil, fmt.Errorf("load commercial records: %w", err)
	}

	w := spreadsheet.NewWriter()
	defer w.Close()

	clientLayout := spreadsheet.Plan(clientMapping.Spec(), nil)
	clientRows := make([][]interface{}, 0, len(clients))
	for i := range clients {
		clientRows = append(clientRows, spreadsheet.Encode(clientLayout, clientRecord(&clients[i])))
	}
	if err := w.AddSheet(clientLayout, clientRows); err != nil {
		return nil, fmt.Errorf("write %s sheet: %w", SheetClients, err)
	}

	benefitCounts := make(map[string]int)
	for i := range benefits {
		for _, ct := range model.FilterCoverages(model.BenefitCoverages, model.Repeatable) {
			if n := len(benefits[i].PlansOf(ct.Prefix)); n > benefitCounts[ct.Prefix] {
				benefitCounts[ct.Prefix] = n
			}
		}
	}
	benefitLayout := spreadsheet.Plan(benefitMapping.Spec(), benefitCounts)
	benefitRows := make([][]interface{}, 0, len(benefits))
	for i := range benefits {
		benefitRows = append(benefitRows, spreadsheet.Encode(benefitLayout, benefitRecord(&benefits[i])))
	}
	if err := w.AddSheet(benefitLayout, benefitRows); err != nil {
		return nil, fmt.Errorf("write %s sheet: %w", SheetBenefits, err)
	}

	commercialCounts := make(map[string]int)
	for i := range commercial {
		for _, ct := range model.FilterCoverages(model.CommercialCoverages, model.Repeatable) {
			if n := len(commercial[i].PlansOf(ct.Prefix)); n > commercialCounts[ct.Prefix] {
				commercialCounts[ct.Prefix] = n
			}
		}
	}
	commercialLayout := spreadsheet.Plan(commercialMapping.Spec(), commercialCounts)
	commercialRows := make([][]interface{}, 0, len(commercial))
	for i := range commercial {
		commercialRows = append(commercialRows, spreadsheet.Encode(commercialLayout, commercialRecord(&commercial[i])))
	}
	if err := w.AddSheet(commercialLayout, commercialRows); err != nil {
		return nil, fmt.Errorf("write %s sheet: %w", SheetCommercial, err)
	}

	data, err := w.Bytes()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	logger.Info("Workbook exported", map[string]interface{}{
		"clients":    len(clients),
		"benefits":   len(benefits),
		"commercial": len(commercial),
		"bytes":      len(data),
	})

	return &ExportResult{
		Data:     data,
		Filename: fmt.Sprintf("Client_Data_Export_%s.xlsx", s.now().Format("20060102_150405")),
	}, nil
}
