package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/ikkim/clientbook-backend/internal/app/model"
	"github.com/ikkim/clientbook-backend/internal/app/repository"
	"github.com/ikkim/clientbook-backend/internal/spreadsheet"
	"github.com/ikkim/clientbook-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrUnsupportedFileType = errors.New("file must be an Excel workbook (.xlsx, .xlsm, .xltx, .xltm)")
	ErrInvalidWorkbook     = errors.New("file could not be read as an Excel workbook")
)

var workbookExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

// ImportStats counts the outcome of one upload.
type ImportStats struct {
	ClientsCreated    int      `json:"clients_created"`
	ClientsUpdated    int      `json:"clients_updated"`
	BenefitsCreated   int      `json:"benefits_created"`
	BenefitsUpdated   int      `json:"benefits_updated"`
	CommercialCreated int      `json:"commercial_created"`
	CommercialUpdated int      `json:"commercial_updated"`
	Errors            []string `json:"errors"`
}

type ImportResult struct {
	Stats ImportStats
	// ErrorsFile holds the failed rows, nil when every row imported.
	ErrorsFile     []byte
	ErrorsFilename string
}

type ImportService interface {
	Import(ctx context.Context, filename string, r io.Reader) (*ImportResult, error)
}

type importService struct {
	db             *gorm.DB
	clientRepo     repository.ClientRepository
	benefitRepo    repository.BenefitRepository
	commercialRepo repository.CommercialRepository
	notifier       Notifier
	now            func() time.Time
}

func NewImportService(
	db *gorm.DB,
	clientRepo repository.ClientRepository,
	benefitRepo repository.BenefitRepository,
	commercialRepo repository.CommercialRepository,
	notifier Notifier,
) ImportService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &importService{
		db:             db,
		clientRepo:     clientRepo,
		benefitRepo:    benefitRepo,
		commercialRepo: commercialRepo,
		notifier:       notifier,
		now:            time.Now,
	}
}

// IsWorkbookFilename reports whether name carries an accepted extension.
func IsWorkbookFilename(name string) bool {
	return workbookExtensions[strings.ToLower(filepath.Ext(name))]
}

// rowOutcome says what a successful row did.
type rowOutcome int

const (
	rowSkipped rowOutcome = iota
	rowCreated
	rowUpdated
)

// rowHandler reconciles one decoded row inside its own savepoint.
type rowHandler func(tx *gorm.DB, rec spreadsheet.Record, taxID string) (rowOutcome, error)

type sheetImport struct {
	name    string
	spec    spreadsheet.SheetSpec
	handle  rowHandler
	created *int
	updated *int
}

func (s *importService) Import(ctx context.Context, filename string, r io.Reader) (*ImportResult, error) {
	if !IsWorkbookFilename(filename) {
		return nil, ErrUnsupportedFileType
	}

	book, err := spreadsheet.Open(r)
	if err != nil {
		logger.Warn("Uploaded workbook could not be read", map[string]interface{}{
			"filename": filename,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}

	logger.Info("Importing workbook", map[string]interface{}{
		"filename": filename,
		"sheets":   book.SheetNames(),
	})

	result := &ImportResult{Stats: ImportStats{Errors: []string{}}}
	stats := &result.Stats
	sheets := []sheetImport{
		{name: SheetClients, spec: clientMapping.Spec(), handle: s.importClientRow, created: &stats.ClientsCreated, updated: &stats.ClientsUpdated},
		{name: SheetBenefits, spec: benefitMapping.Spec(), handle: s.importBenefitRow, created: &stats.BenefitsCreated, updated: &stats.BenefitsUpdated},
		{name: SheetCommercial, spec: commercialMapping.Spec(), handle: s.importCommercialRow, created: &stats.CommercialCreated, updated: &stats.CommercialUpdated},
	}

	var failed []spreadsheet.FailedSheet
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, si := range sheets {
			if fs := s.importSheet(tx, book, si, stats); fs != nil {
				failed = append(failed, *fs)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Import transaction failed", err, map[string]interface{}{
			"filename": filename,
		})
		return nil, err
	}

	if len(failed) > 0 {
		data, err := buildErrorsWorkbook(failed)
		if err != nil {
			logger.Error("Failed to build import errors workbook", err)
			return nil, err
		}
		result.ErrorsFile = data
		result.ErrorsFilename = fmt.Sprintf("Import_Errors_%s.xlsx", s.now().Format("20060102_150405"))
	}

	if stats.ClientsCreated+stats.ClientsUpdated > 0 {
		s.notifier.Notify(EntityClient, ActionImported)
	}
	if stats.BenefitsCreated+stats.BenefitsUpdated > 0 {
		s.notifier.Notify(EntityBenefit, ActionImported)
	}
	if stats.CommercialCreated+stats.CommercialUpdated > 0 {
		s.notifier.Notify(EntityCommercial, ActionImported)
	}

	logger.Info("Workbook imported", map[string]interface{}{
		"filename":           filename,
		"clients_created":    stats.ClientsCreated,
		"clients_updated":    stats.ClientsUpdated,
		"benefits_created":   stats.BenefitsCreated,
		"benefits_updated":   stats.BenefitsUpdated,
		"commercial_created": stats.CommercialCreated,
		"commercial_updated": stats.CommercialUpdated,
		"error_count":        len(stats.Errors),
	})
	return result, nil
}

// importSheet processes the rows of one sheet in order. A missing sheet is
// skipped; a row failure is recorded and rolls back only that row.
func (s *importService) importSheet(tx *gorm.DB, book *spreadsheet.Book, si sheetImport, stats *ImportStats) *spreadsheet.FailedSheet {
	sheet, ok := book.Sheet(si.name)
	if !ok {
		logger.Debug("Sheet not present in upload", map[string]interface{}{
			"sheet": si.name,
		})
		return nil
	}
	if !sheet.LocateHeader(keyHeader) {
		stats.Errors = append(stats.Errors, fmt.Sprintf("%s: no %q column in the first two rows", si.name, keyHeader))
		return nil
	}

	headers := sheet.Headers()
	layout := spreadsheet.Plan(si.spec, spreadsheet.CountsFromHeaders(si.spec, headers))
	binding := spreadsheet.Bind(layout, headers)

	failed := &spreadsheet.FailedSheet{Sheet: sheet, Kinds: binding.Kinds()}
	for _, row := range sheet.DataRows() {
		rec := spreadsheet.Decode(binding, row.Cells)
		taxID, _ := rec.Globals[keyField].(string)
		taxID = strings.TrimSpace(taxID)
		if taxID == "" {
			continue
		}

		outcome, err := runRow(tx, func(rowTx *gorm.DB) (rowOutcome, error) {
			return si.handle(rowTx, rec, taxID)
		})
		if err != nil {
			logger.Warn("Import row failed", map[string]interface{}{
				"sheet":  si.name,
				"row":    row.Number,
				"tax_id": taxID,
				"error":  err.Error(),
			})
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s row %d: %s", si.name, row.Number, err.Error()))
			failed.Failures = append(failed.Failures, spreadsheet.RowFailure{Row: row, Message: err.Error()})
			continue
		}

		switch outcome {
		case rowCreated:
			*si.created++
		case rowUpdated:
			*si.updated++
		}
	}

	if len(failed.Failures) == 0 {
		return nil
	}
	return failed
}

// runRow executes fn in a savepoint. Errors and panics roll the savepoint
// back and are returned as the row's error.
func runRow(tx *gorm.DB, fn func(*gorm.DB) (rowOutcome, error)) (outcome rowOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome, err = rowSkipped, fmt.Errorf("unexpected error: %v", r)
		}
	}()

	err = tx.Transaction(func(rowTx *gorm.DB) error {
		var fnErr error
		outcome, fnErr = fn(rowTx)
		return fnErr
	})
	if err != nil {
		return rowSkipped, err
	}
	return outcome, nil
}

func (s *importService) importClientRow(tx *gorm.DB, rec spreadsheet.Record, taxID string) (rowOutcome, error) {
	clients := s.clientRepo.WithTx(tx)

	client, err := clients.FindByTaxID(taxID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		client = &model.Client{TaxID: taxID}
		applyClientRecord(client, rec)
		client.TaxID = taxID
		if client.Status == "" {
			client.Status = model.DefaultClientStatus
		}
		if err := clients.Create(client); err != nil {
			return rowSkipped, err
		}
		return rowCreated, nil
	case err != nil:
		return rowSkipped, err
	}

	applyClientRecord(client, rec)
	client.TaxID = taxID
	if err := clients.Update(client); err != nil {
		return rowSkipped, err
	}
	return rowUpdated, nil
}

func (s *importService) requireClient(tx *gorm.DB, taxID string) error {
	exists, err := s.clientRepo.WithTx(tx).ExistsByTaxID(taxID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("Client with tax_id %s not found", taxID)
	}
	return nil
}

func (s *importService) importBenefitRow(tx *gorm.DB, rec spreadsheet.Record, taxID string) (rowOutcome, error) {
	if err := s.requireClient(tx, taxID); err != nil {
		return rowSkipped, err
	}
	benefits := s.benefitRepo.WithTx(tx)

	benefit, err := benefits.FindFirstByTaxID(taxID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		benefit = &model.EmployeeBenefit{}
		applyBenefitRecord(benefit, rec)
		benefit.TaxID = taxID
		if err := benefits.Create(benefit); err != nil {
			return rowSkipped, err
		}
		return rowCreated, nil
	case err != nil:
		return rowSkipped, err
	}

	applyBenefitRecord(benefit, rec)
	benefit.TaxID = taxID
	benefit.Client = nil
	if err := benefits.Update(benefit); err != nil {
		return rowSkipped, err
	}
	if err := benefits.ReplacePlans(benefit); err != nil {
		return rowSkipped, err
	}
	return rowUpdated, nil
}

func (s *importService) importCommercialRow(tx *gorm.DB, rec spreadsheet.Record, taxID string) (rowOutcome, error) {
	if err := s.requireClient(tx, taxID); err != nil {
		return rowSkipped, err
	}
	records := s.commercialRepo.WithTx(tx)

	record, err := records.FindFirstByTaxID(taxID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		record = &model.CommercialInsurance{}
		applyCommercialRecord(record, rec)
		record.TaxID = taxID
		if err := records.Create(record); err != nil {
			return rowSkipped, err
		}
		return rowCreated, nil
	case err != nil:
		return rowSkipped, err
	}

	applyCommercialRecord(record, rec)
	record.TaxID = taxID
	record.Client = nil
	if err := records.Update(record); err != nil {
		return rowSkipped, err
	}
	if err := records.ReplacePlans(record); err != nil {
		return rowSkipped, err
	}
	return rowUpdated, nil
}

func buildErrorsWorkbook(failed []spreadsheet.FailedSheet) ([]byte, error) {
	w := spreadsheet.NewWriter()
	defer w.Close()
	for _, fs := range failed {
		if err := w.AddErrorSheet(fs); err != nil {
			return nil, err
		}
	}
	return w.Bytes()
}
