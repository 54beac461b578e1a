package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/clientbook-backend/internal/app/model"
	"github.com/ikkim/clientbook-backend/internal/app/repository"
	"github.com/ikkim/clientbook-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrDuplicateTaxID = errors.New("a client with this tax ID already exists")
	ErrTaxIDRequired  = errors.New("tax_id is required")
)

// ClientInput is a create or patch body. Only keys present in the JSON are applied.
type ClientInput struct {
	TaxID         model.Optional[string]       `json:"tax_id"`
	ClientName    model.Optional[string]       `json:"client_name"`
	ContactPerson model.Optional[string]       `json:"contact_person"`
	Email         model.Optional[string]       `json:"email"`
	PhoneNumber   model.Optional[string]       `json:"phone_number"`
	AddressLine1  model.Optional[string]       `json:"address_line_1"`
	AddressLine2  model.Optional[string]       `json:"address_line_2"`
	City          model.Optional[string]       `json:"city"`
	State         model.Optional[string]       `json:"state"`
	ZipCode       model.Optional[string]       `json:"zip_code"`
	Status        model.Optional[string]       `json:"status"`
	GrossRevenue  model.Optional[model.Amount] `json:"gross_revenue"`
	TotalEES      model.Optional[int]          `json:"total_ees"`
}

func (in ClientInput) apply(c *model.Client) {
	in.ClientName.Apply(&c.ClientName)
	in.ContactPerson.Apply(&c.ContactPerson)
	in.Email.Apply(&c.Email)
	in.PhoneNumber.Apply(&c.PhoneNumber)
	in.AddressLine1.Apply(&c.AddressLine1)
	in.AddressLine2.Apply(&c.AddressLine2)
	in.City.Apply(&c.City)
	in.State.Apply(&c.State)
	in.ZipCode.Apply(&c.ZipCode)
	in.Status.ApplyValue(&c.Status)
	if in.GrossRevenue.Present {
		c.GrossRevenue = amountOf(in.GrossRevenue.Value)
	}
	in.TotalEES.Apply(&c.TotalEES)
}

type ClientService interface {
	ListClients(filter repository.ClientFilter) ([]model.Client, error)
	GetClient(id uint) (*model.Client, error)
	CreateClient(input ClientInput) (*model.Client, error)
	UpdateClient(id uint, input ClientInput) (*model.Client, error)
	DeleteClient(id uint) error
	CloneClient(id uint, newTaxID string) (*model.Client, error)
}

type clientService struct {
	db         *gorm.DB
	clientRepo repository.ClientRepository
	notifier   Notifier
}

func NewClientService(db *gorm.DB, clientRepo repository.ClientRepository, notifier Notifier) ClientService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &clientService{
		db:         db,
		clientRepo: clientRepo,
		notifier:   notifier,
	}
}

func (s *clientService) ListClients(filter repository.ClientFilter) ([]model.Client, error) {
	clients, err := s.clientRepo.FindAll(filter)
	if err != nil {
		logger.Error("Failed to list clients", err)
		return nil, err
	}
	logger.Debug("Clients fetched", map[string]interface{}{
		"count":  len(clients),
		"search": filter.Search,
	})
	return clients, nil
}

func (s *clientService) GetClient(id uint) (*model.Client, error) {
	client, err := s.clientRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Client not found", map[string]interface{}{
				"client_id": id,
			})
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

func (s *clientService) CreateClient(input ClientInput) (*model.Client, error) {
	taxID := strings.TrimSpace(input.TaxID.Get(""))
	if taxID == "" {
		return nil, ErrTaxIDRequired
	}

	exists, err := s.clientRepo.ExistsByTaxID(taxID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateTaxID
	}

	client := &model.Client{TaxID: taxID, Status: model.DefaultClientStatus}
	input.apply(client)
	if strings.TrimSpace(client.Status) == "" {
		client.Status = model.DefaultClientStatus
	}

	if err := s.clientRepo.Create(client); err != nil {
		return nil, err
	}

	logger.Info("Client created", map[string]interface{}{
		"client_id": client.ID,
		"tax_id":    client.TaxID,
	})
	s.notifier.Notify(EntityClient, ActionCreated)
	return client, nil
}

// UpdateClient patches a client. A tax ID change is carried over to the
// client's benefit and commercial records in the same transaction.
func (s *clientService) UpdateClient(id uint, input ClientInput) (*model.Client, error) {
	var updated *model.Client
	err := s.db.Transaction(func(tx *gorm.DB) error {
		clients := s.clientRepo.WithTx(tx)

		client, err := clients.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return err
		}

		oldTaxID := client.TaxID
		if input.TaxID.Present {
			newTaxID := strings.TrimSpace(input.TaxID.Get(""))
			if newTaxID == "" {
				return ErrTaxIDRequired
			}
			if newTaxID != oldTaxID {
				exists, err := clients.ExistsByTaxID(newTaxID)
				if err != nil {
					return err
				}
				if exists {
					return ErrDuplicateTaxID
				}
				client.TaxID = newTaxID
			}
		}

		input.apply(client)
		if err := clients.Update(client); err != nil {
			return err
		}
		if client.TaxID != oldTaxID {
			if err := clients.RenameTaxID(oldTaxID, client.TaxID); err != nil {
				return err
			}
		}
		updated = client
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Client updated", map[string]interface{}{
		"client_id": id,
	})
	s.notifier.Notify(EntityClient, ActionUpdated)
	return updated, nil
}

func (s *clientService) DeleteClient(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		clients := s.clientRepo.WithTx(tx)
		client, err := clients.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return err
		}
		return clients.DeleteCascade(client)
	})
	if err != nil {
		return err
	}

	logger.Info("Client deleted", map[string]interface{}{
		"client_id": id,
	})
	s.notifier.Notify(EntityClient, ActionDeleted)
	return nil
}

// CloneClient copies a client's own fields under a new tax ID, which
// defaults to "<tax_id>-COPY". Benefit and commercial records are not copied.
func (s *clientService) CloneClient(id uint, newTaxID string) (*model.Client, error) {
	source, err := s.GetClient(id)
	if err != nil {
		return nil, err
	}

	newTaxID = strings.TrimSpace(newTaxID)
	if newTaxID == "" {
		newTaxID = source.TaxID + "-COPY"
	}

	exists, err := s.clientRepo.ExistsByTaxID(newTaxID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTaxID, newTaxID)
	}

	clone := *source
	clone.ID = 0
	clone.TaxID = newTaxID
	clone.CreatedAt, clone.UpdatedAt = time.Time{}, time.Time{}
	if err := s.clientRepo.Create(&clone); err != nil {
		return nil, err
	}

	logger.Info("Client cloned", map[string]interface{}{
		"source_id": id,
		"client_id": clone.ID,
		"tax_id":    clone.TaxID,
	})
	s.notifier.Notify(EntityClient, ActionCloned)
	return &clone, nil
}
