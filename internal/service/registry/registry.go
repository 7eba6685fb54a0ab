package registry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nandozscx/acopiapp/internal/domain/models"
	"github.com/nandozscx/acopiapp/internal/storage"
)

// ErrNotFound indicates the referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidArguments indicates a record payload failed validation.
var ErrInvalidArguments = errors.New("invalid arguments")

// ErrDuplicateName indicates a provider name collision. Provider names act
// as a join key for legacy deliveries, so they stay unique.
var ErrDuplicateName = errors.New("duplicate provider name")

// ProviderInput carries the editable provider fields.
type ProviderInput struct {
	Name       string            `json:"name" binding:"required"`
	Address    string            `json:"address"`
	Phone      string            `json:"phone"`
	UnitPrice  float64           `json:"unitPrice" binding:"required,gt=0"`
	CycleStart models.CycleStart `json:"cycleStart"`
}

// Service mediates all record mutations against the store.
type Service struct {
	store  *storage.Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService constructs the registry service.
func NewService(store *storage.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Providers lists all providers.
func (s *Service) Providers() []models.Provider {
	return s.store.Providers()
}

// ProviderByID looks a provider up by id.
func (s *Service) ProviderByID(id string) (models.Provider, error) {
	for _, p := range s.store.Providers() {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Provider{}, fmt.Errorf("provider %s: %w", id, ErrNotFound)
}

// ProviderByName resolves a provider by case-insensitive name match. Used by
// the AI entry path, where names arrive as free text.
func (s *Service) ProviderByName(name string) (models.Provider, bool) {
	for _, p := range s.store.Providers() {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return models.Provider{}, false
}

// CreateProvider validates and persists a new provider.
func (s *Service) CreateProvider(in ProviderInput) (models.Provider, error) {
	if strings.TrimSpace(in.Name) == "" || in.UnitPrice <= 0 {
		return models.Provider{}, ErrInvalidArguments
	}
	if _, exists := s.ProviderByName(in.Name); exists {
		return models.Provider{}, ErrDuplicateName
	}

	cycle := in.CycleStart
	if cycle == "" {
		cycle = models.CycleStartSunday
	}

	p := models.Provider{
		ID:         s.newID(),
		Name:       strings.TrimSpace(in.Name),
		Address:    in.Address,
		Phone:      in.Phone,
		UnitPrice:  in.UnitPrice,
		CycleStart: cycle,
	}

	providers := append(s.store.Providers(), p)
	if err := s.store.SaveProviders(providers); err != nil {
		return models.Provider{}, err
	}

	s.logger.Info("provider created", zap.String("id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// UpdateProvider replaces a provider's editable fields and refreshes the
// denormalized name on its deliveries.
func (s *Service) UpdateProvider(id string, in ProviderInput) (models.Provider, error) {
	if strings.TrimSpace(in.Name) == "" || in.UnitPrice <= 0 {
		return models.Provider{}, ErrInvalidArguments
	}

	providers := s.store.Providers()
	idx := -1
	for i, p := range providers {
		if p.ID == id {
			idx = i
			continue
		}
		if strings.EqualFold(p.Name, in.Name) {
			return models.Provider{}, ErrDuplicateName
		}
	}
	if idx < 0 {
		return models.Provider{}, fmt.Errorf("provider %s: %w", id, ErrNotFound)
	}

	updated := providers[idx]
	updated.Name = strings.TrimSpace(in.Name)
	updated.Address = in.Address
	updated.Phone = in.Phone
	updated.UnitPrice = in.UnitPrice
	if in.CycleStart != "" {
		updated.CycleStart = in.CycleStart
	}
	providers[idx] = updated

	if err := s.store.SaveProviders(providers); err != nil {
		return models.Provider{}, err
	}

	deliveries := s.store.Deliveries()
	changed := false
	for i, d := range deliveries {
		if d.ProviderID == id && d.Provider != updated.Name {
			deliveries[i].Provider = updated.Name
			changed = true
		}
	}
	if changed {
		if err := s.store.SaveDeliveries(deliveries); err != nil {
			return models.Provider{}, err
		}
	}

	return updated, nil
}

// DeleteProvider removes a provider. Its historical deliveries remain.
func (s *Service) DeleteProvider(id string) error {
	providers := s.store.Providers()
	for i, p := range providers {
		if p.ID == id {
			return s.store.SaveProviders(append(providers[:i], providers[i+1:]...))
		}
	}
	return fmt.Errorf("provider %s: %w", id, ErrNotFound)
}

// Deliveries lists all deliveries.
func (s *Service) Deliveries() []models.Delivery {
	return s.store.Deliveries()
}

// RecordDelivery appends one delivery for a known provider. Deliveries are
// never updated in place.
func (s *Service) RecordDelivery(providerID, date string, quantity float64) (models.Delivery, error) {
	if quantity <= 0 {
		return models.Delivery{}, ErrInvalidArguments
	}
	if _, err := models.ParseDate(date); err != nil {
		return models.Delivery{}, fmt.Errorf("%w: bad date %q", ErrInvalidArguments, date)
	}

	provider, err := s.ProviderByID(providerID)
	if err != nil {
		return models.Delivery{}, err
	}

	d := models.Delivery{
		ID:         s.newID(),
		ProviderID: provider.ID,
		Provider:   provider.Name,
		Date:       date,
		Quantity:   quantity,
	}

	if err := s.store.SaveDeliveries(append(s.store.Deliveries(), d)); err != nil {
		return models.Delivery{}, err
	}

	s.logger.Info("delivery recorded",
		zap.String("provider", provider.Name),
		zap.String("date", date),
		zap.Float64("quantity", quantity))
	return d, nil
}

// DeleteDelivery removes one delivery by id.
func (s *Service) DeleteDelivery(id string) error {
	deliveries := s.store.Deliveries()
	for i, d := range deliveries {
		if d.ID == id {
			return s.store.SaveDeliveries(append(deliveries[:i], deliveries[i+1:]...))
		}
	}
	return fmt.Errorf("delivery %s: %w", id, ErrNotFound)
}

// Production lists all production batches.
func (s *Service) Production() []models.Production {
	return s.store.Production()
}

// RecordProduction appends one production batch.
func (s *Service) RecordProduction(date string, units int, wholeMilkKg, rawLiters, transformationIndex float64) (models.Production, error) {
	if units < 0 || wholeMilkKg < 0 || rawLiters < 0 {
		return models.Production{}, ErrInvalidArguments
	}
	if _, err := models.ParseDate(date); err != nil {
		return models.Production{}, fmt.Errorf("%w: bad date %q", ErrInvalidArguments, date)
	}

	batch := models.Production{
		ID:                  s.newID(),
		Date:                date,
		Units:               units,
		WholeMilkKg:         wholeMilkKg,
		RawMaterialLiters:   rawLiters,
		TransformationIndex: transformationIndex,
	}
	if err := s.store.SaveProduction(append(s.store.Production(), batch)); err != nil {
		return models.Production{}, err
	}
	return batch, nil
}

// DeleteProduction removes one production batch by id.
func (s *Service) DeleteProduction(id string) error {
	batches := s.store.Production()
	for i, b := range batches {
		if b.ID == id {
			return s.store.SaveProduction(append(batches[:i], batches[i+1:]...))
		}
	}
	return fmt.Errorf("production %s: %w", id, ErrNotFound)
}

// Clients lists all clients.
func (s *Service) Clients() []models.Client {
	return s.store.Clients()
}

// CreateClient persists a new client.
func (s *Service) CreateClient(name string) (models.Client, error) {
	if strings.TrimSpace(name) == "" {
		return models.Client{}, ErrInvalidArguments
	}
	c := models.Client{ID: s.newID(), Name: strings.TrimSpace(name)}
	if err := s.store.SaveClients(append(s.store.Clients(), c)); err != nil {
		return models.Client{}, err
	}
	return c, nil
}

// Sales lists all sales.
func (s *Service) Sales() []models.Sale {
	return s.store.Sales()
}

// RecordSale appends one sale for a known client.
func (s *Service) RecordSale(clientID, date string, total float64) (models.Sale, error) {
	if total <= 0 {
		return models.Sale{}, ErrInvalidArguments
	}
	if _, err := models.ParseDate(date); err != nil {
		return models.Sale{}, fmt.Errorf("%w: bad date %q", ErrInvalidArguments, date)
	}

	found := false
	for _, c := range s.store.Clients() {
		if c.ID == clientID {
			found = true
			break
		}
	}
	if !found {
		return models.Sale{}, fmt.Errorf("client %s: %w", clientID, ErrNotFound)
	}

	sale := models.Sale{ID: s.newID(), ClientID: clientID, Date: date, Total: total, Payments: []models.Payment{}}
	if err := s.store.SaveSales(append(s.store.Sales(), sale)); err != nil {
		return models.Sale{}, err
	}
	return sale, nil
}

// AddPayment records one payment against an existing sale.
func (s *Service) AddPayment(saleID string, amount float64) (models.Sale, error) {
	if amount <= 0 {
		return models.Sale{}, ErrInvalidArguments
	}

	sales := s.store.Sales()
	for i, sale := range sales {
		if sale.ID != saleID {
			continue
		}
		sales[i].Payments = append(sales[i].Payments, models.Payment{Amount: amount})
		if err := s.store.SaveSales(sales); err != nil {
			return models.Sale{}, err
		}
		return sales[i], nil
	}
	return models.Sale{}, fmt.Errorf("sale %s: %w", saleID, ErrNotFound)
}

// DeleteSale removes one sale by id.
func (s *Service) DeleteSale(id string) error {
	sales := s.store.Sales()
	for i, sale := range sales {
		if sale.ID == id {
			return s.store.SaveSales(append(sales[:i], sales[i+1:]...))
		}
	}
	return fmt.Errorf("sale %s: %w", id, ErrNotFound)
}

// Replenishments lists all whole-milk replenishments.
func (s *Service) Replenishments() []models.Replenishment {
	return s.store.Replenishments()
}

// AddReplenishment records sacks added to whole-milk stock.
func (s *Service) AddReplenishment(date string, sacks float64) (models.Replenishment, error) {
	if sacks <= 0 {
		return models.Replenishment{}, ErrInvalidArguments
	}
	if date == "" {
		date = models.FormatDate(s.now())
	} else if _, err := models.ParseDate(date); err != nil {
		return models.Replenishment{}, fmt.Errorf("%w: bad date %q", ErrInvalidArguments, date)
	}

	rep := models.Replenishment{ID: s.newID(), Date: date, Sacks: sacks}
	if err := s.store.SaveReplenishments(append(s.store.Replenishments(), rep)); err != nil {
		return models.Replenishment{}, err
	}
	return rep, nil
}
