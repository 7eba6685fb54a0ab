package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/nandozscx/acopiapp/internal/domain/models"
)

// Slot names. Each slot is one JSON-encoded array persisted whole; there are
// no partial or field-level writes.
const (
	SlotProviders      = "providers"
	SlotDeliveries     = "deliveries"
	SlotProduction     = "production"
	SlotSales          = "sales"
	SlotClients        = "clients"
	SlotReplenishments = "replenishments"
)

// SlotNames lists every slot the store owns, in backup-document order.
var SlotNames = []string{
	SlotProviders,
	SlotDeliveries,
	SlotProduction,
	SlotSales,
	SlotClients,
	SlotReplenishments,
}

// ErrInvalidBackup indicates a restore document that is missing required
// slots or holds non-array values. Restore never partially applies.
var ErrInvalidBackup = errors.New("invalid backup document")

// requiredFields is the per-slot structural shape check applied after parse.
// A slot containing any record that fails the check is discarded whole.
var requiredFields = map[string][]string{
	SlotProviders:      {"name", "unitPrice"},
	SlotDeliveries:     {"provider", "date", "quantity"},
	SlotProduction:     {"date", "units", "wholeMilkKg"},
	SlotSales:          {"clientId", "date", "total"},
	SlotClients:        {"name"},
	SlotReplenishments: {"sacks"},
}

// Store persists the six collections as JSON slot files under a data
// directory. Reads load the whole slot, writes replace it; a single process
// owns the directory so last-writer-wins is acceptable.
type Store struct {
	mu     sync.RWMutex
	dir    string
	logger *zap.Logger

	// legacySaturday is the provider name whose billing cycle starts on
	// Saturday when a persisted record predates the cycleStart field.
	legacySaturday string

	subMu sync.RWMutex
	subs  []func(slot string)
}

// Open prepares the data directory and returns a store over it.
func Open(dir, legacySaturdayProvider string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger, legacySaturday: legacySaturdayProvider}, nil
}

// Subscribe registers a callback invoked after every successful slot write
// with the slot's name. Callbacks run synchronously on the writing goroutine.
func (s *Store) Subscribe(fn func(slot string)) {
	if fn == nil {
		return
	}
	s.subMu.Lock()
	s.subs = append(s.subs, fn)
	s.subMu.Unlock()
}

func (s *Store) notify(slot string) {
	s.subMu.RLock()
	subs := s.subs
	s.subMu.RUnlock()
	for _, fn := range subs {
		fn(slot)
	}
}

// Providers returns the provider slot with cycle-start normalization applied
// to records persisted before the field existed.
func (s *Store) Providers() []models.Provider {
	var out []models.Provider
	s.loadSlot(SlotProviders, &out)
	for i := range out {
		if out[i].CycleStart != "" {
			continue
		}
		if s.legacySaturday != "" && strings.EqualFold(out[i].Name, s.legacySaturday) {
			out[i].CycleStart = models.CycleStartSaturday
		} else {
			out[i].CycleStart = models.CycleStartSunday
		}
	}
	return out
}

// SaveProviders replaces the provider slot.
func (s *Store) SaveProviders(providers []models.Provider) error {
	return s.saveSlot(SlotProviders, providers)
}

// Deliveries returns the delivery slot.
func (s *Store) Deliveries() []models.Delivery {
	var out []models.Delivery
	s.loadSlot(SlotDeliveries, &out)
	return out
}

// SaveDeliveries replaces the delivery slot.
func (s *Store) SaveDeliveries(deliveries []models.Delivery) error {
	return s.saveSlot(SlotDeliveries, deliveries)
}

// Production returns the production slot.
func (s *Store) Production() []models.Production {
	var out []models.Production
	s.loadSlot(SlotProduction, &out)
	return out
}

// SaveProduction replaces the production slot.
func (s *Store) SaveProduction(batches []models.Production) error {
	return s.saveSlot(SlotProduction, batches)
}

// Sales returns the sales slot.
func (s *Store) Sales() []models.Sale {
	var out []models.Sale
	s.loadSlot(SlotSales, &out)
	return out
}

// SaveSales replaces the sales slot.
func (s *Store) SaveSales(sales []models.Sale) error {
	return s.saveSlot(SlotSales, sales)
}

// Clients returns the client slot.
func (s *Store) Clients() []models.Client {
	var out []models.Client
	s.loadSlot(SlotClients, &out)
	return out
}

// SaveClients replaces the client slot.
func (s *Store) SaveClients(clients []models.Client) error {
	return s.saveSlot(SlotClients, clients)
}

// Replenishments returns the whole-milk replenishment slot.
func (s *Store) Replenishments() []models.Replenishment {
	var out []models.Replenishment
	s.loadSlot(SlotReplenishments, &out)
	return out
}

// SaveReplenishments replaces the replenishment slot.
func (s *Store) SaveReplenishments(reps []models.Replenishment) error {
	return s.saveSlot(SlotReplenishments, reps)
}

// Snapshot returns the backup document: every slot name mapped to its raw
// array value at snapshot time.
func (s *Store) Snapshot() map[string]json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := make(map[string]json.RawMessage, len(SlotNames))
	for _, slot := range SlotNames {
		doc[slot] = s.readRaw(slot)
	}
	return doc
}

// Restore replaces every slot from a backup document. All slot keys must be
// present and hold JSON arrays, or nothing is written.
func (s *Store) Restore(doc map[string]json.RawMessage) error {
	for _, slot := range SlotNames {
		raw, ok := doc[slot]
		if !ok {
			return fmt.Errorf("%w: missing slot %q", ErrInvalidBackup, slot)
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil {
			return fmt.Errorf("%w: slot %q is not an array", ErrInvalidBackup, slot)
		}
	}

	s.mu.Lock()
	for _, slot := range SlotNames {
		if err := s.writeRaw(slot, doc[slot]); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("restore slot %s: %w", slot, err)
		}
	}
	s.mu.Unlock()

	for _, slot := range SlotNames {
		s.notify(slot)
	}
	s.logger.Info("store restored from backup")
	return nil
}

func (s *Store) slotPath(slot string) string {
	return filepath.Join(s.dir, slot+".json")
}

// readRaw returns the slot's raw bytes, or an empty array when the file is
// missing or not valid JSON. Caller holds the lock.
func (s *Store) readRaw(slot string) json.RawMessage {
	data, err := os.ReadFile(s.slotPath(slot))
	if err != nil {
		return json.RawMessage("[]")
	}
	if !json.Valid(data) {
		return json.RawMessage("[]")
	}
	return json.RawMessage(data)
}

// writeRaw atomically replaces the slot file. Caller holds the lock.
func (s *Store) writeRaw(slot string, data []byte) error {
	path := s.slotPath(slot)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// loadSlot reads a slot into dest. Malformed slots (undecodable JSON, a
// non-array value, or any record missing a required field) are discarded
// whole: the slot resets to empty with a warning and dest stays empty.
func (s *Store) loadSlot(slot string, dest any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.slotPath(slot))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("unreadable slot, starting empty", zap.String("slot", slot), zap.Error(err))
		}
		return
	}

	if !s.wellFormed(slot, data) {
		s.logger.Warn("malformed slot discarded", zap.String("slot", slot))
		if err := s.writeRaw(slot, []byte("[]")); err != nil {
			s.logger.Error("failed resetting slot", zap.String("slot", slot), zap.Error(err))
		}
		return
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warn("undecodable slot discarded", zap.String("slot", slot), zap.Error(err))
		if err := s.writeRaw(slot, []byte("[]")); err != nil {
			s.logger.Error("failed resetting slot", zap.String("slot", slot), zap.Error(err))
		}
	}
}

// wellFormed checks the structural shape of a slot's raw content.
func (s *Store) wellFormed(slot string, data []byte) bool {
	var records []map[string]json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return false
	}
	required := requiredFields[slot]
	for _, rec := range records {
		for _, field := range required {
			if _, ok := rec[field]; !ok {
				return false
			}
		}
	}
	return true
}

func (s *Store) saveSlot(slot string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", slot, err)
	}
	if string(data) == "null" {
		data = []byte("[]")
	}

	s.mu.Lock()
	err = s.writeRaw(slot, data)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("write slot %s: %w", slot, err)
	}

	s.notify(slot)
	s.logger.Debug("slot written", zap.String("slot", slot))
	return nil
}
