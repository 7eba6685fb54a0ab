package assistant

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nandozscx/acopiapp/internal/domain/models"
	"github.com/nandozscx/acopiapp/internal/service/registry"
	"github.com/nandozscx/acopiapp/pkg/clients/anthropic"
)

// ErrDisabled indicates no AI client is configured.
var ErrDisabled = errors.New("ai assistant disabled")

// ErrEmptyParse indicates the AI produced no usable entries for the text.
var ErrEmptyParse = errors.New("nothing could be extracted from the text")

// SkippedEntry reports one parsed entry that could not be recorded. The rest
// of the batch still succeeds.
type SkippedEntry struct {
	Provider string  `json:"provider"`
	Quantity float64 `json:"quantity"`
	Reason   string  `json:"reason"`
}

// EntryResult is the outcome of one free-text delivery command.
type EntryResult struct {
	Date     string            `json:"date"`
	Recorded []models.Delivery `json:"recorded"`
	Skipped  []SkippedEntry    `json:"skipped"`
}

// Service turns free-text commands into stored records via the AI parsers.
type Service struct {
	ai       anthropic.Client
	registry *registry.Service
	logger   *zap.Logger
}

// NewService wires the assistant. A nil AI client leaves it disabled.
func NewService(ai anthropic.Client, reg *registry.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ai: ai, registry: reg, logger: logger}
}

// Enabled reports whether an AI client is configured.
func (s *Service) Enabled() bool {
	return s.ai != nil
}

// RecordFromText parses a free-text delivery command and records every entry
// whose provider name resolves against the stored providers. Entries naming
// an unknown provider are dropped individually; a failed or empty parse
// aborts with no effect.
func (s *Service) RecordFromText(ctx context.Context, text string) (EntryResult, error) {
	if s.ai == nil {
		return EntryResult{}, ErrDisabled
	}

	providers := s.registry.Providers()
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name)
	}

	parse, err := s.ai.ParseDeliveries(ctx, text, names)
	if err != nil {
		return EntryResult{}, fmt.Errorf("parse deliveries: %w", err)
	}
	if len(parse.Entries) == 0 {
		return EntryResult{}, ErrEmptyParse
	}

	result := EntryResult{Date: parse.Date}
	for _, entry := range parse.Entries {
		provider, ok := s.registry.ProviderByName(entry.Provider)
		if !ok {
			s.logger.Warn("parsed provider has no stored match", zap.String("provider", entry.Provider))
			result.Skipped = append(result.Skipped, SkippedEntry{
				Provider: entry.Provider,
				Quantity: entry.Quantity,
				Reason:   "unknown provider",
			})
			continue
		}

		d, err := s.registry.RecordDelivery(provider.ID, parse.Date, entry.Quantity)
		if err != nil {
			s.logger.Warn("parsed entry rejected",
				zap.String("provider", entry.Provider), zap.Error(err))
			result.Skipped = append(result.Skipped, SkippedEntry{
				Provider: entry.Provider,
				Quantity: entry.Quantity,
				Reason:   err.Error(),
			})
			continue
		}
		result.Recorded = append(result.Recorded, d)
	}

	return result, nil
}

// ProviderFromText parses a free-text provider description and creates the
// provider.
func (s *Service) ProviderFromText(ctx context.Context, text string) (models.Provider, error) {
	if s.ai == nil {
		return models.Provider{}, ErrDisabled
	}

	parse, err := s.ai.ParseProvider(ctx, text)
	if err != nil {
		return models.Provider{}, fmt.Errorf("parse provider: %w", err)
	}
	if parse.Name == "" || parse.Price <= 0 {
		return models.Provider{}, ErrEmptyParse
	}

	return s.registry.CreateProvider(registry.ProviderInput{
		Name:      parse.Name,
		Address:   parse.Address,
		Phone:     parse.Phone,
		UnitPrice: parse.Price,
	})
}
