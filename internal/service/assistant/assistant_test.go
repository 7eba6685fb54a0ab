package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nandozscx/acopiapp/internal/service/registry"
	"github.com/nandozscx/acopiapp/internal/storage"
	"github.com/nandozscx/acopiapp/pkg/clients/anthropic"
)

type fakeAI struct {
	deliveries anthropic.DeliveryParse
	provider   anthropic.ProviderParse
	err        error

	gotNames []string
}

func (f *fakeAI) ParseDeliveries(_ context.Context, _ string, providerNames []string) (anthropic.DeliveryParse, error) {
	f.gotNames = providerNames
	return f.deliveries, f.err
}

func (f *fakeAI) ParseProvider(_ context.Context, _ string) (anthropic.ProviderParse, error) {
	return f.provider, f.err
}

func (f *fakeAI) GenerateWeeklyReport(_ context.Context, _ anthropic.ReportInput) (anthropic.ReportResult, error) {
	return anthropic.ReportResult{}, f.err
}

func newTestRegistry(t *testing.T) *registry.Service {
	t.Helper()
	store, err := storage.Open(t.TempDir(), "", zap.NewNop())
	require.NoError(t, err)
	return registry.NewService(store, zap.NewNop())
}

func TestRecordFromText(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := reg.CreateProvider(registry.ProviderInput{Name: "Rosa", UnitPrice: 2})
	require.NoError(t, err)

	ai := &fakeAI{deliveries: anthropic.DeliveryParse{
		Date: "2025-06-10",
		Entries: []anthropic.DeliveryEntry{
			{Provider: "ROSA", Quantity: 12},
			{Provider: "Desconocido", Quantity: 5},
		},
	}}

	svc := NewService(ai, reg, zap.NewNop())
	result, err := svc.RecordFromText(context.Background(), "hoy rosa dejo 12 litros y desconocido 5")
	require.NoError(t, err)

	// The parser receives the stored provider names.
	require.Equal(t, []string{"Rosa"}, ai.gotNames)

	// The matched entry records under the canonical provider; the unmatched
	// one is dropped without aborting the batch.
	require.Len(t, result.Recorded, 1)
	require.Equal(t, "Rosa", result.Recorded[0].Provider)
	require.Equal(t, 12.0, result.Recorded[0].Quantity)

	require.Len(t, result.Skipped, 1)
	require.Equal(t, "Desconocido", result.Skipped[0].Provider)

	require.Len(t, reg.Deliveries(), 1)
}

func TestRecordFromTextAIFailure(t *testing.T) {
	reg := newTestRegistry(t)
	svc := NewService(&fakeAI{err: errors.New("upstream down")}, reg, zap.NewNop())

	_, err := svc.RecordFromText(context.Background(), "whatever")
	require.Error(t, err)
	require.Empty(t, reg.Deliveries())
}

func TestRecordFromTextEmptyParse(t *testing.T) {
	reg := newTestRegistry(t)
	svc := NewService(&fakeAI{}, reg, zap.NewNop())

	_, err := svc.RecordFromText(context.Background(), "buenos dias")
	require.ErrorIs(t, err, ErrEmptyParse)
}

func TestRecordFromTextDisabled(t *testing.T) {
	svc := NewService(nil, newTestRegistry(t), zap.NewNop())
	require.False(t, svc.Enabled())

	_, err := svc.RecordFromText(context.Background(), "rosa 10")
	require.ErrorIs(t, err, ErrDisabled)
}

func TestProviderFromText(t *testing.T) {
	reg := newTestRegistry(t)
	ai := &fakeAI{provider: anthropic.ProviderParse{
		Name:    "Teodoro",
		Price:   2.8,
		Address: "Caserio Alto",
		Phone:   "958004411",
	}}

	svc := NewService(ai, reg, zap.NewNop())
	p, err := svc.ProviderFromText(context.Background(), "nuevo proveedor teodoro a 2.80 el litro")
	require.NoError(t, err)
	require.Equal(t, "Teodoro", p.Name)
	require.Equal(t, 2.8, p.UnitPrice)
	require.Len(t, reg.Providers(), 1)
}

func TestProviderFromTextIncompleteParse(t *testing.T) {
	reg := newTestRegistry(t)
	svc := NewService(&fakeAI{provider: anthropic.ProviderParse{Name: "Teodoro"}}, reg, zap.NewNop())

	_, err := svc.ProviderFromText(context.Background(), "teodoro")
	require.ErrorIs(t, err, ErrEmptyParse)
	require.Empty(t, reg.Providers())
}
