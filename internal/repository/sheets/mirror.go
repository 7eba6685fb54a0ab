package sheets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/nandozscx/acopiapp/internal/config"
	"github.com/nandozscx/acopiapp/internal/storage"
)

const deliveriesRange = "Entregas!A:C"

// Mirror appends newly recorded deliveries to a Google spreadsheet. It is
// driven by store subscriptions and only mirrors deliveries recorded during
// the current process lifetime; failures are logged, never surfaced to the
// recording caller.
type Mirror struct {
	service       *sheetsapi.Service
	spreadsheetID string
	store         *storage.Store
	logger        *zap.Logger

	mu   sync.Mutex
	seen int
}

// NewMirror builds a spreadsheet mirror over the official Sheets API.
func NewMirror(ctx context.Context, cfg config.SheetsConfig, store *storage.Store, logger *zap.Logger) (*Mirror, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &Mirror{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		store:         store,
		logger:        logger,
		seen:          len(store.Deliveries()),
	}, nil
}

// OnSlotChange is the store subscription hook. Only the delivery slot is
// mirrored.
func (m *Mirror) OnSlotChange(slot string) {
	if slot != storage.SlotDeliveries {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	deliveries := m.store.Deliveries()
	if len(deliveries) <= m.seen {
		m.seen = len(deliveries)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, d := range deliveries[m.seen:] {
		values := []interface{}{d.Provider, d.Date, d.Quantity}
		if err := m.appendRow(ctx, values); err != nil {
			m.logger.Error("failed mirroring delivery to sheet",
				zap.String("delivery_id", d.ID), zap.Error(err))
			return
		}
		m.seen++
	}
}

func (m *Mirror) appendRow(ctx context.Context, values []interface{}) error {
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := m.service.Spreadsheets.Values.Append(m.spreadsheetID, deliveriesRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", deliveriesRange, err)
	}

	m.logger.Debug("delivery row appended to sheet")
	return nil
}
