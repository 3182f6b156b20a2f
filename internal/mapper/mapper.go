package mapper

import (
	"context"
	"fmt"

	"skikurs-sync/internal/pricing"
	"skikurs-sync/internal/sheets"
)

// Source is the read side of the tabular store.
type Source interface {
	ListTabs(ctx context.Context, key string) ([]string, error)
	ReadAll(ctx context.Context, key, tab string) ([][]interface{}, error)
}

// Tables holds one run's snapshot of the three source tables.
type Tables struct {
	Form   *sheets.Frame
	Ledger *sheets.Frame
	Prices pricing.Table
}

// Load reads the form, ledger and price tabs into frames. A missing tab is a
// configuration problem and aborts before anything is mapped.
func Load(ctx context.Context, src Source) (*Tables, error) {
	form, err := loadFrame(ctx, src, sheets.KeyDB, sheets.TabForm, 1)
	if err != nil {
		return nil, err
	}
	// The ledger tab carries a title row above its real header.
	ledger, err := loadFrame(ctx, src, sheets.KeyRegistrations, sheets.TabPayments, 2)
	if err != nil {
		return nil, err
	}
	priceFrame, err := loadFrame(ctx, src, sheets.KeySettings, sheets.TabPrices, 1)
	if err != nil {
		return nil, err
	}
	prices, err := priceTable(priceFrame)
	if err != nil {
		return nil, err
	}
	return &Tables{Form: form, Ledger: ledger, Prices: prices}, nil
}

func loadFrame(ctx context.Context, src Source, key, tab string, headerRows int) (*sheets.Frame, error) {
	tabs, err := src.ListTabs(ctx, key)
	if err != nil {
		return nil, err
	}
	found := false
	for _, t := range tabs {
		if t == tab {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("spreadsheet %q has no tab %q", key, tab)
	}
	raw, err := src.ReadAll(ctx, key, tab)
	if err != nil {
		return nil, err
	}
	frame, err := sheets.NewFrame(raw, headerRows)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", key, tab, err)
	}
	return frame, nil
}

func priceTable(f *sheets.Frame) (pricing.Table, error) {
	category, err := f.Lookup("Kategorie")
	if err != nil {
		return nil, fmt.Errorf("price table: %w", err)
	}
	price, err := f.Lookup("Preis")
	if err != nil {
		return nil, fmt.Errorf("price table: %w", err)
	}
	t := pricing.Table{}
	for i := 0; i < f.Len(); i++ {
		if k := f.Get(i, category); k != "" {
			t[k] = f.Get(i, price)
		}
	}
	return t, nil
}
