package sync

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"skikurs-sync/internal/models"
	"skikurs-sync/internal/sheets"
)

// Derived columns on the form tab. BE..BG are written per registration row,
// BH holds the registration IDs the flush keys on.
const (
	colPrice = "BE"
	colRMail = "BF"
	colPMail = "BG"
	colID    = "BH"

	idColIndex = 59 // 0-based index of column BH
)

// flushFlags writes the notification flags and computed amounts back to the
// form tab in two phases: first each registration's ID at its own row — the
// ID sequence has holes wherever a draft or participant-less row was
// skipped, so the IDs cannot go out as one compact column — then, after
// re-reading the current ID column (physical row positions are not assumed
// stable across writes), one batched update covering every registration.
func (e *Engine) flushFlags(ctx context.Context, regs []models.Registration) error {
	if len(regs) == 0 {
		return nil
	}
	idWrites := make([]sheets.Update, 0, len(regs))
	for _, r := range regs {
		// ID n was derived from form row n, which sits below the header on
		// sheet row n+1.
		idWrites = append(idWrites, cell(fmt.Sprintf("%s%d", colID, r.ID+1), strconv.Itoa(r.ID)))
	}
	err := e.store.BatchUpdate(ctx, sheets.KeyDB, sheets.TabForm, idWrites)
	if err != nil {
		return fmt.Errorf("write ids: %w", err)
	}

	raw, err := e.store.ReadAll(ctx, sheets.KeyDB, sheets.TabForm)
	if err != nil {
		return fmt.Errorf("reread ids: %w", err)
	}
	rowByID := map[string]int{}
	for i := 1; i < len(raw); i++ { // skip header row
		row := raw[i]
		if idColIndex >= len(row) || row[idColIndex] == nil {
			continue
		}
		if id := fmt.Sprint(row[idColIndex]); id != "" {
			rowByID[id] = i + 1 // sheet rows are 1-based
		}
	}

	updates := make([]sheets.Update, 0, 3*len(regs))
	for _, r := range regs {
		sheetRow, ok := rowByID[strconv.Itoa(r.ID)]
		if !ok {
			// The row moved or vanished under a concurrent edit. Leave its
			// flags for the next run rather than failing the whole flush.
			log.Printf("registration %d: id not found on reread, skipping flag write", r.ID)
			continue
		}
		updates = append(updates,
			cell(fmt.Sprintf("%s%d", colPrice, sheetRow), r.Payment.Amount),
			cell(fmt.Sprintf("%s%d", colRMail, sheetRow), flagLiteral(r.RegistrationMailSent)),
			cell(fmt.Sprintf("%s%d", colPMail, sheetRow), flagLiteral(r.PaymentMailSent)),
		)
	}
	if len(updates) == 0 {
		return nil
	}
	return e.store.BatchUpdate(ctx, sheets.KeyDB, sheets.TabForm, updates)
}

func flagLiteral(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
