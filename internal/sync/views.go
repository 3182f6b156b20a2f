package sync

import (
	"context"
	"fmt"
	"sort"

	"skikurs-sync/internal/models"
	"skikurs-sync/internal/pricing"
	"skikurs-sync/internal/sheets"
)

// dumpOverview writes the summary counters into their fixed cells on the
// Übersicht tab, as one batched request.
func (e *Engine) dumpOverview(ctx context.Context, regs []models.Registration) error {
	var participants []models.Participant
	for _, r := range regs {
		participants = append(participants, r.Participants...)
	}

	zwergel, normal := 0, 0
	for _, p := range participants {
		if p.Course.IsZwergel() {
			zwergel++
		} else {
			normal++
		}
	}

	paid := 0
	for _, r := range regs {
		if r.Payment.Paid {
			paid++
		}
	}
	paidRatio := 0.0
	perContact := 0.0
	if len(regs) > 0 {
		paidRatio = float64(paid) / float64(len(regs))
		perContact = float64(len(participants)) / float64(len(regs))
	}

	meanAge, minAge, maxAge := 0.0, 0, 0
	if len(participants) > 0 {
		sum := 0
		minAge, maxAge = participants[0].Age, participants[0].Age
		for _, p := range participants {
			sum += p.Age
			if p.Age < minAge {
				minAge = p.Age
			}
			if p.Age > maxAge {
				maxAge = p.Age
			}
		}
		meanAge = float64(sum) / float64(len(participants))
	}

	updates := []sheets.Update{
		cell("B4", zwergel),
		cell("B5", normal),
		cell("B6", len(participants)),
		cell("B7", len(regs)),
		cell("B10", paid),
		cell("B11", len(regs)-paid),
		cell("B12", paidRatio),
		cell("B15", perContact),
		cell("B16", meanAge),
		cell("B17", minAge),
		cell("B18", maxAge),
		cell("B19", e.now().Format(pricing.TimestampLayout)),
	}
	return e.store.BatchUpdate(ctx, sheets.KeyRegistrations, sheets.TabOverview, updates)
}

// dumpPaid writes the paid-status table sorted by registration ID plus its
// running total header.
func (e *Engine) dumpPaid(ctx context.Context, regs []models.Registration) error {
	sorted := make([]models.Registration, len(regs))
	copy(sorted, regs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	paid := 0
	rows := make([][]interface{}, 0, len(sorted))
	for _, r := range sorted {
		rows = append(rows, []interface{}{
			r.ID,
			r.Contact.Name.First,
			r.Contact.Name.Last,
			r.Contact.Mail,
			r.Contact.Tel,
			r.Payment.Amount,
			r.Payment.Paid,
		})
		if r.Payment.Paid {
			paid++
		}
	}

	updates := []sheets.Update{
		cell("G1", fmt.Sprintf("Insgesamt Bezahlt: %d/%d", paid, len(rows))),
	}
	if len(rows) > 0 {
		updates = append([]sheets.Update{{Range: "A3", Values: rows}}, updates...)
	}
	return e.store.BatchUpdate(ctx, sheets.KeyRegistrations, sheets.TabPayments, updates)
}

// dumpMembers writes the participant/contact roster, deduplicated by
// participant name.
func (e *Engine) dumpMembers(ctx context.Context, regs []models.Registration) error {
	seen := map[models.Name]bool{}
	type memberRow struct {
		id    int
		first string
		row   []interface{}
	}
	var members []memberRow

	for _, r := range regs {
		for _, p := range r.Participants {
			if seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			members = append(members, memberRow{
				id:    r.ID,
				first: p.Name.First,
				row: []interface{}{
					r.ID,
					p.Name.First,
					p.Name.Last,
					r.Contact.Name.First,
					r.Contact.Name.Last,
					r.Contact.Mail,
					r.Contact.Tel,
				},
			})
		}
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].id != members[j].id {
			return members[i].id < members[j].id
		}
		return members[i].first < members[j].first
	})

	if len(members) == 0 {
		return nil
	}
	rows := make([][]interface{}, 0, len(members))
	for _, m := range members {
		rows = append(rows, m.row)
	}
	return e.store.BatchUpdate(ctx, sheets.KeyRegistrations, sheets.TabMembers,
		[]sheets.Update{{Range: "A3", Values: rows}})
}

func (e *Engine) dumpZwergel(ctx context.Context, regs []models.Registration) error {
	rows := [][]interface{}{}
	for _, r := range regs {
		for _, p := range r.Participants {
			if !p.Course.IsZwergel() {
				continue
			}
			rows = append(rows, []interface{}{
				p.Course.Label(),
				p.Name.First,
				p.Name.Last,
				p.Age,
				r.Contact.Mail,
				r.Contact.Tel,
				r.Contact.Name.First,
				r.Contact.Name.Last,
				p.Notes,
			})
		}
	}
	return e.dumpRoster(ctx, sheets.TabZwergel, "A3:I1000", rows)
}

func (e *Engine) dumpCourses(ctx context.Context, regs []models.Registration) error {
	rows := [][]interface{}{}
	for _, r := range regs {
		for _, p := range r.Participants {
			if p.Course.IsZwergel() {
				continue
			}
			rows = append(rows, []interface{}{
				p.Course.Label(),
				p.Name.First,
				p.Name.Last,
				p.Age,
				r.Contact.Mail,
				r.Contact.Tel,
				r.Contact.Name.First,
				r.Contact.Name.Last,
				p.PreCourse,
				p.Notes,
			})
		}
	}
	return e.dumpRoster(ctx, sheets.TabCourses, "A3:J1000", rows)
}

// dumpRoster clears the old roster body and writes the new rows plus the
// participant count header in one batched request.
func (e *Engine) dumpRoster(ctx context.Context, tab, clearRange string, rows [][]interface{}) error {
	if err := e.store.ClearRange(ctx, sheets.KeyRegistrations, tab, clearRange); err != nil {
		return err
	}
	updates := []sheets.Update{cell("G1", len(rows))}
	if len(rows) > 0 {
		updates = append([]sheets.Update{{Range: "A3", Values: rows}}, updates...)
	}
	return e.store.BatchUpdate(ctx, sheets.KeyRegistrations, tab, updates)
}

func cell(a1 string, v interface{}) sheets.Update {
	return sheets.Update{Range: a1, Values: [][]interface{}{{v}}}
}
