package pricing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"skikurs-sync/internal/models"
)

// Price table categories as they appear in the Preise tab.
const (
	CategoryZwergel       = "Zwergel"
	CategoryChild         = "Kind"
	CategoryAdult         = "Erwachsen"
	CategoryEarlyBird     = "FruehbucherRabatt"
	CategoryEarlyBirdDate = "FruehbucherRabattDatum"
	CategoryFamily        = "FamilienRabatt"
)

const (
	TimestampLayout = "02.01.2006 15:04:05"
	DateLayout      = "02.01.2006"
)

// MissingCategoryError is a configuration problem: the price table lacks a
// category the calculation needs. It aborts the run; pricing a participant at
// zero by accident is not an option.
type MissingCategoryError struct {
	Category string
}

func (e MissingCategoryError) Error() string {
	return fmt.Sprintf("price table is missing category %q", e.Category)
}

// Table holds the raw category → value cells of the Preise tab. Values are
// parsed on demand so unused categories may be absent or malformed without
// failing a run.
type Table map[string]string

func (t Table) raw(category string) (string, error) {
	v, ok := t[category]
	if !ok || strings.TrimSpace(v) == "" {
		return "", MissingCategoryError{Category: category}
	}
	return strings.TrimSpace(v), nil
}

// Amount returns the numeric value of a category.
func (t Table) Amount(category string) (float64, error) {
	raw, err := t.raw(category)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("price table category %q: %w", category, err)
	}
	return v, nil
}

// Date returns a category parsed as dd.mm.yyyy.
func (t Table) Date(category string) (time.Time, error) {
	raw, err := t.raw(category)
	if err != nil {
		return time.Time{}, err
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("price table category %q: %w", category, err)
	}
	return d, nil
}

// Total computes the price for one registration's participant set. The steps
// run in a fixed order: per-participant base price, then the flat early-bird
// discount per participant (may push an individual price below zero, which
// flows into the sum unclamped), then one family discount off the aggregate.
func Total(participants []models.Participant, timestamp string, prices Table) (float64, error) {
	perHead := make([]float64, 0, len(participants))
	for _, p := range participants {
		base, err := basePrice(p, prices)
		if err != nil {
			return 0, err
		}
		perHead = append(perHead, base)
	}

	early, err := earlyBird(timestamp, prices)
	if err != nil {
		return 0, err
	}
	if early {
		discount, err := prices.Amount(CategoryEarlyBird)
		if err != nil {
			return 0, err
		}
		for i := range perHead {
			perHead[i] -= discount
		}
	}

	family, err := familyDiscount(len(participants), prices)
	if err != nil {
		return 0, err
	}

	total := -family
	for _, v := range perHead {
		total += v
	}
	return total, nil
}

func basePrice(p models.Participant, prices Table) (float64, error) {
	if p.Course.IsZwergel() {
		return prices.Amount(CategoryZwergel)
	}
	if p.Age < 18 {
		return prices.Amount(CategoryChild)
	}
	return prices.Amount(CategoryAdult)
}

// earlyBird reports whether the submission qualifies for the early-bird
// discount. The cutoff compare is inclusive and on the calendar date of the
// submission, not the full datetime: any submission on the cutoff day counts.
func earlyBird(timestamp string, prices Table) (bool, error) {
	ts, err := time.Parse(TimestampLayout, timestamp)
	if err != nil {
		return false, fmt.Errorf("submission timestamp %q: %w", timestamp, err)
	}
	cutoff, err := prices.Date(CategoryEarlyBirdDate)
	if err != nil {
		return false, err
	}
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	return !day.After(cutoff), nil
}

// familyDiscount is flat per participant beyond the second, applied once to
// the aggregate. Two participants get nothing.
func familyDiscount(count int, prices Table) (float64, error) {
	if count < 3 {
		return 0, nil
	}
	rate, err := prices.Amount(CategoryFamily)
	if err != nil {
		return 0, err
	}
	return rate * float64(count-2), nil
}
