package mapper

import (
	"fmt"
	"strconv"

	"skikurs-sync/internal/models"
	"skikurs-sync/internal/pricing"
	"skikurs-sync/internal/sheets"
)

// truthy is the literal the sheet uses for set flags; anything else is false.
const truthy = "TRUE"

// The form supports up to eight participants per registration.
const maxParticipants = 8

// Form column names after header disambiguation. The contact block comes
// first, so its Vorname/Nachname stay unsuffixed and the participant blocks
// get pushed to Vorname1..Vorname8. The remaining per-participant columns
// repeat with plain numeric suffixes starting at the second block.
const (
	colTimestamp    = "Zeitstempel"
	colContactFirst = "Vorname"
	colContactLast  = "Nachname"
	colAddress      = "Wie_lautet_deine_Adresse?_"
	colMail         = "E-Mail_Adresse"
	colTel          = "Unter_welcher_Nummer_können_wir_dich_erreichen?"
	colRMailSent    = "r_mail_sent"
	colPMailSent    = "p_mail_sent"

	colCourseBase    = "Welcher_Kurs_soll_besucht_werden?_"
	colAgeBase       = "Alter_zum_Kursbeginn"
	colPreCourseBase = "Hat_die_Teilnehmer*in_bereits_Kurse_besucht?"
	colNotesBase     = "Hast_du_noch_ein_Frage_oder_willst_eine_Bemerkung_hinterlassen?"
)

type groupCols struct {
	course    int
	first     int
	last      int
	age       int
	preCourse int
	notes     int
}

type formCols struct {
	timestamp int
	first     int
	last      int
	address   int
	mail      int
	tel       int
	rMailSent int
	pMailSent int
	groups    [maxParticipants]groupCols
}

// Iter is a lazy, single-pass sequence of Registrations built from one
// snapshot of the source tables. Each registration is produced at most once;
// to get a fresh view, reload the tables and build a new Iter. After Next
// returns false, Err distinguishes exhaustion from a hard mapping failure.
type Iter struct {
	form   *sheets.Frame
	prices pricing.Table
	paid   map[string]bool
	cols   formCols
	row    int
	cur    models.Registration
	err    error
}

// NewIter resolves every required form column up front (failing fast on a
// reshaped sheet) and indexes the payment ledger.
func NewIter(t *Tables) (*Iter, error) {
	cols, err := resolveColumns(t.Form)
	if err != nil {
		return nil, err
	}
	paid, err := paidByID(t.Ledger)
	if err != nil {
		return nil, err
	}
	return &Iter{form: t.Form, prices: t.Prices, paid: paid, cols: cols}, nil
}

func resolveColumns(f *sheets.Frame) (formCols, error) {
	var c formCols
	var err error
	lookup := func(name string) int {
		if err != nil {
			return 0
		}
		var i int
		i, err = f.Lookup(name)
		return i
	}

	c.timestamp = lookup(colTimestamp)
	c.first = lookup(colContactFirst)
	c.last = lookup(colContactLast)
	c.address = lookup(colAddress)
	c.mail = lookup(colMail)
	c.tel = lookup(colTel)
	c.rMailSent = lookup(colRMailSent)
	c.pMailSent = lookup(colPMailSent)

	for i := 0; i < maxParticipants; i++ {
		suffix := ""
		if i > 0 {
			suffix = strconv.Itoa(i)
		}
		c.groups[i] = groupCols{
			course:    lookup(colCourseBase + suffix),
			first:     lookup(colContactFirst + strconv.Itoa(i+1)),
			last:      lookup(colContactLast + strconv.Itoa(i+1)),
			age:       lookup(colAgeBase + suffix),
			preCourse: lookup(colPreCourseBase + suffix),
			notes:     lookup(colNotesBase + suffix),
		}
	}
	if err != nil {
		return formCols{}, fmt.Errorf("form table: %w", err)
	}
	return c, nil
}

// paidByID indexes the ledger: an ID is paid iff it appears with the literal
// truthy token. Unknown or empty IDs stay unpaid — the conservative default
// when the ledger lags behind the form table. A duplicated ID keeps its
// first row.
func paidByID(ledger *sheets.Frame) (map[string]bool, error) {
	idCol, err := ledger.Lookup("ID")
	if err != nil {
		return nil, fmt.Errorf("ledger table: %w", err)
	}
	paidCol, err := ledger.Lookup("Bezahlt")
	if err != nil {
		return nil, fmt.Errorf("ledger table: %w", err)
	}
	m := map[string]bool{}
	for i := 0; i < ledger.Len(); i++ {
		id := ledger.Get(i, idCol)
		if id == "" {
			continue
		}
		if _, ok := m[id]; ok {
			continue
		}
		m[id] = ledger.Get(i, paidCol) == truthy
	}
	return m, nil
}

// Next advances to the next mappable form row. Rows with an empty timestamp
// (incomplete drafts) and rows with no participant at all are skipped.
func (it *Iter) Next() bool {
	if it.err != nil {
		return false
	}
	for it.row < it.form.Len() {
		row := it.row
		it.row++

		ts := it.form.Get(row, it.cols.timestamp)
		if ts == "" {
			continue
		}
		reg, err := it.build(row, ts)
		if err != nil {
			it.err = fmt.Errorf("registration %d: %w", row+1, err)
			return false
		}
		if reg == nil {
			continue
		}
		it.cur = *reg
		return true
	}
	return false
}

// Value returns the registration produced by the last successful Next.
func (it *Iter) Value() models.Registration { return it.cur }

// Err returns the error that stopped iteration, if any.
func (it *Iter) Err() error { return it.err }

func (it *Iter) build(row int, ts string) (*models.Registration, error) {
	id := row + 1

	participants := make([]models.Participant, 0, maxParticipants)
	for i := 0; i < maxParticipants; i++ {
		p, err := it.buildParticipant(row, i)
		if err != nil {
			return nil, err
		}
		if p != nil {
			participants = append(participants, *p)
		}
	}
	if len(participants) == 0 {
		return nil, nil
	}

	amount, err := pricing.Total(participants, ts, it.prices)
	if err != nil {
		return nil, err
	}

	return &models.Registration{
		Timestamp: ts,
		ID:        id,
		Contact: models.ContactPerson{
			Name: models.Name{
				First: it.form.Get(row, it.cols.first),
				Last:  it.form.Get(row, it.cols.last),
			},
			Address: it.form.Get(row, it.cols.address),
			Mail:    it.form.Get(row, it.cols.mail),
			Tel:     it.form.Get(row, it.cols.tel),
		},
		Participants:         participants,
		Payment:              models.Payment{Amount: amount, Paid: it.paid[strconv.Itoa(id)]},
		RegistrationMailSent: it.form.Get(row, it.cols.rMailSent) == truthy,
		PaymentMailSent:      it.form.Get(row, it.cols.pMailSent) == truthy,
	}, nil
}

// buildParticipant maps one participant block. An empty course cell means
// the slot is unused; an unrecognized course token is a hard error.
func (it *Iter) buildParticipant(row, slot int) (*models.Participant, error) {
	g := it.cols.groups[slot]

	rawCourse := it.form.Get(row, g.course)
	if rawCourse == "" {
		return nil, nil
	}
	course, err := models.ParseCourse(rawCourse)
	if err != nil {
		return nil, err
	}

	rawAge := it.form.Get(row, g.age)
	age, err := strconv.Atoi(rawAge)
	if err != nil {
		return nil, fmt.Errorf("participant %d age %q: %w", slot+1, rawAge, err)
	}
	if age < 0 {
		return nil, fmt.Errorf("participant %d age %d is negative", slot+1, age)
	}

	return &models.Participant{
		Name: models.Name{
			First: it.form.Get(row, g.first),
			Last:  it.form.Get(row, g.last),
		},
		Age:       age,
		Course:    course,
		PreCourse: it.form.Get(row, g.preCourse),
		Notes:     it.form.Get(row, g.notes),
	}, nil
}

// Collect drains an iterator.
func Collect(it *Iter) ([]models.Registration, error) {
	var out []models.Registration
	for it.Next() {
		out = append(out, it.Value())
	}
	return out, it.Err()
}
