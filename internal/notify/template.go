package notify

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"skikurs-sync/internal/models"
)

const (
	subjectRegistration = "Registrierungsbestätigung"
	subjectPayment      = "Zahlungseingang"
)

// Renderer fills the two notification templates with registration data.
type Renderer struct {
	registration *template.Template
	paid         *template.Template
	settings     Settings
}

func NewRenderer(registrationPath, paidPath string, settings Settings) (*Renderer, error) {
	reg, err := parseTemplate(registrationPath)
	if err != nil {
		return nil, err
	}
	paid, err := parseTemplate(paidPath)
	if err != nil {
		return nil, err
	}
	return &Renderer{registration: reg, paid: paid, settings: settings}, nil
}

func parseTemplate(path string) (*template.Template, error) {
	t, err := template.New(filepath.Base(path)).ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	return t, nil
}

type participantData struct {
	FirstName string
	LastName  string
	Age       int
	Course    string
}

// Registration renders the sign-up confirmation, including the payment
// details the contact needs for the transfer.
func (r *Renderer) Registration(reg models.Registration) (Message, error) {
	participants := make([]participantData, 0, len(reg.Participants))
	for _, p := range reg.Participants {
		participants = append(participants, participantData{
			FirstName: p.Name.First,
			LastName:  p.Name.Last,
			Age:       p.Age,
			Course:    string(p.Course),
		})
	}
	body, err := render(r.registration, map[string]interface{}{
		"FirstName":    reg.Contact.Name.First,
		"Participants": participants,
		"Amount":       reg.Payment.Amount,
		"CourseNumber": reg.ID,
		"IBAN":         r.settings.IBAN,
		"BIC":          r.settings.BIC,
		"ContactEmail": r.settings.ContactEmail,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{Subject: subjectRegistration, Body: body}, nil
}

// Paid renders the payment-received confirmation.
func (r *Renderer) Paid(reg models.Registration) (Message, error) {
	body, err := render(r.paid, map[string]interface{}{
		"FirstName": reg.Contact.Name.First,
		"LastName":  reg.Contact.Name.Last,
		"Amount":    reg.Payment.Amount,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{Subject: subjectPayment, Body: body}, nil
}

func render(t *template.Template, data interface{}) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return b.String(), nil
}
