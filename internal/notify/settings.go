package notify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the mail configuration file. Bank details end up in the
// registration confirmation, the SMTP block only matters for the smtp
// notifier.
type Settings struct {
	FromEmail    string `yaml:"from_email"`
	ContactEmail string `yaml:"contact_email"`
	IBAN         string `yaml:"iban"`
	BIC          string `yaml:"bic"`

	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Password   string `yaml:"password"`
}

func LoadSettings(path string) (Settings, error) {
	var s Settings
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("mail settings: %w", err)
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("mail settings %s: %w", path, err)
	}
	if s.FromEmail == "" {
		return s, fmt.Errorf("mail settings %s: from_email is empty", path)
	}
	return s, nil
}
