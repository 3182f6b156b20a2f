package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	GoogleServiceAccountJSON string
	SheetIDSettings          string
	SheetIDRegistrations     string
	SheetIDDB                string

	MailSettingsPath         string
	TemplateRegistrationPath string
	TemplatePaidPath         string
	Notifier                 string

	RunAuthToken string
	HTTPAddr     string

	TelegramToken string
	AdminTGIDs    map[int64]bool
}

func FromEnv() (Config, error) {
	var c Config
	c.GoogleServiceAccountJSON = strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	c.SheetIDSettings = strings.TrimSpace(os.Getenv("SHEET_ID_SETTINGS"))
	c.SheetIDRegistrations = strings.TrimSpace(os.Getenv("SHEET_ID_REGISTRATIONS"))
	c.SheetIDDB = strings.TrimSpace(os.Getenv("SHEET_ID_DB"))

	c.MailSettingsPath = strings.TrimSpace(os.Getenv("MAIL_SETTINGS_PATH"))
	c.TemplateRegistrationPath = strings.TrimSpace(os.Getenv("TEMPLATE_REGISTRATION_PATH"))
	c.TemplatePaidPath = strings.TrimSpace(os.Getenv("TEMPLATE_PAID_PATH"))

	c.Notifier = strings.TrimSpace(os.Getenv("NOTIFIER"))
	if c.Notifier == "" {
		c.Notifier = "stub"
	}

	c.RunAuthToken = strings.TrimSpace(os.Getenv("RUN_AUTH_TOKEN"))

	c.HTTPAddr = strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}

	c.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	c.AdminTGIDs = parseAdminIDs(os.Getenv("ADMIN_TG_IDS"))

	required := []struct {
		name, value string
	}{
		{"GOOGLE_SERVICE_ACCOUNT_JSON", c.GoogleServiceAccountJSON},
		{"SHEET_ID_SETTINGS", c.SheetIDSettings},
		{"SHEET_ID_REGISTRATIONS", c.SheetIDRegistrations},
		{"SHEET_ID_DB", c.SheetIDDB},
		{"MAIL_SETTINGS_PATH", c.MailSettingsPath},
		{"TEMPLATE_REGISTRATION_PATH", c.TemplateRegistrationPath},
		{"TEMPLATE_PAID_PATH", c.TemplatePaidPath},
		{"RUN_AUTH_TOKEN", c.RunAuthToken},
	}
	for _, r := range required {
		if r.value == "" {
			return c, fmt.Errorf("%s is empty", r.name)
		}
	}

	return c, nil
}

func parseAdminIDs(raw string) map[int64]bool {
	m := map[int64]bool{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return m
	}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		m[v] = true
	}
	return m
}
