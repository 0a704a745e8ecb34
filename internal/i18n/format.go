package i18n

import (
	"fmt"
	"strings"
	"time"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
)

// FormatDate renders an ISO date (2006-01-02) in the locale's layout.
// Malformed values are returned unchanged.
func (l *Locale) FormatDate(iso string) string {
	t, err := time.Parse(domain.DateLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format(l.DateLayout)
}

// FormatTime renders an HH:MM time in the locale's layout.
func (l *Locale) FormatTime(hhmm string) string {
	t, err := time.Parse(domain.TimeLayout, hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format(l.TimeLayout)
}

// ParseDate reads a displayed date back into ISO form. ISO input is accepted
// as is, since date inputs submit it.
func (l *Locale) ParseDate(display string) (string, error) {
	display = strings.TrimSpace(display)
	if t, err := time.Parse(domain.DateLayout, display); err == nil {
		return t.Format(domain.DateLayout), nil
	}
	t, err := time.Parse(l.DateLayout, display)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", display, err)
	}
	return t.Format(domain.DateLayout), nil
}

// ParseTime reads a displayed time back into HH:MM.
func (l *Locale) ParseTime(display string) (string, error) {
	display = strings.TrimSpace(display)
	if t, err := time.Parse(domain.TimeLayout, display); err == nil {
		return t.Format(domain.TimeLayout), nil
	}
	t, err := time.Parse(l.TimeLayout, strings.ToUpper(display))
	if err != nil {
		return "", fmt.Errorf("parse time %q: %w", display, err)
	}
	return t.Format(domain.TimeLayout), nil
}
