// Package notify builds WhatsApp deep links for appointment reminders.
// Delivery is left to the provider's own WhatsApp app.
package notify

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"
)

const (
	waBaseURL   = "https://wa.me/"
	countryCode = "55"
)

// DigitsOnly strips everything but 0-9 from phone.
func DigitsOnly(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, phone)
}

// InternationalNumber prefixes the Brazilian country code unless phone
// already carries it.
func InternationalNumber(phone string) string {
	digits := DigitsOnly(phone)
	if (len(digits) == 12 || len(digits) == 13) && strings.HasPrefix(digits, countryCode) {
		return digits
	}
	return countryCode + digits
}

func ReminderMessage(clientName string, date time.Time, clock string) string {
	return fmt.Sprintf(
		"Olá %s! 😊 Lembrando do seu agendamento em %s às %s. Confirma presença?",
		clientName,
		date.Format("02/01"),
		clock,
	)
}

// ReminderLink returns a wa.me link pre-filled with the reminder text.
func ReminderLink(phone, clientName string, date time.Time, clock string) (string, error) {
	digits := DigitsOnly(phone)
	if len(digits) < 8 {
		return "", fmt.Errorf("notify: phone %q has too few digits", phone)
	}

	msg := ReminderMessage(clientName, date, clock)
	// espaços como %20: alguns clientes do WhatsApp exibem "+" literalmente
	text := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return waBaseURL + InternationalNumber(phone) + "?text=" + text, nil
}
