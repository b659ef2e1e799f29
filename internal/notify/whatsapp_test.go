package notify

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternationalNumber(t *testing.T) {
	tests := map[string]string{
		"(11) 99999-9999":    "5511999999999",
		"11 3333-4444":       "551133334444",
		"+55 11 99999-9999":  "5511999999999",
		"55 (21) 98888-7777": "5521988887777",
	}
	for in, want := range tests {
		assert.Equal(t, want, InternationalNumber(in), in)
	}
}

func TestReminderLink(t *testing.T) {
	date := time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC)

	link, err := ReminderLink("(11) 99999-9999", "Ana", date, "14:30")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "https://wa.me/5511999999999?text="))

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t,
		"Olá Ana! 😊 Lembrando do seu agendamento em 21/10 às 14:30. Confirma presença?",
		u.Query().Get("text"),
	)
}

func TestReminderLinkEncodesSpacesAsPercent20(t *testing.T) {
	date := time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC)

	link, err := ReminderLink("11999999999", "Ana Maria", date, "09:00")
	require.NoError(t, err)

	_, text, _ := strings.Cut(link, "?text=")
	assert.True(t, strings.HasPrefix(text, "Ol%C3%A1%20Ana%20Maria%21%20"), text)
	assert.NotContains(t, text, "+")
}

func TestReminderLinkRejectsShortPhone(t *testing.T) {
	_, err := ReminderLink("123", "Ana", time.Now(), "10:00")
	assert.Error(t, err)
}
