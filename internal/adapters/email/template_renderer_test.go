package email

import (
	"testing"

	"github.com/stretchr/testify/require"

	"iftargather/internal/domain"
)

func TestTemplateRenderer_Invitation(t *testing.T) {
	r := NewTemplateRenderer()

	subject, html, text, err := r.Render("invitation", &domain.InvitationEmailData{
		InviteeEmail:  "bilal@example.com",
		InviterName:   "Amina",
		EventTitle:    "Family Iftar",
		EventDate:     "2026-03-01",
		EventTime:     "18:30",
		EventLocation: "Masjid Al-Noor",
		ShareLink:     "https://iftar.example.com/share/family-iftar-ab12c",
	})
	require.NoError(t, err)
	require.Equal(t, "Amina invited you to Family Iftar", subject)
	require.Contains(t, html, "Family Iftar")
	require.Contains(t, html, "Masjid Al-Noor")
	require.Contains(t, html, "https://iftar.example.com/share/family-iftar-ab12c")
	require.Contains(t, text, "2026-03-01")
	require.Contains(t, text, "https://iftar.example.com/share/family-iftar-ab12c")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	r := NewTemplateRenderer()
	_, _, _, err := r.Render("missing", nil)
	require.Error(t, err)
}
