package relay

import "formrelay/internal/models"

// SampleEvent returns a manual test submission shaped like a spreadsheet trigger.
func SampleEvent() *models.Event {
	named := models.NewRawSubmission()
	named.Set("Adresse e-mail", []any{"test@example.com"})
	named.Set("Téléphone", []any{"+237 600 00 00 00"})
	named.Set("Nom", []any{"Test Utilisateur"})

	return &models.Event{NamedValues: named}
}
