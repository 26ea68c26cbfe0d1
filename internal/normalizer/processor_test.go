package normalizer

import (
	"errors"
	"testing"
	"time"

	"formrelay/internal/models"
)

var testCandidates = Candidates{
	Email: []string{"Adresse e-mail", "Email", "E-mail", "Courriel"},
	Phone: []string{"Téléphone", "Phone", "Numéro", "Tel"},
	Name:  []string{"Nom", "Name", "Nom complet"},
}

func fixedNow() time.Time {
	return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
}

func TestNewProcessor(t *testing.T) {
	p := NewProcessor(testCandidates)
	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}
}

func TestProcessor_Process(t *testing.T) {
	p := NewProcessorWithDeps(testCandidates, NewValidator(), NewTransformer(), fixedNow)

	fields := models.FieldsFromPairs(
		"Adresse e-mail", "t@x.com",
		"Téléphone", "+1 555 123 4567",
		"Nom", "A B",
	)

	payload, res, err := p.Process(fields)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if payload.Email != "t@x.com" || payload.Phone != "+15551234567" || payload.Name != "A B" {
		t.Errorf("payload = %+v", payload)
	}

	if payload.Timestamp != "2025-01-01T12:00:00.000Z" {
		t.Errorf("Timestamp = %q", payload.Timestamp)
	}

	if payload.ResponseID != ResponseID("t@x.com", "+15551234567", fixedNow()) {
		t.Errorf("ResponseID = %q", payload.ResponseID)
	}

	if res.Email.Score != 1004 || res.Phone.Score != 1004 || res.Name.Score != 1003 {
		t.Errorf("scores = %d/%d/%d", res.Email.Score, res.Phone.Score, res.Name.Score)
	}
}

func TestProcessor_Process_NameOptional(t *testing.T) {
	p := NewProcessorWithDeps(testCandidates, NewValidator(), NewTransformer(), fixedNow)

	payload, _, err := p.Process(models.FieldsFromPairs("Email", "a@b.com", "Phone", "123456"))
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if payload.Name != "" {
		t.Errorf("Name = %q, want empty", payload.Name)
	}
}

func TestProcessor_Process_ValidationError(t *testing.T) {
	p := NewProcessor(testCandidates)

	fields := models.FieldsFromPairs("Email", "not-an-email", "Phone", "123456")

	_, res, err := p.Process(fields)
	if !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	if len(verr.AvailableKeys) != 2 || verr.AvailableKeys[0] != "Email" {
		t.Errorf("AvailableKeys = %v", verr.AvailableKeys)
	}

	if res.Email.Value != "not-an-email" {
		t.Errorf("resolution should be returned on failure, got %+v", res.Email)
	}
}

func TestProcessor_Process_Empty(t *testing.T) {
	p := NewProcessor(testCandidates)

	if _, _, err := p.Process(models.NewFields()); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}
