package normalizer

import (
	"strings"
	"testing"
	"time"

	"formrelay/pkg/hashid"
)

func TestNewTransformer(t *testing.T) {
	tr := NewTransformer()
	if tr == nil {
		t.Fatal("NewTransformer returned nil")
	}
}

func TestTransformer_Build(t *testing.T) {
	tr := NewTransformer()
	now := time.Date(2025, 11, 8, 20, 0, 0, 123_000_000, time.FixedZone("WAT", 3600))

	p := tr.Build("  t@x.com ", "+15551234567", " A   B ", now)

	if p.Email != "t@x.com" {
		t.Errorf("Email = %q", p.Email)
	}

	if p.Name != "A B" {
		t.Errorf("Name = %q", p.Name)
	}

	if p.Timestamp != "2025-11-08T19:00:00.123Z" {
		t.Errorf("Timestamp = %q", p.Timestamp)
	}

	want := hashid.Base36(hashid.Rolling32("t@x.com+15551234567" + "1762628400123"))
	if p.ResponseID != want {
		t.Errorf("ResponseID = %q, want %q", p.ResponseID, want)
	}
}

func TestTransformer_ResponseIDDependsOnTime(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	a := ResponseID("t@x.com", "+1555", now)
	b := ResponseID("t@x.com", "+1555", now)
	c := ResponseID("t@x.com", "+1555", now.Add(time.Millisecond))

	if a != b {
		t.Errorf("same inputs gave %q and %q", a, b)
	}

	if a == c {
		t.Errorf("different times gave the same id %q", a)
	}
}

func TestTransformer_NameLimit(t *testing.T) {
	tr := NewTransformerWithLimit(5)

	p := tr.Build("a@b.com", "123456", "Éléonore Dupont", time.Now())
	if p.Name != "Éléon" {
		t.Errorf("Name = %q, want Éléon", p.Name)
	}

	long := strings.Repeat("n", 150)

	p = NewTransformer().Build("a@b.com", "123456", long, time.Now())
	if len(p.Name) != DefaultNameMaxRunes {
		t.Errorf("len(Name) = %d, want %d", len(p.Name), DefaultNameMaxRunes)
	}
}
