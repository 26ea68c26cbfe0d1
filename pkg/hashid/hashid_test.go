package hashid

import "testing"

func TestRolling32(t *testing.T) {
	tests := []struct {
		in   string
		want int32
	}{
		{"", 0},
		{"a", 97},
		{"ab", 97*31 + 98},
		// Java's "hello".hashCode()
		{"hello", 99162322},
		// wraps past int32
		{"polygenelubricants", -2147483648},
	}

	for _, tt := range tests {
		if got := Rolling32(tt.in); got != tt.want {
			t.Errorf("Rolling32(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBase36(t *testing.T) {
	if got := Base36(35); got != "z" {
		t.Errorf("Base36(35) = %q", got)
	}

	if got := Base36(-36); got != "10" {
		t.Errorf("Base36(-36) = %q", got)
	}

	if got := Base36(-2147483648); got != "zik0zk" {
		t.Errorf("Base36(MinInt32) = %q", got)
	}
}

func TestFromParts_Deterministic(t *testing.T) {
	a := FromParts("t@x.com", "+15551234567", "1700000000000")
	b := FromParts("t@x.com+15551234567", "1700000000000")

	if a != b {
		t.Errorf("FromParts should hash the concatenation: %q != %q", a, b)
	}

	if a == FromParts("u@x.com", "+15551234567", "1700000000000") {
		t.Error("different inputs produced the same id")
	}
}
