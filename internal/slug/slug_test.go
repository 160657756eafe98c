package slug_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"blankpoint/job-service/internal/slug"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Software Engineering", "software-engineering"},
		{"Data Science & Analytics", "data-science-analytics"},
		{"  Senior   Engineer  ", "senior-engineer"},
		{"C++ Developer", "c-developer"},
		{"already-a-slug", "already-a-slug"},
		{"Café Manager", "cafe-manager"},
		{"UPPER CASE", "upper-case"},
		{"trailing punctuation!!!", "trailing-punctuation"},
		{"", ""},
	}
	for _, c := range cases {
		if got := slug.Make(c.in); got != c.want {
			t.Errorf("Make(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMake_Deterministic(t *testing.T) {
	in := "Senior Software Engineer"
	first := slug.Make(in)
	for i := 0; i < 5; i++ {
		if got := slug.Make(in); got != first {
			t.Fatalf("Make(%q) changed between calls: %q vs %q", in, first, got)
		}
	}
}

func TestMake_Idempotent(t *testing.T) {
	// Slugifying a slug must be a no-op.
	inputs := []string{"New York Jobs", "déjà-vu", "a b c"}
	for _, in := range inputs {
		once := slug.Make(in)
		if twice := slug.Make(once); twice != once {
			t.Errorf("Make(Make(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestForLocation(t *testing.T) {
	cases := []struct {
		city, state, want string
	}{
		{"San Francisco", "CA", "san-francisco-ca"},
		{"New York", "NY", "new-york-ny"},
		{"São Paulo", "SP", "sao-paulo-sp"},
	}
	for _, c := range cases {
		if got := slug.ForLocation(c.city, c.state); got != c.want {
			t.Errorf("ForLocation(%q, %q) = %q, want %q", c.city, c.state, got, c.want)
		}
	}
}

func TestForJob(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	got := slug.ForJob("Senior Software Engineer", "Stripe", id)
	want := "senior-software-engineer-stripe-550e84"
	if got != want {
		t.Errorf("ForJob = %q, want %q", got, want)
	}
}

func TestUnique_BaseAvailable(t *testing.T) {
	got, err := slug.Unique("Software Engineer", func(string) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "software-engineer" {
		t.Errorf("Unique = %q, want %q", got, "software-engineer")
	}
}

func TestUnique_SuffixRetry(t *testing.T) {
	taken := map[string]bool{
		"software-engineer":   true,
		"software-engineer-2": true,
	}
	got, err := slug.Unique("Software Engineer", func(s string) (bool, error) {
		return taken[s], nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "software-engineer-3" {
		t.Errorf("Unique = %q, want %q", got, "software-engineer-3")
	}
}

func TestUnique_Exhausted(t *testing.T) {
	_, err := slug.Unique("x", func(string) (bool, error) { return true, nil })
	if err == nil {
		t.Fatal("Unique should fail when every candidate is taken")
	}
}

func TestUnique_ExistsError(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := slug.Unique("x", func(string) (bool, error) { return false, boom })
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Unique should wrap the existence-check error, got %v", err)
	}
}
