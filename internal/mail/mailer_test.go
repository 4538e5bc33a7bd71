package mail

import (
	"bytes"
	"strings"
	"testing"
)

func TestTemplatesParse(t *testing.T) {
	m, err := New(Config{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Enabled() {
		t.Fatalf("expected disabled without host")
	}
}

func TestPurchaseConfirmationRender(t *testing.T) {
	m, err := New(Config{Host: "smtp.example.com", Port: 587}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body bytes.Buffer
	data := PurchaseConfirmation{Name: "Ada", Code: "7", AmountCents: 2599}
	if err := m.templates.ExecuteTemplate(&body, "purchase_confirmation.html", data); err != nil {
		t.Fatalf("render: %v", err)
	}

	out := body.String()
	for _, want := range []string{"Ada", "#7", "$25.99"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in rendered mail:\n%s", want, out)
		}
	}
}

func TestAmountFormatting(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{100, "1.00"},
		{2599, "25.99"},
	}
	for _, tc := range cases {
		got := PurchaseConfirmation{AmountCents: tc.cents}.Amount()
		if got != tc.want {
			t.Fatalf("amount %d: expected %s, got %s", tc.cents, tc.want, got)
		}
	}
}
