package payment

import "testing"

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)
	sig := Sign(body, "whsec")

	if !VerifySignature(body, sig, "whsec") {
		t.Fatalf("valid signature rejected")
	}
	if VerifySignature(body, sig, "other") {
		t.Fatalf("signature accepted under wrong secret")
	}
	if VerifySignature([]byte(`{"event":"payment.captured" }`), sig, "whsec") {
		t.Fatalf("signature accepted for altered body")
	}
	if VerifySignature(body, Sign(body, ""), "") {
		t.Fatalf("empty secret must never verify")
	}
	if VerifySignature(body, "", "whsec") {
		t.Fatalf("empty signature accepted")
	}
}

func TestToMinorUnits(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{1000, 100000},
		{19.99, 1999},
		{0.1 + 0.2, 30},
		{10.005, 1001},
		{0, 0},
	}
	for _, c := range cases {
		if got := ToMinorUnits(c.in); got != c.want {
			t.Errorf("ToMinorUnits(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestGatewayOrderIDFallbacks(t *testing.T) {
	cases := map[string]string{
		`{"payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_A","order":{"id":"order_B"}}},"order":{"entity":{"id":"order_C"}}}}`: "order_A",
		`{"payload":{"payment":{"entity":{"id":"pay_1","order":{"id":"order_B"}}},"order":{"entity":{"id":"order_C"}}}}`:                      "order_B",
		`{"payload":{"order":{"entity":{"id":"order_C","receipt":"r1"}}}}`:                                                                    "order_C",
	}
	for body, want := range cases {
		evt, err := ParseWebhook([]byte(body))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if got := evt.GatewayOrderID(); got != want {
			t.Errorf("GatewayOrderID = %q, want %q", got, want)
		}
	}
}

func TestParseWebhookMalformed(t *testing.T) {
	if _, err := ParseWebhook([]byte("{")); err == nil {
		t.Fatalf("expected error")
	}
}
