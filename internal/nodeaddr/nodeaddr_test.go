package nodeaddr

import "testing"

func TestParseValid(t *testing.T) {
	pubkey := "028d7500dd4c12685d1f568b4c2b5048e8534b873319f3a8daa612b469132ec7f7"
	n, err := Parse(pubkey + "@127.0.0.1:9735")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want 127.0.0.1", n.Host)
	}
	if n.Port != 9735 {
		t.Errorf("Port = %d, want 9735", n.Port)
	}
	if n.PublicKeyHex() != pubkey {
		t.Errorf("PublicKeyHex() = %q, want %q", n.PublicKeyHex(), pubkey)
	}
	if got := n.Address(); got != "127.0.0.1:9735" {
		t.Errorf("Address() = %q, want 127.0.0.1:9735", got)
	}
}

func TestParseValidHostname(t *testing.T) {
	pubkey := "028d7500dd4c12685d1f568b4c2b5048e8534b873319f3a8daa612b469132ec7f7"
	n, err := Parse(pubkey + "@node.example.com:9735")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Host != "node.example.com" {
		t.Errorf("Host = %q, want node.example.com", n.Host)
	}
}

func TestParseRejectsMissingAt(t *testing.T) {
	if _, err := Parse("127.0.0.1:9735"); err == nil {
		t.Error("Parse without '@': want error, got nil")
	}
}

func TestParseRejectsShortPubkey(t *testing.T) {
	if _, err := Parse("aabbcc@127.0.0.1:9735"); err == nil {
		t.Error("Parse with short pubkey: want error, got nil")
	}
}

func TestParseRejectsBadPort(t *testing.T) {
	pubkey := "028d7500dd4c12685d1f568b4c2b5048e8534b873319f3a8daa612b469132ec7f7"
	if _, err := Parse(pubkey + "@127.0.0.1:notaport"); err == nil {
		t.Error("Parse with non-numeric port: want error, got nil")
	}
}

func TestStringRoundTrip(t *testing.T) {
	pubkey := "028d7500dd4c12685d1f568b4c2b5048e8534b873319f3a8daa612b469132ec7f7"
	s := pubkey + "@127.0.0.1:9735"
	n, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.String() != s {
		t.Errorf("String() = %q, want %q", n.String(), s)
	}
}
