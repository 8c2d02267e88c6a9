package usecases

import (
	"errors"
	"strings"
	"testing"

	"qrbaker/internal/entities"
)

func TestEncodeWiFi(t *testing.T) {
	enc := NewContentEncoder("https://qrbaker.test/r")

	t.Run("nopass omits password segment", func(t *testing.T) {
		payload, label, err := enc.Encode(entities.EncodeRequest{
			Kind: entities.KindWiFi, SSID: "Home", Password: "", Encryption: entities.WiFiNoPass,
		})
		if err != nil {
			t.Fatalf("Encode error = %v", err)
		}
		if payload != "WIFI:T:nopass;S:Home;;" {
			t.Fatalf("payload = %q, want %q", payload, "WIFI:T:nopass;S:Home;;")
		}
		if label != "Home" {
			t.Fatalf("label = %q, want SSID", label)
		}
	})

	t.Run("WPA includes password", func(t *testing.T) {
		payload, _, err := enc.Encode(entities.EncodeRequest{
			Kind: entities.KindWiFi, SSID: "Home", Password: "secret1", Encryption: entities.WiFiWPA,
		})
		if err != nil {
			t.Fatalf("Encode error = %v", err)
		}
		if payload != "WIFI:T:WPA;S:Home;P:secret1;;" {
			t.Fatalf("payload = %q, want %q", payload, "WIFI:T:WPA;S:Home;P:secret1;;")
		}
	})

	t.Run("empty ssid rejected", func(t *testing.T) {
		_, _, err := enc.Encode(entities.EncodeRequest{
			Kind: entities.KindWiFi, Encryption: entities.WiFiWPA,
		})
		assertValidationError(t, err, "ssid")
	})

	t.Run("unknown encryption rejected", func(t *testing.T) {
		_, _, err := enc.Encode(entities.EncodeRequest{
			Kind: entities.KindWiFi, SSID: "Home", Encryption: "WPA3",
		})
		assertValidationError(t, err, "encryption")
	})
}

func TestEncodeURL(t *testing.T) {
	enc := NewContentEncoder("https://qrbaker.test/r")

	t.Run("valid url is verbatim", func(t *testing.T) {
		payload, label, err := enc.Encode(entities.EncodeRequest{
			Kind: entities.KindURL, URL: "https://example.com",
		})
		if err != nil {
			t.Fatalf("Encode error = %v", err)
		}
		if payload != "https://example.com" {
			t.Fatalf("payload = %q, want the URL verbatim", payload)
		}
		if label != "https://example.com" {
			t.Fatalf("label = %q, want URL as default label", label)
		}
	})

	t.Run("not a url", func(t *testing.T) {
		_, _, err := enc.Encode(entities.EncodeRequest{Kind: entities.KindURL, URL: "not-a-url"})
		assertValidationError(t, err, "url")
	})

	t.Run("ftp scheme rejected", func(t *testing.T) {
		_, _, err := enc.Encode(entities.EncodeRequest{Kind: entities.KindURL, URL: "ftp://example.com"})
		assertValidationError(t, err, "url")
	})
}

func TestEncodeText(t *testing.T) {
	enc := NewContentEncoder("https://qrbaker.test/r")

	t.Run("verbatim payload", func(t *testing.T) {
		payload, _, err := enc.Encode(entities.EncodeRequest{Kind: entities.KindText, Text: "hello world"})
		if err != nil {
			t.Fatalf("Encode error = %v", err)
		}
		if payload != "hello world" {
			t.Fatalf("payload = %q, want %q", payload, "hello world")
		}
	})

	t.Run("default label truncates to 30 chars", func(t *testing.T) {
		long := strings.Repeat("a", 40)
		_, label, err := enc.Encode(entities.EncodeRequest{Kind: entities.KindText, Text: long})
		if err != nil {
			t.Fatalf("Encode error = %v", err)
		}
		if label != strings.Repeat("a", 30) {
			t.Fatalf("label = %q (len %d), want first 30 chars", label, len(label))
		}
	})

	t.Run("empty text rejected", func(t *testing.T) {
		_, _, err := enc.Encode(entities.EncodeRequest{Kind: entities.KindText, Text: "   "})
		assertValidationError(t, err, "text")
	})
}

func TestEncodeVCard(t *testing.T) {
	enc := NewContentEncoder("https://qrbaker.test/r")

	t.Run("full card block", func(t *testing.T) {
		payload, label, err := enc.Encode(entities.EncodeRequest{
			Kind:      entities.KindVCard,
			FirstName: "Ada", LastName: "Lovelace",
			Phone: "+44123", Email: "ada@example.com",
			Company: "Analytical Engines", JobTitle: "Programmer",
			Website: "https://ada.example.com",
		})
		if err != nil {
			t.Fatalf("Encode error = %v", err)
		}

		want := "BEGIN:VCARD\n" +
			"VERSION:3.0\n" +
			"N:Lovelace;Ada;;;\n" +
			"FN:Ada Lovelace\n" +
			"ORG:Analytical Engines\n" +
			"TITLE:Programmer\n" +
			"TEL;TYPE=CELL:+44123\n" +
			"EMAIL:ada@example.com\n" +
			"URL:https://ada.example.com\n" +
			"END:VCARD"
		if payload != want {
			t.Fatalf("payload = %q, want %q", payload, want)
		}
		if label != "Ada Lovelace" {
			t.Fatalf("label = %q, want full name", label)
		}
	})

	t.Run("company only falls back to company label", func(t *testing.T) {
		_, label, err := enc.Encode(entities.EncodeRequest{
			Kind: entities.KindVCard, Company: "ACME",
		})
		if err != nil {
			t.Fatalf("Encode error = %v", err)
		}
		if label != "ACME" {
			t.Fatalf("label = %q, want company", label)
		}
	})

	t.Run("all identity fields empty rejected", func(t *testing.T) {
		_, _, err := enc.Encode(entities.EncodeRequest{Kind: entities.KindVCard, Phone: "+1", Email: "x@y.z"})
		assertValidationError(t, err, "name")
	})
}

func TestEncodeDynamic(t *testing.T) {
	enc := NewContentEncoder("https://qrbaker.test/r")

	t.Run("payload embeds redirect url with short code", func(t *testing.T) {
		payload, label, err := enc.Encode(entities.EncodeRequest{
			Kind: entities.KindDynamic, Destination: "https://example.com/campaign",
			ShortCode: "Ab3dEf9h",
		})
		if err != nil {
			t.Fatalf("Encode error = %v", err)
		}
		if payload != "https://qrbaker.test/r?code=Ab3dEf9h" {
			t.Fatalf("payload = %q, want redirect url with code", payload)
		}
		if label != "Dynamic Link" {
			t.Fatalf("label = %q, want default %q", label, "Dynamic Link")
		}
	})

	t.Run("invalid destination rejected", func(t *testing.T) {
		_, _, err := enc.Encode(entities.EncodeRequest{
			Kind: entities.KindDynamic, Destination: "not-a-url", ShortCode: "Ab3dEf9h",
		})
		assertValidationError(t, err, "destination")
	})
}

func TestEncodeUnknownKind(t *testing.T) {
	enc := NewContentEncoder("https://qrbaker.test/r")
	_, _, err := enc.Encode(entities.EncodeRequest{Kind: "barcode"})
	assertValidationError(t, err, "type")
}

func TestValidAbsoluteURL(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"https://example.com", true},
		{"http://example.com/path?q=1", true},
		{"ftp://example.com", false},
		{"example.com", false},
		{"https://", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidAbsoluteURL(tc.in); got != tc.want {
			t.Fatalf("ValidAbsoluteURL(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func assertValidationError(t *testing.T, err error, field string) {
	t.Helper()
	var vErr *entities.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *entities.ValidationError, got %v (%T)", err, err)
	}
	if vErr.Field != field {
		t.Fatalf("ValidationError.Field = %q, want %q", vErr.Field, field)
	}
}
