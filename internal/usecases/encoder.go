package usecases

import (
	"fmt"
	"net/url"
	"strings"

	"qrbaker/internal/entities"
)

// ContentEncoder turns a creation request into the exact string a
// scanner must read, plus a display label. Pure transform: it never
// touches a repository.
type ContentEncoder struct {
	// RedirectBase is the public resolution endpoint a dynamic code
	// points at, e.g. "https://qrbaker.app/r".
	RedirectBase string
}

func NewContentEncoder(redirectBase string) ContentEncoder {
	return ContentEncoder{RedirectBase: strings.TrimRight(redirectBase, "/")}
}

// Encode validates the request and produces its payload and label.
// Failures are *entities.ValidationError naming the offending field.
func (e ContentEncoder) Encode(req entities.EncodeRequest) (payload, label string, err error) {
	switch req.Kind {
	case entities.KindURL:
		return e.encodeURL(req)
	case entities.KindText:
		return e.encodeText(req)
	case entities.KindWiFi:
		return e.encodeWiFi(req)
	case entities.KindVCard:
		return e.encodeVCard(req)
	case entities.KindDynamic:
		return e.encodeDynamic(req)
	default:
		return "", "", &entities.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown QR type %q", req.Kind)}
	}
}

func (e ContentEncoder) encodeURL(req entities.EncodeRequest) (string, string, error) {
	raw := strings.TrimSpace(req.URL)
	if raw == "" {
		return "", "", &entities.ValidationError{Field: "url", Reason: "required"}
	}
	if !ValidAbsoluteURL(raw) {
		return "", "", &entities.ValidationError{Field: "url", Reason: "must be a valid http or https URL"}
	}
	return raw, defaultLabel(req.Label, raw), nil
}

func (e ContentEncoder) encodeText(req entities.EncodeRequest) (string, string, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", "", &entities.ValidationError{Field: "text", Reason: "required"}
	}
	return text, defaultLabel(req.Label, truncateRunes(text, 30)), nil
}

func (e ContentEncoder) encodeWiFi(req entities.EncodeRequest) (string, string, error) {
	ssid := strings.TrimSpace(req.SSID)
	if ssid == "" {
		return "", "", &entities.ValidationError{Field: "ssid", Reason: "required"}
	}
	switch req.Encryption {
	case entities.WiFiNoPass:
		return fmt.Sprintf("WIFI:T:nopass;S:%s;;", ssid), defaultLabel(req.Label, ssid), nil
	case entities.WiFiWPA, entities.WiFiWEP:
		return fmt.Sprintf("WIFI:T:%s;S:%s;P:%s;;", req.Encryption, ssid, req.Password),
			defaultLabel(req.Label, ssid), nil
	default:
		return "", "", &entities.ValidationError{Field: "encryption", Reason: "must be nopass, WPA or WEP"}
	}
}

func (e ContentEncoder) encodeVCard(req entities.EncodeRequest) (string, string, error) {
	fn := strings.TrimSpace(req.FirstName)
	ln := strings.TrimSpace(req.LastName)
	company := strings.TrimSpace(req.Company)
	if fn == "" && ln == "" && company == "" {
		return "", "", &entities.ValidationError{Field: "name", Reason: "at least a name or company is required"}
	}

	// vCard 3.0 block, reproduced line for line for scanner compatibility
	payload := strings.Join([]string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		fmt.Sprintf("N:%s;%s;;;", ln, fn),
		fmt.Sprintf("FN:%s %s", fn, ln),
		"ORG:" + company,
		"TITLE:" + strings.TrimSpace(req.JobTitle),
		"TEL;TYPE=CELL:" + strings.TrimSpace(req.Phone),
		"EMAIL:" + strings.TrimSpace(req.Email),
		"URL:" + strings.TrimSpace(req.Website),
		"END:VCARD",
	}, "\n")

	label := strings.TrimSpace(fn + " " + ln)
	if label == "" {
		label = company
	}
	return payload, defaultLabel(req.Label, label), nil
}

func (e ContentEncoder) encodeDynamic(req entities.EncodeRequest) (string, string, error) {
	dest := strings.TrimSpace(req.Destination)
	if dest == "" {
		return "", "", &entities.ValidationError{Field: "destination", Reason: "required"}
	}
	if !ValidAbsoluteURL(dest) {
		return "", "", &entities.ValidationError{Field: "destination", Reason: "must be a valid http or https URL"}
	}
	if req.ShortCode == "" {
		return "", "", &entities.ValidationError{Field: "short_code", Reason: "not allocated"}
	}
	return e.RedirectBase + "?code=" + req.ShortCode, defaultLabel(req.Label, "Dynamic Link"), nil
}

// ValidAbsoluteURL accepts only absolute http/https URLs.
func ValidAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func defaultLabel(explicit, derived string) string {
	if l := strings.TrimSpace(explicit); l != "" {
		return l
	}
	return derived
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
