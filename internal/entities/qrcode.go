package entities

import "time"

// QRKind is the closed set of content types a QR code can carry.
type QRKind string

const (
	KindURL     QRKind = "url"
	KindText    QRKind = "text"
	KindWiFi    QRKind = "wifi"
	KindVCard   QRKind = "vcard"
	KindDynamic QRKind = "dynamic"
)

// ValidKind reports whether k is a known content type.
func ValidKind(k QRKind) bool {
	switch k {
	case KindURL, KindText, KindWiFi, KindVCard, KindDynamic:
		return true
	}
	return false
}

type WiFiEncryption string

const (
	WiFiNoPass WiFiEncryption = "nopass"
	WiFiWPA    WiFiEncryption = "WPA"
	WiFiWEP    WiFiEncryption = "WEP"
)

// EncodeRequest carries the fields for one QR creation. Kind selects
// which field group is read; the rest are ignored.
type EncodeRequest struct {
	Kind  QRKind `json:"type"`
	Label string `json:"label"` // optional, derived from content when empty

	// url
	URL string `json:"url"`

	// text
	Text string `json:"text"`

	// wifi
	SSID       string         `json:"ssid"`
	Password   string         `json:"password"`
	Encryption WiFiEncryption `json:"encryption"`

	// vcard
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	JobTitle  string `json:"job_title"`
	Website   string `json:"website"`

	// dynamic
	Destination string `json:"destination"`
	// ShortCode is filled by the lifecycle manager after allocation,
	// never by the caller.
	ShortCode string `json:"-"`
}

// QRRecord is one saved QR code. Only Destination is ever mutated after
// creation, and only when IsDynamic.
type QRRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Kind        QRKind    `json:"type"`
	Content     string    `json:"content"` // exact string encoded into the barcode
	Label       string    `json:"label"`
	DataURL     string    `json:"data_url"` // rendered PNG as a data: URL
	IsDynamic   bool      `json:"is_dynamic"`
	ShortCode   string    `json:"short_code,omitempty"`  // set iff IsDynamic
	Destination string    `json:"destination,omitempty"` // set iff IsDynamic
	CreatedAt   time.Time `json:"created_at"`
}

// RedirectEntry is the authoritative destination record behind a dynamic
// QR code. The copy denormalized onto QRRecord is reconciled
// opportunistically; this one wins.
type RedirectEntry struct {
	ShortCode   string    `json:"short_code"`
	UserID      string    `json:"user_id"`
	Destination string    `json:"destination"`
	Label       string    `json:"label"`
	Active      bool      `json:"active"`
	Clicks      int       `json:"clicks"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
