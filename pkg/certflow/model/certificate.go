package model

type CertStatus string

const (
	CertStatusActive   CertStatus = "active"
	CertStatusExpiring CertStatus = "expiring"
	CertStatusExpired  CertStatus = "expired"
	CertStatusRevoked  CertStatus = "revoked"
)

// ExpiringWindow is the number of seconds before NotAfter in which a certificate is considered expiring.
const ExpiringWindow int64 = 30 * 24 * 60 * 60

type Binding struct {
	Site string `json:"site"` // IIS site name.
	Port int    `json:"port"`
}

type Deployment struct {
	Server     ServerRef `json:"server"`
	Binding    *Binding  `json:"binding,omitempty"`
	DeployedAt int64     `json:"deployed_at"`
}

type NotificationRecord struct {
	Type       string   `json:"type"` // Threshold type, e.g. "30day".
	SentAt     int64    `json:"sent_at"`
	Recipients []string `json:"recipients"`
}

type CertMetadata struct {
	DiscoveredAt int64 `json:"discovered_at"` // Unix Time (in second) of the first sync that saw the certificate.
	LastSyncedAt int64 `json:"last_synced_at"`
}

type Certificate struct {
	SerialNumber string     `json:"serial_number"` // Serial number assigned by the issuing CA. Unique.
	Thumbprint   string     `json:"thumbprint"`    // Hex encoded SHA-1 fingerprint. Unique.
	Status       CertStatus `json:"status"`

	CommonName   string       `json:"common_name"`
	Subject      string       `json:"subject"`
	Issuer       string       `json:"issuer"`
	TemplateName string       `json:"template_name,omitempty"`
	CARequestID  string       `json:"ca_request_id,omitempty"`
	Requester    string       `json:"requester,omitempty"`
	CA           AuthorityRef `json:"ca"`

	ValidFrom int64 `json:"valid_from"` // Unix Time (in second).
	ValidTo   int64 `json:"valid_to"`   // Unix Time (in second).

	DeployedTo        []Deployment         `json:"deployed_to"`
	NotificationsSent []NotificationRecord `json:"notifications_sent"`
	Metadata          CertMetadata         `json:"metadata"`
}

// HasNotification reports whether a notification of the threshold type was already recorded.
func (c *Certificate) HasNotification(notificationType string) bool {
	for _, n := range c.NotificationsSent {
		if n.Type == notificationType {
			return true
		}
	}
	return false
}

// DeriveStatus computes the lifecycle status of a certificate at ts.
// Revoked and expired certificates keep their status.
func DeriveStatus(status CertStatus, validTo int64, ts int64) CertStatus {
	switch status {
	case CertStatusRevoked, CertStatusExpired:
		return status
	}

	if validTo < ts {
		return CertStatusExpired
	}
	withinWindow := validTo <= ts+ExpiringWindow
	if status == CertStatusActive && withinWindow {
		return CertStatusExpiring
	}
	if status == CertStatusExpiring && !withinWindow {
		return CertStatusActive
	}
	return status
}
