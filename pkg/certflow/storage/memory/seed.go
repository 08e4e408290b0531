package memory

import (
	"fmt"
	"os"

	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/goccy/go-json"
)

// Seed is the reference data a memory store starts with.
type Seed struct {
	Authorities        []model.CertificateAuthority `json:"authorities"`
	Servers            []model.Server               `json:"servers"`
	Users              []model.User                 `json:"users"`
	NotificationConfig *model.NotificationConfig    `json:"notification_config"`
	Certificates       []model.Certificate          `json:"certificates"`
}

func (s *Storage) Load(seed Seed) {
	for _, ca := range seed.Authorities {
		s.PutAuthority(ca)
	}
	for _, server := range seed.Servers {
		s.PutServer(server)
	}
	for _, user := range seed.Users {
		s.PutUser(user)
	}
	if seed.NotificationConfig != nil {
		s.PutNotificationConfig(*seed.NotificationConfig)
	}
	for _, cert := range seed.Certificates {
		s.PutCertificate(cert)
	}
}

// LoadSeedFile reads a JSON seed document from path into the store.
func (s *Storage) LoadSeedFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var seed Seed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse seed %q: %w", path, err)
	}
	s.Load(seed)
	return nil
}
