package model

type CertificateAuthority struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ConfigString string   `json:"config_string"` // "host\caname" as understood by the CA command line tooling.
	Hostname     string   `json:"hostname"`
	SyncEnabled  bool     `json:"sync_enabled"`
	Templates    []string `json:"templates"`
	LastSyncedAt int64    `json:"last_synced_at"`
}

func (ca CertificateAuthority) Ref() AuthorityRef {
	return AuthorityRef{ID: ca.ID, Name: ca.Name, ConfigString: ca.ConfigString}
}

type Server struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Hostname string `json:"hostname"`
}

func (s Server) Ref() ServerRef {
	return ServerRef{ID: s.ID, Name: s.Name, Hostname: s.Hostname}
}

type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}
