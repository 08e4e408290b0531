package postgres

import (
	"context"
	"errors"

	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/certflow/certflow/pkg/certflow/storage"
	"github.com/jackc/pgx/v5"
)

func (s *_Storage) GetAuthority(ctx context.Context, tx storage.Tx, id string) (model.CertificateAuthority, error) {
	var ca model.CertificateAuthority
	err := tx.QueryRow(ctx, `SELECT doc FROM certificate_authority WHERE id = $1`, id).Scan(&ca)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.CertificateAuthority{}, model.ErrAuthorityNotFound
	} else if err != nil {
		return model.CertificateAuthority{}, err
	}
	return ca, nil
}

func (s *_Storage) ListAuthorities(ctx context.Context, tx storage.Tx, req storage.ListAuthoritiesRequest) ([]model.CertificateAuthority, error) {
	query := `SELECT doc FROM certificate_authority WHERE ($1::BOOLEAN = FALSE OR sync_enabled) ORDER BY rec_id ASC`
	rows, err := tx.Query(ctx, query, req.SyncEnabledOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CertificateAuthority
	for rows.Next() {
		var ca model.CertificateAuthority
		if err := rows.Scan(&ca); err != nil {
			return nil, err
		}
		result = append(result, ca)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *_Storage) MarkAuthoritySynced(ctx context.Context, tx storage.Tx, id string, ts int64, templates []string) error {
	query := `
UPDATE certificate_authority SET
	doc = CASE WHEN $3::JSONB IS NULL
		THEN jsonb_set(doc, '{last_synced_at}', to_jsonb($2::BIGINT))
		ELSE jsonb_set(jsonb_set(doc, '{last_synced_at}', to_jsonb($2::BIGINT)), '{templates}', $3::JSONB)
	END
WHERE id = $1
`
	var templatesArg any
	if templates != nil {
		templatesArg = templates
	}
	result, err := tx.Exec(ctx, query, id, ts, templatesArg)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrAuthorityNotFound
	}
	return nil
}

func (s *_Storage) GetServer(ctx context.Context, tx storage.Tx, id string) (model.Server, error) {
	var server model.Server
	err := tx.QueryRow(ctx, `SELECT doc FROM server WHERE id = $1`, id).Scan(&server)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Server{}, model.ErrServerNotFound
	} else if err != nil {
		return model.Server{}, err
	}
	return server, nil
}

func (s *_Storage) FindUserByUsername(ctx context.Context, tx storage.Tx, username string) (model.User, error) {
	var user model.User
	err := tx.QueryRow(ctx, `SELECT doc FROM app_user WHERE username = $1`, username).Scan(&user)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	} else if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *_Storage) ListUsersByRole(ctx context.Context, tx storage.Tx, role string) ([]model.User, error) {
	rows, err := tx.Query(ctx, `SELECT doc FROM app_user WHERE role = $1 ORDER BY username ASC`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetNotificationConfig returns the global configuration, or a disabled one when none is stored.
func (s *_Storage) GetNotificationConfig(ctx context.Context, tx storage.Tx) (model.NotificationConfig, error) {
	var cfg model.NotificationConfig
	err := tx.QueryRow(ctx, `SELECT doc FROM notification_config WHERE id = 'global'`).Scan(&cfg)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.NotificationConfig{}, nil
	} else if err != nil {
		return model.NotificationConfig{}, err
	}
	return cfg, nil
}
