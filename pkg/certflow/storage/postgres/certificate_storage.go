package postgres

import (
	"context"
	"errors"

	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/certflow/certflow/pkg/certflow/storage"
)

// The CASE guards against documents where the array was stored as JSON null.
const notificationsSentArray = `CASE jsonb_typeof(doc->'notifications_sent') WHEN 'array' THEN doc->'notifications_sent' ELSE '[]'::JSONB END`

func (s *_Storage) UpsertSyncedCertificate(ctx context.Context, tx storage.Tx, cert model.Certificate) (bool, error) {
	if cert.DeployedTo == nil {
		cert.DeployedTo = []model.Deployment{}
	}
	if cert.NotificationsSent == nil {
		cert.NotificationsSent = []model.NotificationRecord{}
	}

	query := `
INSERT INTO certificate (serial_number, thumbprint, status, valid_to, doc)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (serial_number) DO UPDATE SET
	thumbprint = excluded.thumbprint,
	valid_to = excluded.valid_to,
	doc = certificate.doc
		|| (excluded.doc - 'status' - 'deployed_to' - 'notifications_sent' - 'metadata')
		|| jsonb_build_object(
			'metadata',
			COALESCE(certificate.doc->'metadata', '{}'::JSONB) || jsonb_build_object('last_synced_at', excluded.doc->'metadata'->'last_synced_at')
		)
RETURNING (xmax = 0) AS inserted
`
	var inserted bool
	err := tx.QueryRow(ctx, query, cert.SerialNumber, cert.Thumbprint, cert.Status, cert.ValidTo, cert).Scan(&inserted)
	if err != nil {
		return false, err
	}
	return inserted, nil
}

func (s *_Storage) ListCertificates(ctx context.Context, tx storage.Tx, req storage.ListCertificatesRequest) (storage.ListCertificatesResponse, error) {
	query := `
WITH filtered AS (
	SELECT rec_id, doc FROM certificate
	WHERE
		(COALESCE(ARRAY_LENGTH($3::TEXT[], 1), 0) = 0 OR serial_number = ANY($3)) AND
		(COALESCE(ARRAY_LENGTH($4::TEXT[], 1), 0) = 0 OR status = ANY($4)) AND
		(COALESCE(ARRAY_LENGTH($5::TEXT[], 1), 0) = 0 OR NOT (status = ANY($5))) AND
		($6::BIGINT = 0 OR valid_to >= $6) AND
		($7::BIGINT = 0 OR valid_to <= $7) AND
		($8::TEXT = '' OR NOT EXISTS (
			SELECT 1 FROM jsonb_array_elements(` + notificationsSentArray + `) AS n WHERE n->>'type' = $8
		))
)
, paged AS (
	SELECT doc FROM filtered
	ORDER BY rec_id ASC
	OFFSET $1 LIMIT $2
)
, total AS (
	SELECT COUNT(*) AS total FROM filtered
)
SELECT total, doc FROM paged FULL JOIN total ON FALSE
`
	rows, err := tx.Query(
		ctx,
		query,
		req.Offset,
		req.Limit,
		req.SerialNumbers,
		req.Statuses,
		req.ExcludeStatuses,
		req.ValidToFrom,
		req.ValidToUntil,
		req.WithoutNotification,
	)
	if err != nil {
		return storage.ListCertificatesResponse{}, err
	}
	defer rows.Close()

	result := storage.ListCertificatesResponse{}
	for rows.Next() {
		var total *int64
		var cert *model.Certificate
		if err := rows.Scan(&total, &cert); err != nil {
			return storage.ListCertificatesResponse{}, err
		}
		if total != nil {
			result.Total = *total
		}
		if cert != nil {
			result.Certs = append(result.Certs, *cert)
		}
	}
	if err := rows.Err(); err != nil {
		return storage.ListCertificatesResponse{}, err
	}
	return result, nil
}

func (s *_Storage) UpdateCertificateStatus(ctx context.Context, tx storage.Tx, serialNumber string, from, to model.CertStatus) (bool, error) {
	query := `
UPDATE certificate SET
	status = $3,
	doc = jsonb_set(doc, '{status}', to_jsonb($3::TEXT))
WHERE serial_number = $1 AND status = $2
`
	result, err := tx.Exec(ctx, query, serialNumber, from, to)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *_Storage) AppendNotificationSent(ctx context.Context, tx storage.Tx, serialNumber string, record model.NotificationRecord) (bool, error) {
	if record.Type == "" {
		return false, errors.New("notification record type is required")
	}

	query := `
UPDATE certificate SET
	doc = jsonb_set(doc, '{notifications_sent}', ` + notificationsSentArray + ` || jsonb_build_array($2::JSONB))
WHERE serial_number = $1 AND NOT EXISTS (
	SELECT 1 FROM jsonb_array_elements(` + notificationsSentArray + `) AS n WHERE n->>'type' = $3
)
`
	result, err := tx.Exec(ctx, query, serialNumber, record, record.Type)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
