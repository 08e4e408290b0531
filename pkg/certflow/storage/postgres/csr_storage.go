package postgres

import (
	"context"
	"errors"

	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/certflow/certflow/pkg/certflow/storage"
	"github.com/jackc/pgx/v5"
)

func (s *_Storage) AddCSR(ctx context.Context, tx storage.Tx, csr model.CertificateRequest) error {
	query := `
WITH ins AS (
	INSERT INTO certificate_request (id, version, status, created_at, updated_at, doc)
	VALUES ($1, $2, $3, $4, $4, $5)
	RETURNING id, version, updated_at, doc
)
INSERT INTO certificate_request_history (id, version, created_at, doc)
SELECT * FROM ins
`
	_, err := tx.Exec(ctx, query, csr.ID, csr.Version, csr.Status, csr.RequestedAt, csr)
	return err
}

func (s *_Storage) GetCSR(ctx context.Context, tx storage.Tx, id string) (model.CertificateRequest, error) {
	var csr model.CertificateRequest
	err := tx.QueryRow(ctx, `SELECT doc FROM certificate_request WHERE id = $1`, id).Scan(&csr)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.CertificateRequest{}, model.ErrCSRNotFound
	} else if err != nil {
		return model.CertificateRequest{}, err
	}
	return csr, nil
}

func (s *_Storage) ListCSRs(ctx context.Context, tx storage.Tx, req storage.ListCSRsRequest) (storage.ListCSRsResponse, error) {
	query := `
WITH filtered AS (
	SELECT rec_id, doc FROM certificate_request
	WHERE
		(COALESCE(ARRAY_LENGTH($3::TEXT[], 1), 0) = 0 OR id = ANY($3)) AND
		(COALESCE(ARRAY_LENGTH($4::TEXT[], 1), 0) = 0 OR status = ANY($4))
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
	rows, err := tx.Query(ctx, query, req.Offset, req.Limit, req.IDs, req.Statuses)
	if err != nil {
		return storage.ListCSRsResponse{}, err
	}
	defer rows.Close()

	result := storage.ListCSRsResponse{}
	for rows.Next() {
		var total *int64
		var csr *model.CertificateRequest
		if err := rows.Scan(&total, &csr); err != nil {
			return storage.ListCSRsResponse{}, err
		}
		if total != nil {
			result.Total = *total
		}
		if csr != nil {
			result.CSRs = append(result.CSRs, *csr)
		}
	}
	if err := rows.Err(); err != nil {
		return storage.ListCSRsResponse{}, err
	}
	return result, nil
}

func (s *_Storage) UpdateCSR(ctx context.Context, tx storage.Tx, csr model.CertificateRequest) error {
	query := `
WITH upd AS (
	UPDATE certificate_request SET
		version = $2,
		status = $3,
		updated_at = $4,
		doc = $5
	WHERE id = $1 AND version = $2 - 1
	RETURNING id, version, updated_at, doc
)
INSERT INTO certificate_request_history (id, version, created_at, doc)
SELECT * FROM upd
`
	result, err := tx.Exec(ctx, query, csr.ID, csr.Version, csr.Status, csr.UpdatedAt, csr)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrVersionMismatch
	}
	return nil
}

func (s *_Storage) DeleteCSR(ctx context.Context, tx storage.Tx, id string, version int64) error {
	query := `DELETE FROM certificate_request WHERE id = $1 AND version = $2 AND status <> $3`
	result, err := tx.Exec(ctx, query, id, version, model.CSRStatusSubmitted)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrVersionMismatch
	}
	return nil
}
