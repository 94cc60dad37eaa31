package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Carma-tech/sagemaker-deployment-construct/internal/domain"
)

// EndpointRepo implements [domain.EndpointRepository] backed by SQLite.
type EndpointRepo struct {
	DB *sql.DB
}

func (r *EndpointRepo) Create(ctx context.Context, e domain.EndpointInfo) error {
	labels, err := json.Marshal(e.Labels)
	if err != nil {
		return fmt.Errorf("marshal labels: %w", err)
	}
	props, err := json.Marshal(e.Properties)
	if err != nil {
		return fmt.Errorf("marshal properties: %w", err)
	}

	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO endpoints (name, environment, labels, properties) VALUES (?, ?, ?, ?)`,
		string(e.Name), e.Environment, string(labels), string(props),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("endpoint %q: %w", e.Name, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("insert endpoint: %w", err)
	}
	return nil
}

func (r *EndpointRepo) Get(ctx context.Context, name domain.EndpointName) (domain.EndpointInfo, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT name, environment, labels, properties FROM endpoints WHERE name = ?`,
		string(name),
	)
	return scanEndpoint(row)
}

func (r *EndpointRepo) List(ctx context.Context) ([]domain.EndpointInfo, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT name, environment, labels, properties FROM endpoints`)
	if err != nil {
		return nil, fmt.Errorf("list endpoints: %w", err)
	}
	defer rows.Close()

	var endpoints []domain.EndpointInfo
	for rows.Next() {
		e, err := scanEndpoint(rows)
		if err != nil {
			return nil, err
		}
		endpoints = append(endpoints, e)
	}
	return endpoints, rows.Err()
}

func (r *EndpointRepo) Delete(ctx context.Context, name domain.EndpointName) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM endpoints WHERE name = ?`, string(name))
	if err != nil {
		return fmt.Errorf("delete endpoint: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("endpoint %q: %w", name, domain.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEndpoint(s scanner) (domain.EndpointInfo, error) {
	var e domain.EndpointInfo
	var name, labelsJSON, propsJSON string
	if err := s.Scan(&name, &e.Environment, &labelsJSON, &propsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, fmt.Errorf("%w", domain.ErrNotFound)
		}
		return e, fmt.Errorf("scan endpoint: %w", err)
	}
	e.Name = domain.EndpointName(name)
	if err := json.Unmarshal([]byte(labelsJSON), &e.Labels); err != nil {
		return e, fmt.Errorf("unmarshal labels: %w", err)
	}
	if err := json.Unmarshal([]byte(propsJSON), &e.Properties); err != nil {
		return e, fmt.Errorf("unmarshal properties: %w", err)
	}
	return e, nil
}
