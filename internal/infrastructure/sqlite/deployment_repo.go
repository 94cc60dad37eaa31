package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Carma-tech/sagemaker-deployment-construct/internal/domain"
)

// DeploymentRepo implements [domain.DeploymentRepository] backed by SQLite.
type DeploymentRepo struct {
	DB *sql.DB
}

func (r *DeploymentRepo) Create(ctx context.Context, d domain.Deployment) error {
	variants, err := json.Marshal(d.Variants)
	if err != nil {
		return fmt.Errorf("marshal variants: %w", err)
	}
	strategy, err := json.Marshal(d.Strategy)
	if err != nil {
		return fmt.Errorf("marshal strategy: %w", err)
	}
	var routing []byte
	if d.Routing != nil {
		routing, err = json.Marshal(d.Routing)
		if err != nil {
			return fmt.Errorf("marshal routing: %w", err)
		}
	}

	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO deployments (id, endpoint, variants, strategy, routing, state, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(d.ID), string(d.Endpoint), string(variants), string(strategy),
		nullString(routing), string(d.State),
		d.CreatedAt.UTC().Format(time.RFC3339), d.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("deployment %q: %w", d.ID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("insert deployment: %w", err)
	}
	return nil
}

func (r *DeploymentRepo) Get(ctx context.Context, id domain.DeploymentID) (domain.Deployment, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT id, endpoint, variants, strategy, routing, state, created_at, updated_at
		 FROM deployments WHERE id = ?`,
		string(id),
	)
	return scanDeployment(row)
}

func (r *DeploymentRepo) List(ctx context.Context) ([]domain.Deployment, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, endpoint, variants, strategy, routing, state, created_at, updated_at
		 FROM deployments`,
	)
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	defer rows.Close()

	var deployments []domain.Deployment
	for rows.Next() {
		d, err := scanDeployment(rows)
		if err != nil {
			return nil, err
		}
		deployments = append(deployments, d)
	}
	return deployments, rows.Err()
}

func (r *DeploymentRepo) Update(ctx context.Context, d domain.Deployment) error {
	variants, _ := json.Marshal(d.Variants)
	strategy, _ := json.Marshal(d.Strategy)
	var routing []byte
	if d.Routing != nil {
		routing, _ = json.Marshal(d.Routing)
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE deployments
		 SET endpoint = ?, variants = ?, strategy = ?, routing = ?, state = ?, updated_at = ?
		 WHERE id = ?`,
		string(d.Endpoint), string(variants), string(strategy),
		nullString(routing), string(d.State),
		d.UpdatedAt.UTC().Format(time.RFC3339), string(d.ID),
	)
	if err != nil {
		return fmt.Errorf("update deployment: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("deployment %q: %w", d.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *DeploymentRepo) Delete(ctx context.Context, id domain.DeploymentID) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM deployments WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("delete deployment: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("deployment %q: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanDeployment(s scanner) (domain.Deployment, error) {
	var d domain.Deployment
	var id, endpoint, variantsJSON, strategyJSON, stateStr, createdAtStr, updatedAtStr string
	var routingJSON sql.NullString
	if err := s.Scan(&id, &endpoint, &variantsJSON, &strategyJSON, &routingJSON, &stateStr, &createdAtStr, &updatedAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return d, fmt.Errorf("%w", domain.ErrNotFound)
		}
		return d, fmt.Errorf("scan deployment: %w", err)
	}
	d.ID = domain.DeploymentID(id)
	d.Endpoint = domain.EndpointName(endpoint)
	d.State = domain.DeploymentState(stateStr)

	if err := json.Unmarshal([]byte(variantsJSON), &d.Variants); err != nil {
		return d, fmt.Errorf("unmarshal variants: %w", err)
	}
	if err := json.Unmarshal([]byte(strategyJSON), &d.Strategy); err != nil {
		return d, fmt.Errorf("unmarshal strategy: %w", err)
	}
	if routingJSON.Valid {
		if err := json.Unmarshal([]byte(routingJSON.String), &d.Routing); err != nil {
			return d, fmt.Errorf("unmarshal routing: %w", err)
		}
	}
	createdAt, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return d, fmt.Errorf("parse created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return d, fmt.Errorf("parse updated_at: %w", err)
	}
	d.CreatedAt = createdAt
	d.UpdatedAt = updatedAt
	return d, nil
}

func nullString(b []byte) sql.NullString {
	if b == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}
