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

// RolloutRecordRepo implements [domain.RolloutRecordRepository] backed by SQLite.
type RolloutRecordRepo struct {
	DB *sql.DB
}

func (r *RolloutRecordRepo) Put(ctx context.Context, rec domain.RolloutRecord) error {
	routing, err := json.Marshal(rec.Routing)
	if err != nil {
		return fmt.Errorf("marshal routing: %w", err)
	}

	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO rollout_records (deployment_id, endpoint, step_index, routing, state, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (deployment_id, step_index) DO UPDATE SET
		   endpoint = excluded.endpoint,
		   routing = excluded.routing,
		   state = excluded.state,
		   updated_at = excluded.updated_at`,
		string(rec.DeploymentID), string(rec.Endpoint), rec.StepIndex,
		string(routing), string(rec.State), rec.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert rollout record: %w", err)
	}
	return nil
}

func (r *RolloutRecordRepo) Get(ctx context.Context, depID domain.DeploymentID, stepIndex int) (domain.RolloutRecord, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT deployment_id, endpoint, step_index, routing, state, updated_at
		 FROM rollout_records WHERE deployment_id = ? AND step_index = ?`,
		string(depID), stepIndex,
	)
	return scanRolloutRecord(row)
}

func (r *RolloutRecordRepo) ListByDeployment(ctx context.Context, depID domain.DeploymentID) ([]domain.RolloutRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT deployment_id, endpoint, step_index, routing, state, updated_at
		 FROM rollout_records WHERE deployment_id = ?
		 ORDER BY step_index`,
		string(depID),
	)
	if err != nil {
		return nil, fmt.Errorf("list rollout records: %w", err)
	}
	defer rows.Close()

	var records []domain.RolloutRecord
	for rows.Next() {
		rec, err := scanRolloutRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *RolloutRecordRepo) DeleteByDeployment(ctx context.Context, depID domain.DeploymentID) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM rollout_records WHERE deployment_id = ?`,
		string(depID),
	)
	if err != nil {
		return fmt.Errorf("delete rollout records: %w", err)
	}
	return nil
}

func scanRolloutRecord(s scanner) (domain.RolloutRecord, error) {
	var rec domain.RolloutRecord
	var depID, endpoint, routingJSON, stateStr, updatedAtStr string
	if err := s.Scan(&depID, &endpoint, &rec.StepIndex, &routingJSON, &stateStr, &updatedAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, fmt.Errorf("%w", domain.ErrNotFound)
		}
		return rec, fmt.Errorf("scan rollout record: %w", err)
	}
	rec.DeploymentID = domain.DeploymentID(depID)
	rec.Endpoint = domain.EndpointName(endpoint)
	rec.State = domain.TrafficState(stateStr)
	if err := json.Unmarshal([]byte(routingJSON), &rec.Routing); err != nil {
		return rec, fmt.Errorf("unmarshal routing: %w", err)
	}
	t, err := time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return rec, fmt.Errorf("parse updated_at: %w", err)
	}
	rec.UpdatedAt = t
	return rec, nil
}
