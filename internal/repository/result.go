package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"resultpost/internal/config"
	"resultpost/internal/http-server/handlers/mysql"
	"resultpost/internal/http-server/model"
)

type ResultRepository struct {
	dbhandler mysql.Handler
}

func NewResultRepository(dbhandler mysql.Handler) *ResultRepository {
	return &ResultRepository{dbhandler: dbhandler}
}

const resultColumns = "r.id,r.draw_id,r.winning_numbers,r.machine_numbers,r.share_copy,r.share_hashtags," +
	"r.share_targets,r.status,r.verified,r.verified_at,r.submitted_by_id,r.created_at,r.updated_at"

func (repo *ResultRepository) SaveResult(result model.Result) (int64, error) {
	const op = "repository.result.SaveResult"

	const query = "INSERT INTO results(draw_id, winning_numbers, machine_numbers, share_copy, share_hashtags," +
		" share_targets, status, verified, submitted_by_id, created_at, updated_at)" +
		" VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	now := time.Now()

	res, err := repo.dbhandler.PrepareAndExecute(query, result.DrawID, result.WinningNumbers,
		result.MachineNumbers, result.ShareCopy, joinList(result.ShareHashtags), joinList(result.ShareTargets),
		result.Status, result.Verified, result.SubmittedByID, now, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (repo *ResultRepository) GetResultByID(id int64) (*model.Result, error) {
	const op = "repository.result.GetResultByID"

	const query = "SELECT " + resultColumns + " FROM results r WHERE r.id = ?"

	row, err := repo.dbhandler.PrepareAndQueryRow(query, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := scanResultRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (repo *ResultRepository) GetResultByDrawID(drawID int64) (*model.Result, error) {
	const op = "repository.result.GetResultByDrawID"

	const query = "SELECT " + resultColumns + " FROM results r WHERE r.draw_id = ? ORDER BY r.id DESC LIMIT 1"

	row, err := repo.dbhandler.PrepareAndQueryRow(query, drawID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := scanResultRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (repo *ResultRepository) ListResults() ([]model.Result, error) {
	const op = "repository.result.ListResults"

	const query = "SELECT " + resultColumns + " FROM results r ORDER BY r.created_at DESC"

	rows, err := repo.dbhandler.PrepareAndQuery(query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var results []model.Result

	for rows.Next() {
		var (
			result   model.Result
			hashtags sql.NullString
			targets  sql.NullString
		)

		err = rows.Scan(&result.ID, &result.DrawID, &result.WinningNumbers, &result.MachineNumbers,
			&result.ShareCopy, &hashtags, &targets, &result.Status, &result.Verified, &result.VerifiedAt,
			&result.SubmittedByID, &result.CreatedAt, &result.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		result.ShareHashtags = splitList(hashtags.String)
		result.ShareTargets = splitList(targets.String)

		results = append(results, result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return results, nil
}

func (repo *ResultRepository) UpdateResultReview(id int64, status config.ReviewStatus, verified bool, verifiedAt *time.Time) error {
	const op = "repository.result.UpdateResultReview"

	const query = "UPDATE results SET status = ?, verified = ?, verified_at = ?, updated_at = ? WHERE id = ?"

	_, err := repo.dbhandler.PrepareAndExecute(query, status, verified, verifiedAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func scanResultRow(row *sql.Row) (*model.Result, error) {
	var (
		result   model.Result
		hashtags sql.NullString
		targets  sql.NullString
	)

	err := row.Scan(&result.ID, &result.DrawID, &result.WinningNumbers, &result.MachineNumbers,
		&result.ShareCopy, &hashtags, &targets, &result.Status, &result.Verified, &result.VerifiedAt,
		&result.SubmittedByID, &result.CreatedAt, &result.UpdatedAt)
	if err != nil {
		return nil, err
	}

	result.ShareHashtags = splitList(hashtags.String)
	result.ShareTargets = splitList(targets.String)

	return &result, nil
}

// hashtags and targets are stored as comma-joined text, same as numbers.
func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	var items []string

	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		items = append(items, item)
	}

	return items
}

func joinList(items []string) string {
	trimmed := make([]string, 0, len(items))

	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		trimmed = append(trimmed, item)
	}

	return strings.Join(trimmed, ",")
}
