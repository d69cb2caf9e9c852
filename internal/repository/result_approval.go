package repository

import (
	"fmt"
	"time"

	"resultpost/internal/http-server/handlers/mysql"
	"resultpost/internal/http-server/model"
)

type ResultApprovalRepository struct {
	dbhandler mysql.Handler
}

func NewResultApprovalRepository(dbhandler mysql.Handler) *ResultApprovalRepository {
	return &ResultApprovalRepository{dbhandler: dbhandler}
}

func (repo *ResultApprovalRepository) SaveApproval(approval model.ResultApproval) (int64, error) {
	const op = "repository.result_approval.SaveApproval"

	const query = "INSERT INTO result_approvals(result_id, manager_id, decision, note, created_at)" +
		" VALUES(?, ?, ?, ?, ?)"

	res, err := repo.dbhandler.PrepareAndExecute(query, approval.ResultID, approval.ManagerID,
		approval.Decision, approval.Note, time.Now())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (repo *ResultApprovalRepository) GetApprovalsByResultID(resultID int64) ([]model.ResultApproval, error) {
	const op = "repository.result_approval.GetApprovalsByResultID"

	const query = "SELECT id,result_id,manager_id,decision,note,created_at FROM result_approvals" +
		" WHERE result_id = ? ORDER BY created_at"

	rows, err := repo.dbhandler.PrepareAndQuery(query, resultID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var approvals []model.ResultApproval

	for rows.Next() {
		var approval model.ResultApproval

		err = rows.Scan(&approval.ID, &approval.ResultID, &approval.ManagerID, &approval.Decision,
			&approval.Note, &approval.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		approvals = append(approvals, approval)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return approvals, nil
}
