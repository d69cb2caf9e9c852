package repository

import (
	"database/sql"
	"fmt"
	"time"

	"resultpost/internal/http-server/handlers/mysql"
	"resultpost/internal/http-server/model"
)

type DrawRepository struct {
	dbhandler mysql.Handler
}

func NewDrawRepository(dbhandler mysql.Handler) *DrawRepository {
	return &DrawRepository{dbhandler: dbhandler}
}

func (repo *DrawRepository) SaveDraw(draw model.Draw) (int64, error) {
	const op = "repository.draw.SaveDraw"

	const query = "INSERT INTO draws(game_id, draw_datetime, notified, created_at, updated_at) VALUES(?, ?, ?, ?, ?)"

	now := time.Now()

	res, err := repo.dbhandler.PrepareAndExecute(query, draw.GameID, draw.DrawDatetime, draw.Notified, now, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (repo *DrawRepository) GetDrawByID(id int64) (*model.Draw, error) {
	const op = "repository.draw.GetDrawByID"

	const query = "SELECT d.id,d.game_id,d.draw_datetime,d.notified,d.notified_at,d.created_at,d.updated_at," +
		"g.id,g.name,g.description,g.numbers_count,g.max_number,g.machine_numbers_count,g.max_machine_number," +
		"g.is_active,g.created_at,g.updated_at FROM draws d JOIN games g ON g.id = d.game_id WHERE d.id = ?"

	row, err := repo.dbhandler.PrepareAndQueryRow(query, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	draw := &model.Draw{Game: &model.Game{}}

	err = row.Scan(&draw.ID, &draw.GameID, &draw.DrawDatetime, &draw.Notified, &draw.NotifiedAt,
		&draw.CreatedAt, &draw.UpdatedAt,
		&draw.Game.ID, &draw.Game.Name, &draw.Game.Description, &draw.Game.NumbersCount, &draw.Game.MaxNumber,
		&draw.Game.MachineNumbersCount, &draw.Game.MaxMachineNumber, &draw.Game.IsActive,
		&draw.Game.CreatedAt, &draw.Game.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return draw, nil
}

func (repo *DrawRepository) ListDraws() ([]model.Draw, error) {
	const op = "repository.draw.ListDraws"

	const query = "SELECT d.id,d.game_id,d.draw_datetime,d.notified,d.notified_at,d.created_at,d.updated_at," +
		"g.id,g.name,g.description,g.numbers_count,g.max_number,g.machine_numbers_count,g.max_machine_number," +
		"g.is_active,g.created_at,g.updated_at FROM draws d JOIN games g ON g.id = d.game_id " +
		"ORDER BY d.draw_datetime DESC"

	rows, err := repo.dbhandler.PrepareAndQuery(query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var draws []model.Draw

	for rows.Next() {
		draw := model.Draw{Game: &model.Game{}}

		err = rows.Scan(&draw.ID, &draw.GameID, &draw.DrawDatetime, &draw.Notified, &draw.NotifiedAt,
			&draw.CreatedAt, &draw.UpdatedAt,
			&draw.Game.ID, &draw.Game.Name, &draw.Game.Description, &draw.Game.NumbersCount, &draw.Game.MaxNumber,
			&draw.Game.MachineNumbersCount, &draw.Game.MaxMachineNumber, &draw.Game.IsActive,
			&draw.Game.CreatedAt, &draw.Game.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		draws = append(draws, draw)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return draws, nil
}

func (repo *DrawRepository) GetDueUnnotifiedDraws(now time.Time) ([]model.Draw, error) {
	const op = "repository.draw.GetDueUnnotifiedDraws"

	const query = "SELECT d.id,d.game_id,d.draw_datetime,d.notified,d.notified_at,d.created_at,d.updated_at," +
		"g.id,g.name,g.description,g.numbers_count,g.max_number,g.machine_numbers_count,g.max_machine_number," +
		"g.is_active,g.created_at,g.updated_at FROM draws d JOIN games g ON g.id = d.game_id " +
		"WHERE d.draw_datetime <= ? AND d.notified = 0"

	rows, err := repo.dbhandler.PrepareAndQuery(query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var draws []model.Draw

	for rows.Next() {
		draw := model.Draw{Game: &model.Game{}}

		err = rows.Scan(&draw.ID, &draw.GameID, &draw.DrawDatetime, &draw.Notified, &draw.NotifiedAt,
			&draw.CreatedAt, &draw.UpdatedAt,
			&draw.Game.ID, &draw.Game.Name, &draw.Game.Description, &draw.Game.NumbersCount, &draw.Game.MaxNumber,
			&draw.Game.MachineNumbersCount, &draw.Game.MaxMachineNumber, &draw.Game.IsActive,
			&draw.Game.CreatedAt, &draw.Game.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		draws = append(draws, draw)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return draws, nil
}

func (repo *DrawRepository) MarkDrawNotified(id int64) error {
	const op = "repository.draw.MarkDrawNotified"

	const query = "UPDATE draws SET notified = 1, notified_at = ?, updated_at = ? WHERE id = ?"

	now := time.Now()

	_, err := repo.dbhandler.PrepareAndExecute(query, now, now, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
