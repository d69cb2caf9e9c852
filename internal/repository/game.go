package repository

import (
	"database/sql"
	"fmt"
	"time"

	"resultpost/internal/http-server/handlers/mysql"
	"resultpost/internal/http-server/model"
)

type GameRepository struct {
	dbhandler mysql.Handler
}

func NewGameRepository(dbhandler mysql.Handler) *GameRepository {
	return &GameRepository{dbhandler: dbhandler}
}

func (repo *GameRepository) ListActiveGames() ([]model.Game, error) {
	const op = "repository.game.ListActiveGames"

	const query = "SELECT id,name,description,numbers_count,max_number,machine_numbers_count," +
		"max_machine_number,is_active,created_at,updated_at FROM games WHERE is_active = 1 ORDER BY name"

	rows, err := repo.dbhandler.PrepareAndQuery(query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var games []model.Game

	for rows.Next() {
		var game model.Game

		err = rows.Scan(&game.ID, &game.Name, &game.Description, &game.NumbersCount, &game.MaxNumber,
			&game.MachineNumbersCount, &game.MaxMachineNumber, &game.IsActive, &game.CreatedAt, &game.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		games = append(games, game)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return games, nil
}

func (repo *GameRepository) GetGameByID(id int64) (*model.Game, error) {
	const op = "repository.game.GetGameByID"

	const query = "SELECT id,name,description,numbers_count,max_number,machine_numbers_count," +
		"max_machine_number,is_active,created_at,updated_at FROM games WHERE id = ?"

	row, err := repo.dbhandler.PrepareAndQueryRow(query, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	game := &model.Game{}

	err = row.Scan(&game.ID, &game.Name, &game.Description, &game.NumbersCount, &game.MaxNumber,
		&game.MachineNumbersCount, &game.MaxMachineNumber, &game.IsActive, &game.CreatedAt, &game.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return game, nil
}

func (repo *GameRepository) FindGameByName(name string) (*model.Game, error) {
	const op = "repository.game.FindGameByName"

	const query = "SELECT id,name,description,numbers_count,max_number,machine_numbers_count," +
		"max_machine_number,is_active,created_at,updated_at FROM games WHERE name = ?"

	row, err := repo.dbhandler.PrepareAndQueryRow(query, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	game := &model.Game{}

	err = row.Scan(&game.ID, &game.Name, &game.Description, &game.NumbersCount, &game.MaxNumber,
		&game.MachineNumbersCount, &game.MaxMachineNumber, &game.IsActive, &game.CreatedAt, &game.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return game, nil
}

func (repo *GameRepository) SaveGame(game model.Game) (int64, error) {
	const op = "repository.game.SaveGame"

	const query = "INSERT INTO games(name, description, numbers_count, max_number, machine_numbers_count," +
		" max_machine_number, is_active, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)"

	now := time.Now()

	res, err := repo.dbhandler.PrepareAndExecute(query, game.Name, game.Description, game.NumbersCount,
		game.MaxNumber, game.MachineNumbersCount, game.MaxMachineNumber, game.IsActive, now, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}
