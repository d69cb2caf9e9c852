package seed

import (
	"fmt"

	"golang.org/x/exp/slog"

	"resultpost/internal/http-server/model"
	"resultpost/internal/lib/logger/sl"
)

type GameStore interface {
	FindGameByName(name string) (*model.Game, error)
	SaveGame(game model.Game) (int64, error)
}

type catalogEntry struct {
	name        string
	description string
}

// catalog is the fixed national and Rand Lottery game list. Every game is a
// 5/90 draw with five machine numbers.
var catalog = []catalogEntry{
	{"VAG MONDAY", "National - shutoff 10:00am"},
	{"VAG TUESDAY", "National - shutoff 10:00am"},
	{"VAG WEDNESDAY", "National - shutoff 10:00am"},
	{"VAG THURSDAY", "National - shutoff 10:00am"},
	{"VAG FRIDAY", "National - shutoff 10:00am"},
	{"VAG SATURDAY", "National - shutoff 10:00am"},
	{"MONDAY NOONRUSH", "National - shutoff 1:30pm"},
	{"TUESDAY NOONRUSH", "National - shutoff 1:30pm"},
	{"WEDNESDAY NOONRUSH", "National - shutoff 1:30pm"},
	{"THURSDAY NOONRUSH", "National - shutoff 1:30pm"},
	{"FRIDAY NOONRUSH", "National - shutoff 1:30pm"},
	{"SATURDAY NOONRUSH", "National - shutoff 1:30pm"},
	{"MONDAY SPECIAL", "National - shutoff 7:15pm"},
	{"LUCKY TUESDAY", "National - shutoff 7:15pm"},
	{"MID-WEEK", "National - shutoff 7:15pm"},
	{"FORTUNE THURSDAY", "National - shutoff 7:15pm"},
	{"FRIDAY BONANZA", "National - shutoff 7:15pm"},
	{"NATIONAL", "National - shutoff 7:15pm"},
	{"ASEDA", "National - shutoff 7:15pm"},
	{"BINGO4", "Rand Lottery - shutoff 6:50am"},
	{"GOLDEN SOUVENIR", "Rand Lottery - shutoff 6:50am"},
	{"CASH4LIFE", "Rand Lottery - shutoff 6:50am"},
	{"ENDOWMENT LOTTO", "Rand Lottery - shutoff 6:50am"},
	{"SIKA KESE", "Rand Lottery - shutoff 6:50am"},
	{"SAMEDI SOIR", "Rand Lottery - shutoff 6:50am"},
	{"STAR LOTTO", "Rand Lottery - shutoff 6:50am"},
}

// Games inserts the catalog, skipping names that already exist, so the seed
// is safe to run repeatedly.
func Games(log *slog.Logger, store GameStore) error {
	const op = "seed.Games"

	seeded := 0

	for _, entry := range catalog {
		existing, err := store.FindGameByName(entry.name)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if existing != nil {
			continue
		}

		description := entry.description

		id, err := store.SaveGame(model.Game{
			Name:                entry.name,
			Description:         &description,
			NumbersCount:        5,
			MaxNumber:           90,
			MachineNumbersCount: 5,
			MaxMachineNumber:    90,
			IsActive:            true,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		log.Info("game seeded",
			sl.String("name", entry.name),
			slog.Int64("game_id", id))

		seeded++
	}

	log.Info("seed finished", slog.Int("seeded", seeded), slog.Int("catalog", len(catalog)))

	return nil
}
