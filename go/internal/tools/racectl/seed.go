package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/kpcrmv4/AProject/go/internal/accesscode"
	"github.com/kpcrmv4/AProject/go/internal/dbconfig"
	"github.com/kpcrmv4/AProject/go/internal/racedb"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SeedFile describes one event to load. JSON files parse as well.
type SeedFile struct {
	Event       SeedEvent        `yaml:"event"`
	Classes     []SeedClass      `yaml:"classes"`
	Checkpoints []SeedCheckpoint `yaml:"checkpoints"`
	Racers      []SeedRacer      `yaml:"racers"`
}

type SeedEvent struct {
	AdminID   uuid.UUID `yaml:"admin_id"`
	Slug      string    `yaml:"slug"`
	Name      string    `yaml:"name"`
	RaceDate  string    `yaml:"race_date"`
	Published bool      `yaml:"published"`
}

type SeedClass struct {
	Name        string   `yaml:"name"`
	SortOrder   int      `yaml:"sort_order"`
	Checkpoints []string `yaml:"checkpoints"`
}

type SeedCheckpoint struct {
	Name      string `yaml:"name"`
	SortOrder int    `yaml:"sort_order"`
}

type SeedRacer struct {
	Name    string      `yaml:"name"`
	Team    *string     `yaml:"team"`
	Entries []SeedEntry `yaml:"entries"`
}

type SeedEntry struct {
	Class      string `yaml:"class"`
	RaceNumber int    `yaml:"race_number"`
}

func parseSeedFile(data []byte) (*SeedFile, time.Time, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, time.Time{}, fmt.Errorf("parse seed file: %w", err)
	}

	raceDate, err := time.Parse(time.DateOnly, seed.Event.RaceDate)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("event.race_date: %w", err)
	}

	var problems []string
	if seed.Event.AdminID == uuid.Nil {
		problems = append(problems, "event.admin_id is required")
	}
	if strings.TrimSpace(seed.Event.Slug) == "" || strings.TrimSpace(seed.Event.Name) == "" {
		problems = append(problems, "event.slug and event.name are required")
	}

	checkpointNames := lo.Map(seed.Checkpoints, func(cp SeedCheckpoint, _ int) string {
		return cp.Name
	})
	if dup := lo.FindDuplicates(checkpointNames); len(dup) > 0 {
		problems = append(problems, fmt.Sprintf("duplicate checkpoint names %v", dup))
	}

	classNames := make(map[string]bool, len(seed.Classes))
	for _, class := range seed.Classes {
		classNames[class.Name] = true
		for _, cp := range class.Checkpoints {
			if !lo.Contains(checkpointNames, cp) {
				problems = append(problems, fmt.Sprintf("class %q maps unknown checkpoint %q", class.Name, cp))
			}
		}
		if len(class.Checkpoints) == 1 {
			problems = append(problems, fmt.Sprintf("class %q must map at least two checkpoints", class.Name))
		}
	}

	numbers := make(map[string]map[int]bool)
	for _, racer := range seed.Racers {
		for _, entry := range racer.Entries {
			if !classNames[entry.Class] {
				problems = append(problems, fmt.Sprintf("racer %q enters unknown class %q", racer.Name, entry.Class))
				continue
			}
			if entry.RaceNumber < 1 {
				problems = append(problems, fmt.Sprintf("racer %q has race number %d", racer.Name, entry.RaceNumber))
			}
			if numbers[entry.Class] == nil {
				numbers[entry.Class] = map[int]bool{}
			}
			if numbers[entry.Class][entry.RaceNumber] {
				problems = append(problems, fmt.Sprintf("race number %d used twice in class %q", entry.RaceNumber, entry.Class))
			}
			numbers[entry.Class][entry.RaceNumber] = true
		}
	}

	if len(problems) > 0 {
		return nil, time.Time{}, errors.New(strings.Join(problems, "; "))
	}
	return &seed, raceDate, nil
}

func newSeedCmd(opts *globalOptions) *cobra.Command {
	var timezone string
	cmd := &cobra.Command{
		Use:   "seed <file>",
		Short: "Load an event with classes, checkpoints and racers from a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read seed file: %w", err)
			}
			seed, raceDate, err := parseSeedFile(data)
			if err != nil {
				return err
			}
			loc, err := time.LoadLocation(timezone)
			if err != nil {
				return fmt.Errorf("invalid --timezone: %w", err)
			}

			ctx := cmd.Context()
			pool, err := pgxpool.New(ctx, opts.dbURL)
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer pool.Close()

			eventID, err := insertSeed(ctx, pool, seed, raceDate)
			if err != nil {
				return err
			}

			// checkpoints go in with an expired placeholder; real codes are issued here
			db, err := dbconfig.Open(ctx, opts.dbURL)
			if err != nil {
				return err
			}
			defer db.Close()
			app := accesscode.NewApp(accesscode.NewRepository(racedb.New(db), db), clockwork.NewRealClock(), loc)
			rotated, err := app.RotateEvent(ctx, eventID)
			if err != nil {
				return fmt.Errorf("issue access codes: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "event %s (%s)\n", eventID, seed.Event.Slug)
			for _, cp := range rotated {
				fmt.Fprintf(out, "  %-24s %s\n", cp.Name, cp.AccessCode)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&timezone, "timezone", "Asia/Bangkok", "race-day zone for code expiry")
	return cmd
}

func insertSeed(ctx context.Context, pool *pgxpool.Pool, seed *SeedFile, raceDate time.Time) (uuid.UUID, error) {
	eventID := uuid.New()
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO events (id, admin_id, slug, name, race_date, published) VALUES ($1, $2, $3, $4, $5, $6)`,
			eventID, seed.Event.AdminID, seed.Event.Slug, seed.Event.Name, raceDate, seed.Event.Published); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}

		checkpointIDs := make(map[string]uuid.UUID, len(seed.Checkpoints))
		for _, cp := range seed.Checkpoints {
			id := uuid.New()
			checkpointIDs[cp.Name] = id
			if _, err := tx.Exec(ctx,
				`INSERT INTO checkpoints (id, event_id, name, sort_order, access_code, code_expires_at) VALUES ($1, $2, $3, $4, '0000', now())`,
				id, eventID, cp.Name, cp.SortOrder); err != nil {
				return fmt.Errorf("insert checkpoint %q: %w", cp.Name, err)
			}
		}

		classIDs := make(map[string]uuid.UUID, len(seed.Classes))
		for _, class := range seed.Classes {
			id := uuid.New()
			classIDs[class.Name] = id
			if _, err := tx.Exec(ctx,
				`INSERT INTO classes (id, event_id, name, sort_order) VALUES ($1, $2, $3, $4)`,
				id, eventID, class.Name, class.SortOrder); err != nil {
				return fmt.Errorf("insert class %q: %w", class.Name, err)
			}
			for _, cp := range class.Checkpoints {
				if _, err := tx.Exec(ctx,
					`INSERT INTO class_checkpoints (class_id, checkpoint_id) VALUES ($1, $2)`,
					id, checkpointIDs[cp]); err != nil {
					return fmt.Errorf("map class %q to %q: %w", class.Name, cp, err)
				}
			}
		}

		for _, racer := range seed.Racers {
			racerID := uuid.New()
			if _, err := tx.Exec(ctx,
				`INSERT INTO racers (id, event_id, name, team) VALUES ($1, $2, $3, $4)`,
				racerID, eventID, racer.Name, racer.Team); err != nil {
				return fmt.Errorf("insert racer %q: %w", racer.Name, err)
			}
			for _, entry := range racer.Entries {
				if _, err := tx.Exec(ctx,
					`INSERT INTO racer_classes (id, racer_id, class_id, race_number, confirmed) VALUES ($1, $2, $3, $4, true)`,
					uuid.New(), racerID, classIDs[entry.Class], entry.RaceNumber); err != nil {
					return fmt.Errorf("enter racer %q in %q: %w", racer.Name, entry.Class, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	log.Info().
		Str("event_id", eventID.String()).
		Int("checkpoints", len(seed.Checkpoints)).
		Int("classes", len(seed.Classes)).
		Int("racers", len(seed.Racers)).
		Msg("seeded event")
	return eventID, nil
}
