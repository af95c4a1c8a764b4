// Package ranking turns checkpoint passages, penalties and DNF declarations
// into an ordered leaderboard.
package ranking

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kpcrmv4/AProject/go/internal/models"
	"github.com/samber/lo"
)

// Status of a racer on the leaderboard.
type Status string

const (
	StatusRacing   Status = "racing"
	StatusFinished Status = "finished"
	StatusDnf      Status = "dnf"
)

// Entry is one racer registered in one class, in registration order.
type Entry struct {
	RacerID    uuid.UUID
	RacerName  string
	RaceNumber int
	Team       *string
	ClassID    uuid.UUID
	ClassName  string
}

// CheckpointRef is a checkpoint in traversal order.
type CheckpointRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CheckpointTime is a racer's passage at one checkpoint; Time is nil if not punched.
type CheckpointTime struct {
	CheckpointID   uuid.UUID  `json:"checkpoint_id"`
	CheckpointName string     `json:"checkpoint_name"`
	Time           *time.Time `json:"time"`
}

// RankedRacer is one leaderboard row. Rank and Gap are set only for finished racers.
type RankedRacer struct {
	RacerID        uuid.UUID        `json:"racer_id"`
	RacerName      string           `json:"racer_name"`
	RaceNumber     int              `json:"racer_number"`
	Team           *string          `json:"team"`
	ClassID        uuid.UUID        `json:"class_id"`
	ClassName      string           `json:"class_name"`
	Checkpoints    []CheckpointTime `json:"checkpoints"`
	TotalSeconds   *int             `json:"total_seconds"`
	PenaltySeconds int              `json:"penalty_seconds"`
	FinalSeconds   *int             `json:"final_seconds"`
	Rank           *int             `json:"rank"`
	Status         Status           `json:"status"`
	Gap            *int             `json:"gap"`
}

type passageKey struct {
	racerID      uuid.UUID
	checkpointID uuid.UUID
}

// Rank computes the leaderboard for entries. It is pure: the same inputs
// always give the same ordered output.
//
// Elapsed time runs from the first to the last punched checkpoint in order,
// so a racer needs two passages to be timed. Finished racers come first by
// final time (ties keep entry order), then racing, then dnf, both in entry
// order. Rank and gap are relative to the finished racers in entries only.
func Rank(entries []Entry, timestamps []models.Timestamp, penalties []models.Penalty, dnfs []models.DnfRecord, order []CheckpointRef) []RankedRacer {
	passages := make(map[passageKey]time.Time, len(timestamps))
	for _, ts := range timestamps {
		passages[passageKey{racerID: ts.RacerID, checkpointID: ts.CheckpointID}] = ts.RecordedAt
	}

	penaltySeconds := lo.MapValues(
		lo.GroupBy(penalties, func(p models.Penalty) uuid.UUID { return p.RacerID }),
		func(ps []models.Penalty, _ uuid.UUID) int {
			return lo.SumBy(ps, func(p models.Penalty) int { return p.Seconds })
		},
	)
	dnfRacers := lo.SliceToMap(dnfs, func(d models.DnfRecord) (uuid.UUID, struct{}) {
		return d.RacerID, struct{}{}
	})

	rows := make([]RankedRacer, len(entries))
	for i, e := range entries {
		rows[i] = rankEntry(e, passages, penaltySeconds[e.RacerID], order)
		if _, dnf := dnfRacers[e.RacerID]; dnf {
			rows[i].Status = StatusDnf
		}
	}

	finished := lo.Filter(rows, func(r RankedRacer, _ int) bool { return r.Status == StatusFinished })
	racing := lo.Filter(rows, func(r RankedRacer, _ int) bool { return r.Status == StatusRacing })
	dnf := lo.Filter(rows, func(r RankedRacer, _ int) bool { return r.Status == StatusDnf })

	sort.SliceStable(finished, func(i, j int) bool {
		return *finished[i].FinalSeconds < *finished[j].FinalSeconds
	})
	if len(finished) > 0 {
		leader := *finished[0].FinalSeconds
		for i := range finished {
			rank := i + 1
			gap := *finished[i].FinalSeconds - leader
			finished[i].Rank = &rank
			finished[i].Gap = &gap
		}
	}

	out := make([]RankedRacer, 0, len(rows))
	out = append(out, finished...)
	out = append(out, racing...)
	return append(out, dnf...)
}

func rankEntry(e Entry, passages map[passageKey]time.Time, penalty int, order []CheckpointRef) RankedRacer {
	row := RankedRacer{
		RacerID:        e.RacerID,
		RacerName:      e.RacerName,
		RaceNumber:     e.RaceNumber,
		Team:           e.Team,
		ClassID:        e.ClassID,
		ClassName:      e.ClassName,
		Checkpoints:    make([]CheckpointTime, len(order)),
		PenaltySeconds: penalty,
		Status:         StatusRacing,
	}

	var first, last *time.Time
	punched := 0
	for i, cp := range order {
		row.Checkpoints[i] = CheckpointTime{CheckpointID: cp.ID, CheckpointName: cp.Name}
		at, ok := passages[passageKey{racerID: e.RacerID, checkpointID: cp.ID}]
		if !ok {
			continue
		}
		row.Checkpoints[i].Time = &at
		if first == nil {
			first = &at
		}
		last = &at
		punched++
	}

	if punched >= 2 {
		total := roundSeconds(last.Sub(*first))
		final := total + penalty
		row.TotalSeconds = &total
		row.FinalSeconds = &final
		row.Status = StatusFinished
	}
	return row
}

// roundSeconds rounds half up to whole seconds.
func roundSeconds(d time.Duration) int {
	return int(math.Floor(d.Seconds() + 0.5))
}
