package app

import (
	"context"
	"sort"
	"strings"
	"time"

	"tableflip.dev/dosebook/pkg/dose"
	"tableflip.dev/dosebook/pkg/logbook"
)

// HistoryDay groups the doses logged on one date.
type HistoryDay struct {
	Date    time.Time
	Entries []logbook.Entry
	TotalMg float64
}

// History is the dose history of a vial within a time window.
type History struct {
	Vial    string
	Since   time.Time
	Until   time.Time
	Days    []HistoryDay
	Total   int
	TotalMg float64
}

// History returns vial's doses between since and until, oldest day first.
// Rows whose timestamp cannot be parsed are left out.
func (s *Service) History(ctx context.Context, vial string, since, until time.Time) (History, error) {
	if since.After(until) {
		since, until = until, since
	}
	vial = strings.TrimSpace(vial)
	entries, err := s.LogStore.Entries(ctx, vial)
	if err != nil {
		return History{}, err
	}

	byDay := make(map[string]*HistoryDay)
	result := History{Vial: vial, Since: since, Until: until}
	for _, e := range entries {
		at, err := e.Time()
		if err != nil {
			continue
		}
		if at.Before(since) || at.After(until) {
			continue
		}
		day, ok := byDay[e.Date()]
		if !ok {
			y, m, d := at.Date()
			day = &HistoryDay{Date: time.Date(y, m, d, 0, 0, 0, 0, at.Location())}
			byDay[e.Date()] = day
		}
		day.Entries = append(day.Entries, e)
		day.TotalMg = dose.Round(day.TotalMg+e.DoseMg, 3)
		result.Total++
		result.TotalMg = dose.Round(result.TotalMg+e.DoseMg, 3)
	}

	for _, day := range byDay {
		sort.SliceStable(day.Entries, func(i, j int) bool {
			left, _ := day.Entries[i].Time()
			right, _ := day.Entries[j].Time()
			return left.Before(right)
		})
		result.Days = append(result.Days, *day)
	}
	sort.Slice(result.Days, func(i, j int) bool {
		return result.Days[i].Date.Before(result.Days[j].Date)
	})
	return result, nil
}
