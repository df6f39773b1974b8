package domain

import (
	"fmt"
	"time"
)

// StatsPeriod - период, за который считается статистика модератора.
type StatsPeriod string

const (
	PeriodToday StatsPeriod = "today"
	PeriodWeek  StatsPeriod = "week"
	PeriodMonth StatsPeriod = "month"
)

func ParseStatsPeriod(s string) (StatsPeriod, error) {
	switch StatsPeriod(s) {
	case PeriodToday, PeriodWeek, PeriodMonth:
		return StatsPeriod(s), nil
	case "":
		return PeriodWeek, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
}

// Days - сколько календарных дней (включая сегодняшний) покрывает период.
func (p StatsPeriod) Days() int {
	switch p {
	case PeriodToday:
		return 1
	case PeriodMonth:
		return 30
	}
	return 7
}

// Since - начало периода относительно now (полночь в часовом поясе now).
func (p StatsPeriod) Since(now time.Time) time.Time {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -(p.Days() - 1))
}

type StatsSummary struct {
	TotalReviewed        int
	TotalReviewedToday   int
	TotalReviewedWeek    int
	TotalReviewedMonth   int
	ApprovedPercentage   float64
	RejectedPercentage   float64
	RequestChangesPct    float64
	AverageReviewTimeMin float64
}

// ActivityPoint - число решений за один день.
type ActivityPoint struct {
	Date           time.Time
	Approved       int
	Rejected       int
	RequestChanges int
}

// DecisionsDistribution - доли решений за период, в процентах.
type DecisionsDistribution struct {
	Approved       float64
	Rejected       float64
	RequestChanges float64
}

// StatsSnapshot - согласованный набор данных статистики за один период,
// который читают внешние потребители (графики, экспорт).
type StatsSnapshot struct {
	Period     StatsPeriod
	Summary    StatsSummary
	Activity   []ActivityPoint
	Decisions  DecisionsDistribution
	Categories map[string]int
	LoadedAt   time.Time
}
