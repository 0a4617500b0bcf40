// Package sales turns admin orders into dashboard chart series.
package sales

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
)

var ErrUnknownRange = errors.New("unknown sales range")

type Range string

const (
	Today    Range = "today"
	Week     Range = "week"
	Month    Range = "month"
	Year     Range = "year"
	Lifetime Range = "lifetime"
)

func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case Today, Week, Month, Year, Lifetime:
		return r, nil
	case "":
		return Week, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRange, s)
}

// Point is one bar of the sales chart.
type Point struct {
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

type window struct {
	start time.Time
	// seeds are the bucket keys shown even without orders, oldest first
	seeds []time.Time
	key   func(time.Time) time.Time
	label func(time.Time) string
}

func windowFor(r Range, now time.Time) (window, error) {
	loc := now.Location()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	day := func(t time.Time) time.Time { return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc) }
	dayLabel := func(t time.Time) string { return t.Format("Jan 2") }

	switch r {
	case Today:
		w := window{
			start: midnight,
			key:   func(t time.Time) time.Time { return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc) },
			label: func(t time.Time) string { return fmt.Sprintf("%d:00", t.Hour()) },
		}
		for h := 0; h <= now.Hour(); h++ {
			w.seeds = append(w.seeds, time.Date(now.Year(), now.Month(), now.Day(), h, 0, 0, 0, loc))
		}
		return w, nil

	case Week, Month:
		days := 7
		if r == Month {
			days = 30
		}
		w := window{start: midnight.AddDate(0, 0, -(days - 1)), key: day, label: dayLabel}
		for i := 0; i < days; i++ {
			w.seeds = append(w.seeds, w.start.AddDate(0, 0, i))
		}
		return w, nil

	case Year:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -11, 0)
		w := window{
			start: first,
			key:   func(t time.Time) time.Time { return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc) },
			label: func(t time.Time) string { return t.Format("Jan 2006") },
		}
		for i := 0; i < 12; i++ {
			w.seeds = append(w.seeds, first.AddDate(0, i, 0))
		}
		return w, nil

	case Lifetime:
		return window{
			key:   func(t time.Time) time.Time { return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, loc) },
			label: func(t time.Time) string { return t.Format("2006") },
		}, nil
	}
	return window{}, fmt.Errorf("%w: %q", ErrUnknownRange, r)
}

func (w window) contains(t, now time.Time) bool {
	return !t.Before(w.start) && !t.After(now)
}

// Bucket sums order totals per label within the range ending at now. Windowed
// ranges come back oldest first with empty buckets at zero; lifetime buckets
// follow the order in which their years first appear. Cancelled orders are not
// counted.
func Bucket(orders []domain.Order, r Range, now time.Time) ([]Point, error) {
	w, err := windowFor(r, now)
	if err != nil {
		return nil, err
	}

	totals := make(map[int64]float64, len(w.seeds))
	order := make([]time.Time, 0, len(w.seeds))
	for _, s := range w.seeds {
		totals[s.Unix()] = 0
		order = append(order, s)
	}

	for _, o := range orders {
		if o.Status == domain.OrderStatusCancelled {
			continue
		}
		t := o.CreatedAt.In(now.Location())
		if !w.contains(t, now) {
			continue
		}
		k := w.key(t)
		if _, seen := totals[k.Unix()]; !seen {
			order = append(order, k)
		}
		totals[k.Unix()] += o.TotalAmount
	}

	points := make([]Point, 0, len(order))
	for _, k := range order {
		points = append(points, Point{Label: w.label(k), Total: totals[k.Unix()]})
	}
	return points, nil
}

type Summary struct {
	Orders   int                        `json:"orders"`
	Revenue  float64                    `json:"revenue"`
	ByStatus map[domain.OrderStatus]int `json:"byStatus"`
}

// Summarize counts the orders inside the range; revenue excludes cancelled orders.
func Summarize(orders []domain.Order, r Range, now time.Time) (Summary, error) {
	w, err := windowFor(r, now)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{ByStatus: map[domain.OrderStatus]int{}}
	for _, o := range orders {
		if !w.contains(o.CreatedAt.In(now.Location()), now) {
			continue
		}
		s.Orders++
		s.ByStatus[o.Status]++
		if o.Status != domain.OrderStatusCancelled {
			s.Revenue += o.TotalAmount
		}
	}
	return s, nil
}
