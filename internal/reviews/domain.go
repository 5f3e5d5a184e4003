package reviews

import (
	"math"
	"sort"
	"time"
)

// Review is a customer review for a product. Each user gets at most one
// review per product.
type Review struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	UserID       string    `json:"userId"`
	Rating       int       `json:"rating"`
	Title        string    `json:"title,omitempty"`
	Comment      string    `json:"comment,omitempty"`
	Images       []string  `json:"images,omitempty"`
	HelpfulCount int       `json:"helpfulCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RatingSummary aggregates review ratings for a product.
type RatingSummary struct {
	TotalReviews  int         `json:"totalReviews"`
	AverageRating float64     `json:"averageRating"`
	Distribution  map[int]int `json:"distribution"`
}

// Aggregate folds raw ratings into a summary. Ratings outside 1..5 are
// ignored. The average is rounded to one decimal place and the
// distribution always carries all five buckets.
func Aggregate(ratings []int) RatingSummary {
	dist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	sum, count := 0, 0
	for _, r := range ratings {
		if r < 1 || r > 5 {
			continue
		}
		dist[r]++
		sum += r
		count++
	}
	avg := 0.0
	if count > 0 {
		avg = math.Round(float64(sum)/float64(count)*10) / 10
	}
	return RatingSummary{TotalReviews: count, AverageRating: avg, Distribution: dist}
}

// SortOrder selects how product reviews are ordered.
type SortOrder string

const (
	SortNewest  SortOrder = "newest"
	SortOldest  SortOrder = "oldest"
	SortHighest SortOrder = "highest"
	SortLowest  SortOrder = "lowest"
)

// ParseSortOrder maps a query parameter to a sort order, defaulting to
// newest first.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortOldest, SortHighest, SortLowest:
		return SortOrder(s)
	default:
		return SortNewest
	}
}

// Sorted returns a copy of reviews ordered by the given sort. Ties keep
// their relative order.
func Sorted(in []Review, order SortOrder) []Review {
	out := make([]Review, len(in))
	copy(out, in)
	switch order {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	case SortHighest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortLowest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating < out[j].Rating })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}
