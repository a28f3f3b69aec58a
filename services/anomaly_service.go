package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/Amadou-dot/infrasight-sub001/config"
	"github.com/Amadou-dot/infrasight-sub001/models"
)

// Bucket granularities for anomaly trends
const (
	BucketMinute = "minute"
	BucketHour   = "hour"
	BucketDay    = "day"
	BucketWeek   = "week"
	BucketMonth  = "month"
)

// ValidBucket reports whether b names a supported trend granularity
func ValidBucket(b string) bool {
	switch b {
	case BucketMinute, BucketHour, BucketDay, BucketWeek, BucketMonth:
		return true
	}
	return false
}

// ValidAnomalySortField reports whether f is a sortable anomaly field
func ValidAnomalySortField(f string) bool {
	switch f {
	case "anomaly_score", "value", "timestamp":
		return true
	}
	return false
}

// Upper bound on candidate rows pulled for one aggregation call
const anomalyFetchCap = 10000

// AnomalyRequest carries the normalized filters of an anomaly query.
// Empty slices and nil scalars mean "no constraint".
type AnomalyRequest struct {
	DeviceIDs []string
	Types     []string
	StartTime *time.Time
	EndTime   *time.Time
	MinScore  *float64
	Bucket    string // "" disables trends
	SortBy    string // anomaly_score | value | timestamp
	SortDesc  bool
	Page      int
	Limit     int
}

// InterfaceAnomalyService defines the anomaly analytics interface
type InterfaceAnomalyService interface {
	GetAnomalyReport(req AnomalyRequest) (*models.AnomalyReport, error)
}

// AnomalyService aggregates flagged readings into breakdowns and
// time-bucketed trends
type AnomalyService struct {
	Gateway InterfaceTelemetryGateway
	Config  *config.Config
}

// NewAnomalyService creates a new anomaly service
func NewAnomalyService(gateway InterfaceTelemetryGateway, cfg *config.Config) InterfaceAnomalyService {
	return &AnomalyService{
		Gateway: gateway,
		Config:  cfg,
	}
}

// GetAnomalyReport filters flagged readings and computes the breakdowns,
// sorted page and optional trend series
func (s *AnomalyService) GetAnomalyReport(req AnomalyRequest) (*models.AnomalyReport, error) {
	page := models.PaginationQuery{Page: req.Page, Limit: req.Limit}
	page.Normalize()

	isAnomaly := true
	candidates, err := s.Gateway.FindReadings(ReadingFilter{
		DeviceIDs: req.DeviceIDs,
		Types:     req.Types,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		MinScore:  req.MinScore,
		IsAnomaly: &isAnomaly,
	}, nil, anomalyFetchCap)
	if err != nil {
		return nil, err
	}

	report := &models.AnomalyReport{
		TotalCount: len(candidates),
		ByDevice:   make(map[string]models.DeviceAnomalyStats),
		ByType:     make(map[models.ReadingType]models.TypeAnomalyStats),
		FiltersApplied: models.AnomalyFilters{
			DeviceIDs: req.DeviceIDs,
			Types:     req.Types,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			MinScore:  req.MinScore,
			Bucket:    req.Bucket,
		},
		Pagination: models.NewPaginationResult(len(candidates), page.Page, page.Limit),
	}

	// Breakdowns run over the full candidate set, not the returned page.
	deviceSums := make(map[string]float64)
	typeSums := make(map[models.ReadingType]float64)
	for _, r := range candidates {
		score := anomalyScore(&r)

		ds := report.ByDevice[r.DeviceID]
		ds.Count++
		deviceSums[r.DeviceID] += score
		if r.Timestamp.After(ds.LatestTimestamp) {
			ds.LatestTimestamp = r.Timestamp
		}
		report.ByDevice[r.DeviceID] = ds

		ts := report.ByType[r.Type]
		ts.Count++
		typeSums[r.Type] += score
		report.ByType[r.Type] = ts
	}
	for id, ds := range report.ByDevice {
		ds.AvgScore = deviceSums[id] / float64(ds.Count)
		report.ByDevice[id] = ds
	}
	for t, ts := range report.ByType {
		ts.AvgScore = typeSums[t] / float64(ts.Count)
		report.ByType[t] = ts
	}

	if req.Bucket != "" {
		report.Trends = bucketTrends(candidates, req.Bucket)
	}

	sortAnomalies(candidates, req.SortBy, req.SortDesc)

	start := page.Offset()
	if start > len(candidates) {
		start = len(candidates)
	}
	end := start + page.Limit
	if end > len(candidates) {
		end = len(candidates)
	}
	report.Anomalies = candidates[start:end]

	return report, nil
}

// sortAnomalies sorts in place by the requested key. The sort is stable:
// ties keep the fetched order, no secondary key is imposed.
func sortAnomalies(readings []models.Reading, field string, desc bool) {
	var less func(a, b *models.Reading) bool
	switch field {
	case "anomaly_score":
		less = func(a, b *models.Reading) bool { return anomalyScore(a) < anomalyScore(b) }
	case "value":
		less = func(a, b *models.Reading) bool { return a.Value < b.Value }
	default:
		less = func(a, b *models.Reading) bool { return a.Timestamp.Before(b.Timestamp) }
	}

	sort.SliceStable(readings, func(i, j int) bool {
		if desc {
			return less(&readings[j], &readings[i])
		}
		return less(&readings[i], &readings[j])
	})
}

// bucketTrends maps each anomaly into a calendar bucket and aggregates
// count/avg/max per bucket. Empty buckets are never emitted; labels come
// back in ascending order.
func bucketTrends(readings []models.Reading, granularity string) []models.TrendPoint {
	type agg struct {
		count int
		sum   float64
		max   float64
	}
	buckets := make(map[string]*agg)

	for i := range readings {
		label := bucketLabel(readings[i].Timestamp, granularity)
		score := anomalyScore(&readings[i])

		b, ok := buckets[label]
		if !ok {
			b = &agg{}
			buckets[label] = b
		}
		b.count++
		b.sum += score
		if score > b.max {
			b.max = score
		}
	}

	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	trends := make([]models.TrendPoint, 0, len(labels))
	for _, label := range labels {
		b := buckets[label]
		trends = append(trends, models.TrendPoint{
			Bucket:   label,
			Count:    b.count,
			AvgScore: b.sum / float64(b.count),
			MaxScore: b.max,
		})
	}

	return trends
}

// bucketLabel maps a timestamp to its bucket label. Timestamps are
// normalized to UTC so bucket edges do not depend on server locale.
func bucketLabel(t time.Time, granularity string) string {
	t = t.UTC()
	switch granularity {
	case BucketMinute:
		return t.Format("2006-01-02T15:04:00")
	case BucketHour:
		return t.Format("2006-01-02T15:00:00")
	case BucketDay:
		return t.Format("2006-01-02")
	case BucketWeek:
		// ISO-8601 week: week 1 holds the year's first Thursday
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case BucketMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

func anomalyScore(r *models.Reading) float64 {
	if r.AnomalyScore != nil {
		return *r.AnomalyScore
	}
	return 0
}
