package services

import (
	"testing"
	"time"

	"github.com/Amadou-dot/infrasight-sub001/models"
)

func anomalyReading(device string, rt models.ReadingType, ts time.Time, score float64) models.Reading {
	return models.Reading{
		DeviceID:     device,
		Type:         rt,
		Timestamp:    ts,
		Value:        score * 100,
		IsAnomaly:    true,
		AnomalyScore: &score,
	}
}

func anomalyFixture() *fakeGateway {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	normalScore := 0.1
	return &fakeGateway{readings: []models.Reading{
		anomalyReading("d1", models.ReadingTypeTemperature, base, 0.9),
		anomalyReading("d1", models.ReadingTypeTemperature, base.Add(30*time.Minute), 0.7),
		anomalyReading("d2", models.ReadingTypeCO2, base.Add(2*time.Hour), 0.8),
		anomalyReading("d2", models.ReadingTypeHumidity, base.Add(26*time.Hour), 0.6),
		// Not flagged; must never enter a report.
		{DeviceID: "d1", Type: models.ReadingTypeTemperature, Timestamp: base, Value: 21, AnomalyScore: &normalScore},
	}}
}

func TestGetAnomalyReportOnlyFlaggedReadings(t *testing.T) {
	svc := &AnomalyService{Gateway: anomalyFixture()}

	report, err := svc.GetAnomalyReport(AnomalyRequest{})
	if err != nil {
		t.Fatalf("GetAnomalyReport: %v", err)
	}
	if report.TotalCount != 4 {
		t.Fatalf("expected 4 anomalies, got %d", report.TotalCount)
	}
	for _, r := range report.Anomalies {
		if !r.IsAnomaly {
			t.Fatalf("unflagged reading leaked into report: %+v", r)
		}
	}
}

func TestGetAnomalyReportBreakdowns(t *testing.T) {
	svc := &AnomalyService{Gateway: anomalyFixture()}

	report, err := svc.GetAnomalyReport(AnomalyRequest{})
	if err != nil {
		t.Fatalf("GetAnomalyReport: %v", err)
	}

	d1 := report.ByDevice["d1"]
	if d1.Count != 2 {
		t.Fatalf("expected 2 anomalies for d1, got %d", d1.Count)
	}
	if d1.AvgScore != 0.8 {
		t.Fatalf("expected d1 avg score 0.8, got %v", d1.AvgScore)
	}
	want := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	if !d1.LatestTimestamp.Equal(want) {
		t.Fatalf("expected d1 latest %v, got %v", want, d1.LatestTimestamp)
	}

	sum := 0
	for _, ds := range report.ByDevice {
		sum += ds.Count
	}
	if sum != report.TotalCount {
		t.Fatalf("by_device counts sum to %d, total is %d", sum, report.TotalCount)
	}

	sum = 0
	for _, ts := range report.ByType {
		sum += ts.Count
	}
	if sum != report.TotalCount {
		t.Fatalf("by_type counts sum to %d, total is %d", sum, report.TotalCount)
	}
	if report.ByType[models.ReadingTypeTemperature].Count != 2 {
		t.Fatalf("expected 2 temperature anomalies, got %d", report.ByType[models.ReadingTypeTemperature].Count)
	}
}

func TestGetAnomalyReportBreakdownsCoverAllPages(t *testing.T) {
	svc := &AnomalyService{Gateway: anomalyFixture()}

	report, err := svc.GetAnomalyReport(AnomalyRequest{Page: 1, Limit: 1})
	if err != nil {
		t.Fatalf("GetAnomalyReport: %v", err)
	}
	if len(report.Anomalies) != 1 {
		t.Fatalf("expected 1 anomaly on page, got %d", len(report.Anomalies))
	}
	// Breakdowns and total still describe the full filtered set.
	if report.TotalCount != 4 {
		t.Fatalf("expected total 4, got %d", report.TotalCount)
	}
	if report.ByDevice["d1"].Count != 2 {
		t.Fatalf("breakdowns must cover the full set, got d1 count %d", report.ByDevice["d1"].Count)
	}
	if report.Pagination.Total != 4 || report.Pagination.Page != 1 || report.Pagination.Limit != 1 {
		t.Fatalf("unexpected pagination %+v", report.Pagination)
	}
}

func TestGetAnomalyReportFilters(t *testing.T) {
	svc := &AnomalyService{Gateway: anomalyFixture()}

	minScore := 0.75
	report, err := svc.GetAnomalyReport(AnomalyRequest{
		DeviceIDs: []string{"d1", "d2"},
		Types:     []string{"temperature", "co2"},
		MinScore:  &minScore,
	})
	if err != nil {
		t.Fatalf("GetAnomalyReport: %v", err)
	}
	if report.TotalCount != 2 {
		t.Fatalf("expected 2 anomalies at min score 0.75, got %d", report.TotalCount)
	}
	if report.FiltersApplied.MinScore == nil || *report.FiltersApplied.MinScore != 0.75 {
		t.Fatalf("filters echo lost min_score: %+v", report.FiltersApplied)
	}
}

func TestGetAnomalyReportTimeWindow(t *testing.T) {
	svc := &AnomalyService{Gateway: anomalyFixture()}

	start := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
	report, err := svc.GetAnomalyReport(AnomalyRequest{StartTime: &start, EndTime: &end})
	if err != nil {
		t.Fatalf("GetAnomalyReport: %v", err)
	}
	if report.TotalCount != 1 {
		t.Fatalf("expected 1 anomaly in window, got %d", report.TotalCount)
	}
	if report.Anomalies[0].DeviceID != "d2" {
		t.Fatalf("expected the d2 co2 anomaly, got %+v", report.Anomalies[0])
	}
}

func TestGetAnomalyReportSortByScoreDescending(t *testing.T) {
	svc := &AnomalyService{Gateway: anomalyFixture()}

	report, err := svc.GetAnomalyReport(AnomalyRequest{SortBy: "anomaly_score", SortDesc: true})
	if err != nil {
		t.Fatalf("GetAnomalyReport: %v", err)
	}
	for i := 1; i < len(report.Anomalies); i++ {
		if *report.Anomalies[i].AnomalyScore > *report.Anomalies[i-1].AnomalyScore {
			t.Fatalf("anomalies not in descending score order at %d", i)
		}
	}
	if *report.Anomalies[0].AnomalyScore != 0.9 {
		t.Fatalf("expected top score 0.9, got %v", *report.Anomalies[0].AnomalyScore)
	}
}

func TestSortAnomaliesStableOnTies(t *testing.T) {
	score := 0.5
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	readings := []models.Reading{
		{DeviceID: "a", Timestamp: base, Value: 1, AnomalyScore: &score},
		{DeviceID: "b", Timestamp: base, Value: 2, AnomalyScore: &score},
		{DeviceID: "c", Timestamp: base, Value: 3, AnomalyScore: &score},
	}

	sortAnomalies(readings, "anomaly_score", true)

	// Equal keys keep their input order.
	got := readings[0].DeviceID + readings[1].DeviceID + readings[2].DeviceID
	if got != "abc" {
		t.Fatalf("tie order not preserved, got %s", got)
	}
}

func TestBucketLabelGranularities(t *testing.T) {
	ts := time.Date(2026, 3, 5, 14, 23, 45, 0, time.UTC)

	cases := []struct {
		granularity string
		want        string
	}{
		{BucketMinute, "2026-03-05T14:23:00"},
		{BucketHour, "2026-03-05T14:00:00"},
		{BucketDay, "2026-03-05"},
		{BucketWeek, "2026-W10"},
		{BucketMonth, "2026-03"},
	}
	for _, c := range cases {
		if got := bucketLabel(ts, c.granularity); got != c.want {
			t.Fatalf("%s label: expected %s, got %s", c.granularity, c.want, got)
		}
	}
}

func TestBucketLabelISOWeekYearBoundary(t *testing.T) {
	// 2027-01-01 is a Friday; it belongs to 2026-W53.
	ts := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := bucketLabel(ts, BucketWeek); got != "2026-W53" {
		t.Fatalf("expected 2026-W53, got %s", got)
	}
}

func TestBucketLabelNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2026, 3, 6, 2, 0, 0, 0, loc) // 2026-03-05 21:00 UTC
	if got := bucketLabel(ts, BucketDay); got != "2026-03-05" {
		t.Fatalf("expected UTC day 2026-03-05, got %s", got)
	}
}

func TestGetAnomalyReportTrends(t *testing.T) {
	svc := &AnomalyService{Gateway: anomalyFixture()}

	report, err := svc.GetAnomalyReport(AnomalyRequest{Bucket: BucketHour})
	if err != nil {
		t.Fatalf("GetAnomalyReport: %v", err)
	}
	// 4 anomalies across 3 distinct hours; empty hours never appear.
	if len(report.Trends) != 3 {
		t.Fatalf("expected 3 trend buckets, got %d", len(report.Trends))
	}
	for i := 1; i < len(report.Trends); i++ {
		if report.Trends[i].Bucket <= report.Trends[i-1].Bucket {
			t.Fatalf("trend buckets not ascending at %d", i)
		}
	}

	first := report.Trends[0]
	if first.Bucket != "2026-03-01T10:00:00" {
		t.Fatalf("unexpected first bucket %s", first.Bucket)
	}
	if first.Count != 2 {
		t.Fatalf("expected 2 anomalies in first bucket, got %d", first.Count)
	}
	if first.MaxScore != 0.9 {
		t.Fatalf("expected max score 0.9 in first bucket, got %v", first.MaxScore)
	}
	if first.AvgScore != 0.8 {
		t.Fatalf("expected avg score 0.8 in first bucket, got %v", first.AvgScore)
	}

	sum := 0
	for _, p := range report.Trends {
		sum += p.Count
	}
	if sum != report.TotalCount {
		t.Fatalf("trend counts sum to %d, total is %d", sum, report.TotalCount)
	}
}

func TestGetAnomalyReportNoBucketNoTrends(t *testing.T) {
	svc := &AnomalyService{Gateway: anomalyFixture()}

	report, err := svc.GetAnomalyReport(AnomalyRequest{})
	if err != nil {
		t.Fatalf("GetAnomalyReport: %v", err)
	}
	if report.Trends != nil {
		t.Fatalf("expected no trends without a bucket, got %d points", len(report.Trends))
	}
}
