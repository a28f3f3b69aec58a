package services

import (
	"sort"

	"github.com/Amadou-dot/infrasight-sub001/models"
)

// fakeGateway implements InterfaceTelemetryGateway over in-memory slices,
// honoring the same filter semantics as the SQL-backed gateway.
type fakeGateway struct {
	devices  []models.Device
	readings []models.Reading
	err      error
}

func (g *fakeGateway) FindDevices(filter DeviceFilter) ([]models.Device, error) {
	if g.err != nil {
		return nil, g.err
	}

	var out []models.Device
	for _, d := range g.devices {
		if !filter.IncludeDeleted && d.IsDeleted() {
			continue
		}
		if filter.Status != "" && string(d.Status) != filter.Status {
			continue
		}
		if filter.Type != "" && d.Type != filter.Type {
			continue
		}
		if filter.BuildingID != "" && d.BuildingID != filter.BuildingID {
			continue
		}
		if filter.Floor != nil && d.Floor != *filter.Floor {
			continue
		}
		if filter.Department != "" && d.Department != filter.Department {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (g *fakeGateway) FindReadings(filter ReadingFilter, sortBy *ReadingSort, limit int) ([]models.Reading, error) {
	if g.err != nil {
		return nil, g.err
	}

	var out []models.Reading
	for _, r := range g.readings {
		if len(filter.DeviceIDs) > 0 && !containsString(filter.DeviceIDs, r.DeviceID) {
			continue
		}
		if len(filter.Types) > 0 && !containsString(filter.Types, string(r.Type)) {
			continue
		}
		if filter.StartTime != nil && r.Timestamp.Before(*filter.StartTime) {
			continue
		}
		if filter.EndTime != nil && r.Timestamp.After(*filter.EndTime) {
			continue
		}
		if filter.MinScore != nil && (r.AnomalyScore == nil || *r.AnomalyScore < *filter.MinScore) {
			continue
		}
		if filter.IsAnomaly != nil && r.IsAnomaly != *filter.IsAnomaly {
			continue
		}
		out = append(out, r)
	}

	if sortBy != nil && sortBy.Field == "timestamp" && !sortBy.Desc {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Timestamp.Before(out[j].Timestamp)
		})
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (g *fakeGateway) GetDeviceByID(id string) (*models.Device, error) {
	if g.err != nil {
		return nil, g.err
	}

	for i := range g.devices {
		if g.devices[i].ID == id {
			return &g.devices[i], nil
		}
	}
	return nil, ErrDeviceNotFound
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
