package poller

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/clambin/ezone-monitor/pkg/ezone"
)

// Snapshot is the state of the controller, as collected by one successful refresh.
// Snapshots are never modified once published.
type Snapshot struct {
	System    ezone.System          `json:"system"`
	Zones     map[string]ezone.Zone `json:"zones"`
	Timestamp time.Time             `json:"timestamp"`
}

// ZoneIDs returns the numbers of the zones in the snapshot, in ascending order.
func (s Snapshot) ZoneIDs() []int {
	ids := make([]int, 0, len(s.Zones))
	for _, zone := range s.Zones {
		ids = append(ids, zone.ID)
	}
	slices.Sort(ids)
	return ids
}

// Zone returns the state of a zone.
func (s Snapshot) Zone(id int) (ezone.Zone, bool) {
	zone, ok := s.Zones[strconv.Itoa(id)]
	return zone, ok
}

// LookupZone finds a zone by number, alias or name. Names are matched case-insensitively.
func (s Snapshot) LookupZone(name string) (ezone.Zone, bool) {
	if id, err := strconv.Atoi(name); err == nil {
		return s.Zone(id)
	}
	for _, id := range s.ZoneIDs() {
		zone, _ := s.Zone(id)
		if strings.EqualFold(zone.Alias, name) || strings.EqualFold(zone.Name, name) {
			return zone, true
		}
	}
	return ezone.Zone{}, false
}

// ZoneCount returns the number of zones the controller reports, capped at ezone.MaxZones.
func (s Snapshot) ZoneCount() int {
	return max(0, min(s.System.NumberOfZones, ezone.MaxZones))
}

// missingZones returns the numbers of the zones the controller reports but that are not in the snapshot.
func (s Snapshot) missingZones() []string {
	var missing []string
	for id := 1; id <= s.ZoneCount(); id++ {
		if _, ok := s.Zones[strconv.Itoa(id)]; !ok {
			missing = append(missing, strconv.Itoa(id))
		}
	}
	return missing
}

func (s Snapshot) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 1+len(s.Zones))
	attrs = append(attrs, slog.Any("system", s.System))
	for _, id := range s.ZoneIDs() {
		zone, _ := s.Zone(id)
		zoneAttrs := []any{
			slog.String("name", zone.Label()),
			slog.Bool("open", !zone.IsClosed()),
			slog.Int("position", zone.Position()),
		}
		if zone.ActualTemp != nil {
			zoneAttrs = append(zoneAttrs, slog.Float64("actual", *zone.ActualTemp))
		}
		attrs = append(attrs, slog.Group("zone_"+strconv.Itoa(id), zoneAttrs...))
	}
	return slog.GroupValue(attrs...)
}
