package collector

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/clambin/ezone-monitor/internal/poller"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ezoneUp = prometheus.NewDesc(
		prometheus.BuildFQName("ezone", "", "up"),
		"1 if the last refresh of the controller's state succeeded",
		nil,
		nil,
	)
	ezoneAirconOn = prometheus.NewDesc(
		prometheus.BuildFQName("ezone", "aircon", "on"),
		"1 if the aircon unit is switched on",
		[]string{"name"},
		nil,
	)
	ezoneAirconMode = prometheus.NewDesc(
		prometheus.BuildFQName("ezone", "aircon", "mode"),
		"Operating mode of the aircon unit. Always one. See label 'mode'",
		[]string{"name", "mode"},
		nil,
	)
	ezoneAirconFanSpeed = prometheus.NewDesc(
		prometheus.BuildFQName("ezone", "aircon", "fan_speed"),
		"Fan speed of the aircon unit (1: low, 2: medium, 3: high)",
		[]string{"name"},
		nil,
	)
	ezoneTemperatureCelsius = prometheus.NewDesc(
		prometheus.BuildFQName("ezone", "aircon", "temperature_celsius"),
		"Central temperature in degrees celsius",
		[]string{"name"},
		nil,
	)
	ezoneTargetTempCelsius = prometheus.NewDesc(
		prometheus.BuildFQName("ezone", "aircon", "target_temp_celsius"),
		"Central target temperature in degrees celsius",
		[]string{"name"},
		nil,
	)
	ezoneZones = prometheus.NewDesc(
		prometheus.BuildFQName("ezone", "aircon", "zones"),
		"Number of zones reported by the controller",
		[]string{"name"},
		nil,
	)
	ezoneZoneOpen = prometheus.NewDesc(
		prometheus.BuildFQName("ezone", "zone", "open"),
		"1 if the zone is open",
		[]string{"zone", "zone_name"},
		nil,
	)
	ezoneZonePosition = prometheus.NewDesc(
		prometheus.BuildFQName("ezone", "zone", "position_percentage"),
		"Damper opening of the zone (0-100). A closed zone is at 0",
		[]string{"zone", "zone_name"},
		nil,
	)
	ezoneZoneTemperatureCelsius = prometheus.NewDesc(
		prometheus.BuildFQName("ezone", "zone", "temperature_celsius"),
		"Current temperature of this zone in degrees celsius",
		[]string{"zone", "zone_name"},
		nil,
	)
	ezoneZoneTargetTempCelsius = prometheus.NewDesc(
		prometheus.BuildFQName("ezone", "zone", "target_temp_celsius"),
		"Target temperature of this zone in degrees celsius",
		[]string{"zone", "zone_name"},
		nil,
	)
	ezoneZoneMissing = prometheus.NewDesc(
		prometheus.BuildFQName("ezone", "zone", "missing"),
		"1 if the zone did not respond during the last refresh",
		[]string{"zone"},
		nil,
	)
)

type Poller interface {
	Subscribe() <-chan poller.Snapshot
	Unsubscribe(<-chan poller.Snapshot)
	State() (poller.State, error)
}

// Collector exports the latest snapshot as Prometheus metrics.
type Collector struct {
	Poller       Poller
	Logger       *slog.Logger
	lock         sync.RWMutex
	lastSnapshot *poller.Snapshot
}

func (c *Collector) Run(ctx context.Context) error {
	c.Logger.Debug("started")
	defer c.Logger.Debug("stopped")

	ch := c.Poller.Subscribe()
	defer c.Poller.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot := <-ch:
			c.lock.Lock()
			c.lastSnapshot = &snapshot
			c.lock.Unlock()
		}
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- ezoneUp
	ch <- ezoneAirconOn
	ch <- ezoneAirconMode
	ch <- ezoneAirconFanSpeed
	ch <- ezoneTemperatureCelsius
	ch <- ezoneTargetTempCelsius
	ch <- ezoneZones
	ch <- ezoneZoneOpen
	ch <- ezoneZonePosition
	ch <- ezoneZoneTemperatureCelsius
	ch <- ezoneZoneTargetTempCelsius
	ch <- ezoneZoneMissing
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	var up float64
	if state, _ := c.Poller.State(); state == poller.StateFresh {
		up = 1
	}
	ch <- prometheus.MustNewConstMetric(ezoneUp, prometheus.GaugeValue, up)

	c.lock.RLock()
	defer c.lock.RUnlock()

	if c.lastSnapshot != nil {
		c.collectSystem(ch)
		c.collectZones(ch)
	}
}

func (c *Collector) collectSystem(ch chan<- prometheus.Metric) {
	system := c.lastSnapshot.System
	var value float64
	if system.AirconOn {
		value = 1
	}
	ch <- prometheus.MustNewConstMetric(ezoneAirconOn, prometheus.GaugeValue, value, system.Name)
	ch <- prometheus.MustNewConstMetric(ezoneAirconMode, prometheus.GaugeValue, 1, system.Name, system.Mode.String())
	ch <- prometheus.MustNewConstMetric(ezoneAirconFanSpeed, prometheus.GaugeValue, float64(system.FanSpeed), system.Name)
	ch <- prometheus.MustNewConstMetric(ezoneTemperatureCelsius, prometheus.GaugeValue, system.CentralActualTemp, system.Name)
	ch <- prometheus.MustNewConstMetric(ezoneTargetTempCelsius, prometheus.GaugeValue, system.CentralDesiredTemp, system.Name)
	ch <- prometheus.MustNewConstMetric(ezoneZones, prometheus.GaugeValue, float64(system.NumberOfZones), system.Name)
}

func (c *Collector) collectZones(ch chan<- prometheus.Metric) {
	for id := 1; id <= c.lastSnapshot.ZoneCount(); id++ {
		zoneID := strconv.Itoa(id)
		zone, ok := c.lastSnapshot.Zone(id)
		if !ok {
			ch <- prometheus.MustNewConstMetric(ezoneZoneMissing, prometheus.GaugeValue, 1, zoneID)
			continue
		}
		ch <- prometheus.MustNewConstMetric(ezoneZoneMissing, prometheus.GaugeValue, 0, zoneID)

		name := zone.Label()
		var value float64
		if !zone.IsClosed() {
			value = 1
		}
		ch <- prometheus.MustNewConstMetric(ezoneZoneOpen, prometheus.GaugeValue, value, zoneID, name)
		ch <- prometheus.MustNewConstMetric(ezoneZonePosition, prometheus.GaugeValue, float64(zone.Position()), zoneID, name)
		// zones without a sensor don't report temperatures
		if zone.ActualTemp != nil {
			ch <- prometheus.MustNewConstMetric(ezoneZoneTemperatureCelsius, prometheus.GaugeValue, *zone.ActualTemp, zoneID, name)
		}
		if zone.DesiredTemp != nil {
			ch <- prometheus.MustNewConstMetric(ezoneZoneTargetTempCelsius, prometheus.GaugeValue, *zone.DesiredTemp, zoneID, name)
		}
	}
}
