// Package mockapi simulates the HTTP/XML API of an eZone controller.
package mockapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// Zone is the state of a simulated zone. ActualTemp and DesiredTemp are left out of the response when empty.
type Zone struct {
	Name        string
	Setting     string
	Percent     string
	ActualTemp  string
	DesiredTemp string
}

// MockAPI is an http.Handler that behaves like an eZone controller. Set commands update its state.
type MockAPI struct {
	Name        string
	AirconOnOff string
	Mode        string
	FanSpeed    string
	ActualTemp  string
	DesiredTemp string
	Zones       map[int]*Zone
	Timer       map[string]string

	drops    map[string]int
	statuses map[string]int
	bodies   map[string]string
	calls    map[string]int
	lock     sync.Mutex
}

// New returns a controller with the requested number of zones, all open at 100%.
func New(zones int) *MockAPI {
	m := MockAPI{
		Name:        "Home",
		AirconOnOff: "1",
		Mode:        "1",
		FanSpeed:    "2",
		ActualTemp:  "23.5",
		DesiredTemp: "22.0",
		Zones:       make(map[int]*Zone, zones),
		Timer:       map[string]string{"scheduleStatus": "0"},
		drops:       make(map[string]int),
		statuses:    make(map[string]int),
		bodies:      make(map[string]string),
		calls:       make(map[string]int),
	}
	for i := 1; i <= zones; i++ {
		m.Zones[i] = &Zone{
			Name:        "Zone " + strconv.Itoa(i),
			Setting:     "1",
			Percent:     "100",
			ActualTemp:  "21.5",
			DesiredTemp: "22",
		}
	}
	return &m
}

// Key returns the key used by DropConnection, FailWithStatus, RespondWith and Calls for a request.
// Zone requests include the zone number: "/getZoneData?zone=3".
func Key(path string, zone int) string {
	if zone > 0 {
		return path + "?zone=" + strconv.Itoa(zone)
	}
	return path
}

// DropConnection closes the connection, without a response, for the next count requests matching key.
// A negative count drops all requests.
func (m *MockAPI) DropConnection(key string, count int) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.drops[key] = count
}

// FailWithStatus answers all requests matching key with the given status code.
func (m *MockAPI) FailWithStatus(key string, status int) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.statuses[key] = status
}

// RespondWith answers all requests matching key with body.
func (m *MockAPI) RespondWith(key string, body string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.bodies[key] = body
}

// Calls returns the number of requests received for key.
func (m *MockAPI) Calls(key string) int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.calls[key]
}

func (m *MockAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	zone, _ := strconv.Atoi(r.URL.Query().Get("zone"))
	key := Key(r.URL.Path, zone)
	m.calls[key]++

	if count := m.drops[key]; count != 0 {
		m.drops[key] = count - 1
		if hj, ok := w.(http.Hijacker); ok {
			if conn, _, err := hj.Hijack(); err == nil {
				_ = conn.Close()
				return
			}
		}
		http.Error(w, "connection dropped", http.StatusServiceUnavailable)
		return
	}
	if status, ok := m.statuses[key]; ok {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if body, ok := m.bodies[key]; ok {
		_, _ = w.Write([]byte(body))
		return
	}

	var body string
	switch r.URL.Path {
	case "/getSystemData":
		body = m.systemData()
	case "/getZoneData":
		z, ok := m.Zones[zone]
		if !ok {
			http.Error(w, "invalid zone", http.StatusBadRequest)
			return
		}
		body = zoneData(z)
	case "/getZoneTimer":
		body = m.zoneTimer()
	case "/setSystemData":
		m.setSystemData(r)
		body = ack
	case "/setZoneData":
		z, ok := m.Zones[zone]
		if !ok {
			http.Error(w, "invalid zone", http.StatusBadRequest)
			return
		}
		setZoneData(z, r)
		body = ack
	case "/changeName":
		m.Name = r.URL.Query().Get("name")
		body = ack
	case "/setZoneTimer":
		for key, values := range r.URL.Query() {
			m.Timer[key] = values[0]
		}
		body = ack
	default:
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/xml")
	_, _ = w.Write([]byte(body))
}

const ack = `<?xml version="1.0" encoding="UTF-8"?><iZS10.3><ack>1</ack></iZS10.3>`

func (m *MockAPI) systemData() string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<iZS10.3>
  <system>
    <name>%s</name>
    <unitcontrol>
      <airconOnOff>%s</airconOnOff>
      <fanSpeed>%s</fanSpeed>
      <mode>%s</mode>
      <centralActualTemp>%s</centralActualTemp>
      <centralDesiredTemp>%s</centralDesiredTemp>
      <numberOfZones>%d</numberOfZones>
    </unitcontrol>
  </system>
</iZS10.3>`, m.Name, m.AirconOnOff, m.FanSpeed, m.Mode, m.ActualTemp, m.DesiredTemp, len(m.Zones))
}

func zoneData(z *Zone) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n<zone>\n")
	writeTag(&b, "name", z.Name)
	writeTag(&b, "setting", z.Setting)
	writeTag(&b, "userPercentSetting", z.Percent)
	writeTag(&b, "actualTemp", z.ActualTemp)
	writeTag(&b, "desiredTemp", z.DesiredTemp)
	b.WriteString("</zone>")
	return b.String()
}

func (m *MockAPI) zoneTimer() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n<iZS10.3>\n<zoneTimer>\n")
	for _, key := range []string{"scheduleStatus", "startTimeHours", "startTimeMinutes", "endTimeHours", "endTimeMinutes"} {
		writeTag(&b, key, m.Timer[key])
	}
	b.WriteString("</zoneTimer>\n</iZS10.3>")
	return b.String()
}

func writeTag(b *strings.Builder, tag, value string) {
	if value != "" {
		b.WriteString("  <" + tag + ">" + value + "</" + tag + ">\n")
	}
}

func (m *MockAPI) setSystemData(r *http.Request) {
	q := r.URL.Query()
	for key, target := range map[string]*string{
		"airconOnOff":        &m.AirconOnOff,
		"mode":               &m.Mode,
		"fanSpeed":           &m.FanSpeed,
		"centralDesiredTemp": &m.DesiredTemp,
	} {
		if q.Has(key) {
			*target = q.Get(key)
		}
	}
}

func setZoneData(z *Zone, r *http.Request) {
	q := r.URL.Query()
	for key, target := range map[string]*string{
		"zoneSetting":        &z.Setting,
		"userPercentSetting": &z.Percent,
		"name":               &z.Name,
	} {
		if q.Has(key) {
			*target = q.Get(key)
		}
	}
}
