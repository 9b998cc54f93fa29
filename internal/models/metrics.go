package models

// Metrics is the typed key-metric payload of one agent result. Each
// provider family has its own variant; payloads with unrecognized keys
// decode as OpaqueMetrics so nothing is dropped on the floor.
type Metrics interface {
	metricsVariant()
}

// StatusPageMetrics covers Statuspage.io style agents (Cloudflare, GitHub,
// Datadog and friends).
type StatusPageMetrics struct {
	Indicator             string
	UnresolvedIncidents   int
	RecentIncidents7d     int
	ScheduledMaintenance  int
	InProgressMaintenance int
}

// EventFeedMetrics covers event-feed agents (AWS health RSS).
type EventFeedMetrics struct {
	CurrentEvents  int
	RecentEvents7d int
}

// IncidentFeedMetrics covers incident-list agents (GCP incidents.json).
type IncidentFeedMetrics struct {
	CurrentIncidents  int
	RecentIncidents7d int
	TotalIncidents    int
}

// OpaqueMetrics holds any key-metric payload that matches no known family.
type OpaqueMetrics map[string]any

func (StatusPageMetrics) metricsVariant()   {}
func (EventFeedMetrics) metricsVariant()    {}
func (IncidentFeedMetrics) metricsVariant() {}
func (OpaqueMetrics) metricsVariant()       {}

// DecodeMetrics sniffs a raw key_metrics object into its typed variant.
// The "status" key duplicates the result's own status and is ignored here.
// Returns nil for an empty payload.
func DecodeMetrics(raw map[string]any) Metrics {
	if len(raw) == 0 {
		return nil
	}
	if _, ok := raw["indicator"]; ok {
		return StatusPageMetrics{
			Indicator:             stringAt(raw, "indicator"),
			UnresolvedIncidents:   intAt(raw, "unresolved_incidents"),
			RecentIncidents7d:     intAt(raw, "recent_incidents_7d"),
			ScheduledMaintenance:  intAt(raw, "scheduled_maintenance"),
			InProgressMaintenance: intAt(raw, "in_progress_maintenance"),
		}
	}
	if hasAny(raw, "current_events", "recent_events_7d") {
		return EventFeedMetrics{
			CurrentEvents:  intAt(raw, "current_events"),
			RecentEvents7d: intAt(raw, "recent_events_7d"),
		}
	}
	if hasAny(raw, "current_incidents", "total_incidents") {
		return IncidentFeedMetrics{
			CurrentIncidents:  intAt(raw, "current_incidents"),
			RecentIncidents7d: intAt(raw, "recent_incidents_7d"),
			TotalIncidents:    intAt(raw, "total_incidents"),
		}
	}
	opaque := make(OpaqueMetrics, len(raw))
	for k, v := range raw {
		if k == "status" {
			continue
		}
		opaque[k] = v
	}
	if len(opaque) == 0 {
		return nil
	}
	return opaque
}

// EncodeMetrics renders a variant back to its canonical wire keys.
// Returns nil for nil metrics.
func EncodeMetrics(m Metrics) map[string]any {
	switch v := m.(type) {
	case StatusPageMetrics:
		return map[string]any{
			"indicator":               v.Indicator,
			"unresolved_incidents":    v.UnresolvedIncidents,
			"recent_incidents_7d":     v.RecentIncidents7d,
			"scheduled_maintenance":   v.ScheduledMaintenance,
			"in_progress_maintenance": v.InProgressMaintenance,
		}
	case EventFeedMetrics:
		return map[string]any{
			"current_events":   v.CurrentEvents,
			"recent_events_7d": v.RecentEvents7d,
		}
	case IncidentFeedMetrics:
		return map[string]any{
			"current_incidents":   v.CurrentIncidents,
			"recent_incidents_7d": v.RecentIncidents7d,
			"total_incidents":     v.TotalIncidents,
		}
	case OpaqueMetrics:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = val
		}
		return out
	default:
		return nil
	}
}

func hasAny(raw map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := raw[k]; ok {
			return true
		}
	}
	return false
}

func stringAt(raw map[string]any, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

// intAt coerces a raw JSON value to int. JSON numbers arrive as float64.
func intAt(raw map[string]any, key string) int {
	switch n := raw[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}
