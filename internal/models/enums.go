package models

// ServiceStatus is the normalized health value recorded for a service.
type ServiceStatus string

const (
	StatusOperational   ServiceStatus = "operational"
	StatusDegraded      ServiceStatus = "degraded"
	StatusPartialOutage ServiceStatus = "partial_outage"
	StatusMajorOutage   ServiceStatus = "major_outage"
	StatusMaintenance   ServiceStatus = "maintenance"
	StatusUnknown       ServiceStatus = "unknown"
)

// NormalizeServiceStatus maps a raw status string to a known value.
// Unrecognized values become StatusUnknown so an observation is never
// dropped because a provider changed its vocabulary.
func NormalizeServiceStatus(raw string) ServiceStatus {
	switch ServiceStatus(raw) {
	case StatusOperational, StatusDegraded, StatusPartialOutage,
		StatusMajorOutage, StatusMaintenance, StatusUnknown:
		return ServiceStatus(raw)
	default:
		return StatusUnknown
	}
}

// IncidentStatus is the lifecycle stage of a provider-reported incident.
type IncidentStatus string

const (
	IncidentInvestigating IncidentStatus = "investigating"
	IncidentIdentified    IncidentStatus = "identified"
	IncidentMonitoring    IncidentStatus = "monitoring"
	IncidentResolved      IncidentStatus = "resolved"
	IncidentPostmortem    IncidentStatus = "postmortem"
)

func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentInvestigating, IncidentIdentified, IncidentMonitoring,
		IncidentResolved, IncidentPostmortem:
		return true
	}
	return false
}

// Closed reports whether the status marks the incident as over.
func (s IncidentStatus) Closed() bool {
	return s == IncidentResolved || s == IncidentPostmortem
}

// IncidentImpact is the severity reported by the provider. It is stored as
// given and never inferred from the incident status.
type IncidentImpact string

const (
	ImpactNone     IncidentImpact = "none"
	ImpactMinor    IncidentImpact = "minor"
	ImpactMajor    IncidentImpact = "major"
	ImpactCritical IncidentImpact = "critical"
)

func (i IncidentImpact) Valid() bool {
	switch i {
	case ImpactNone, ImpactMinor, ImpactMajor, ImpactCritical:
		return true
	}
	return false
}

// Rank orders impacts by severity, 0 being the most severe.
func (i IncidentImpact) Rank() int {
	switch i {
	case ImpactCritical:
		return 0
	case ImpactMajor:
		return 1
	case ImpactMinor:
		return 2
	default:
		return 3
	}
}
