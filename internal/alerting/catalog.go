package alerting

import "ZeroTrustDashboard/internal/models"

// DefaultCatalog lists the synthetic security events the engine draws from.
func DefaultCatalog() []models.AlertTemplate {
	return []models.AlertTemplate{
		{
			Title:    "Authentication Failure Burst",
			Message:  "Multiple failed authentication attempts detected",
			Severity: models.SeverityHigh,
		},
		{
			Title:    "Unusual Data Pattern",
			Message:  "Unusual data patterns from device sensor-01",
			Severity: models.SeverityMedium,
		},
		{
			Title:    "New Device Connection",
			Message:  "New device connection from unknown location",
			Severity: models.SeverityLow,
		},
		{
			Title:    "Exfiltration Attempt Blocked",
			Message:  "Potential data exfiltration attempt blocked",
			Severity: models.SeverityHigh,
		},
		{
			Title:    "Off-Schedule Transmission",
			Message:  "Device sending data outside normal schedule",
			Severity: models.SeverityMedium,
		},
		{
			Title:    "Unauthorized Device Denied",
			Message:  "Connection from unregistered device identity was rejected",
			Severity: models.SeverityHigh,
		},
		{
			Title:    "Credential Brute Force",
			Message:  "Repeated shared access key guesses blocked by device authentication",
			Severity: models.SeverityHigh,
		},
		{
			Title:    "Protocol Violation",
			Message:  "Inbound connection on a non-TLS port blocked by network rules",
			Severity: models.SeverityMedium,
		},
		{
			Title:    "Malicious Telemetry Rejected",
			Message:  "Telemetry with impossible sensor values failed validation",
			Severity: models.SeverityMedium,
		},
		{
			Title:    "Certificate Renewal Window",
			Message:  "Device certificate enters its renewal window within 7 days",
			Severity: models.SeverityLow,
		},
	}
}
