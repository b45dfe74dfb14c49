package inference

// DomainProfile captures what is typically true of projects in one
// business domain. Profiles supply automatic assumptions when the
// oracle detects the domain; detection itself is open-ended and falls
// back to the generic profile for unknown domains.
type DomainProfile struct {
	Domain               string
	Signals              []string
	ImpliedRequirements  []string
	Assumptions          map[string]any
	TypicalIntegrations  []string
	ComplianceFrameworks []string
}

// ProfileFor returns the knowledge profile of a domain. Unknown
// domains get the generic profile and ok reports false.
func ProfileFor(domain string) (DomainProfile, bool) {
	if p, ok := domainProfiles[domain]; ok {
		return p, true
	}
	return domainProfiles["generic"], false
}

// SupportedDomains lists the domains with dedicated profiles, in the
// order they are offered to the oracle.
func SupportedDomains() []string {
	return append([]string(nil), supportedDomains...)
}

var supportedDomains = []string{
	"fintech", "healthcare", "education", "ecommerce", "industry",
	"real_estate", "automotive", "gaming", "media", "legal",
	"food_beverage", "travel", "hr", "analytics", "security", "generic",
}

var domainProfiles = map[string]DomainProfile{
	"generic": {
		Domain:               "generic",
		Signals:              []string{"development", "system", "software"},
		ImpliedRequirements:  []string{"functionality", "quality", "delivery"},
		Assumptions:          map[string]any{},
		ComplianceFrameworks: []string{"lgpd"},
	},
	"fintech": {
		Domain:  "fintech",
		Signals: []string{"payments", "investments", "banking", "digital wallets", "cryptocurrency"},
		ImpliedRequirements: []string{
			"high security", "audit trail", "backup", "monitoring",
		},
		Assumptions: map[string]any{
			"handles_sensitive_data": true,
			"requires_high_security": true,
			"needs_compliance":       true,
			"requires_audit_trail":   true,
		},
		TypicalIntegrations:  []string{"payment gateway", "banking APIs", "KYC/AML", "accounting"},
		ComplianceFrameworks: []string{"pci_dss", "lgpd", "sox"},
	},
	"healthcare": {
		Domain:  "healthcare",
		Signals: []string{"health", "medical", "hospital", "clinic", "telemedicine", "patient record"},
		ImpliedRequirements: []string{
			"data privacy", "secure backup", "24/7 availability",
		},
		Assumptions: map[string]any{
			"handles_sensitive_data":   true,
			"requires_high_security":   true,
			"needs_compliance":         true,
			"requires_data_encryption": true,
		},
		TypicalIntegrations:  []string{"hospital systems", "laboratories", "pharmacies", "insurance"},
		ComplianceFrameworks: []string{"lgpd", "hipaa"},
	},
	"education": {
		Domain:              "education",
		Signals:             []string{"education", "school", "university", "course", "e-learning", "lms"},
		ImpliedRequirements: []string{"scalability", "accessibility", "gamification"},
		Assumptions: map[string]any{
			"multi_user_system":        true,
			"requires_user_management": true,
			"needs_reporting":          true,
		},
		TypicalIntegrations:  []string{"assessment systems", "libraries", "video conferencing", "payments"},
		ComplianceFrameworks: []string{"lgpd", "wcag"},
	},
	"ecommerce": {
		Domain:              "ecommerce",
		Signals:             []string{"online store", "marketplace", "online sales", "catalog", "checkout"},
		ImpliedRequirements: []string{"performance", "seo", "mobile-first", "analytics"},
		Assumptions: map[string]any{
			"requires_payment_integration":  true,
			"needs_inventory_management":    true,
			"requires_shipping_calculation": true,
		},
		TypicalIntegrations:  []string{"payment gateways", "shipping carriers", "erp", "email marketing"},
		ComplianceFrameworks: []string{"lgpd", "pci_dss"},
	},
	"industry": {
		Domain:              "industry",
		Signals:             []string{"industry", "manufacturing", "production", "factory", "industrial automation"},
		ImpliedRequirements: []string{"real time", "iot", "monitoring", "dashboards"},
		Assumptions: map[string]any{
			"requires_real_time_data":    true,
			"needs_industrial_protocols": true,
			"requires_reliability":       true,
		},
		TypicalIntegrations:  []string{"iot sensors", "plcs", "scada", "mes", "erp"},
		ComplianceFrameworks: []string{"lgpd", "iso_9001"},
	},
	"real_estate": {
		Domain:              "real_estate",
		Signals:             []string{"real estate", "property", "brokerage", "rental", "listing"},
		ImpliedRequirements: []string{"advanced search", "geolocation", "media galleries"},
		Assumptions: map[string]any{
			"requires_search_filters": true,
			"needs_location_services": true,
			"requires_media_handling": true,
		},
		TypicalIntegrations:  []string{"maps", "financing", "document management", "crm"},
		ComplianceFrameworks: []string{"lgpd"},
	},
	"automotive": {
		Domain:              "automotive",
		Signals:             []string{"automotive", "cars", "dealership", "repair shop", "parts"},
		ImpliedRequirements: []string{"complex catalog", "compatibility", "inventory"},
		Assumptions: map[string]any{
			"requires_parts_compatibility": true,
			"needs_inventory_management":   true,
			"requires_service_scheduling":  true,
		},
		TypicalIntegrations:  []string{"manufacturers", "distributors", "insurers", "financing"},
		ComplianceFrameworks: []string{"lgpd"},
	},
	"gaming": {
		Domain:              "gaming",
		Signals:             []string{"game", "gaming", "entertainment", "multiplayer", "streaming"},
		ImpliedRequirements: []string{"low latency", "scalability", "anti-cheat"},
		Assumptions: map[string]any{
			"requires_real_time_communication":  true,
			"needs_user_authentication":         true,
			"requires_performance_optimization": true,
		},
		TypicalIntegrations:  []string{"gaming platforms", "payment processors", "streaming", "analytics"},
		ComplianceFrameworks: []string{"lgpd", "age_rating"},
	},
	"media": {
		Domain:              "media",
		Signals:             []string{"media", "streaming", "video", "audio", "content", "publishing"},
		ImpliedRequirements: []string{"cdn", "transcoding", "drm", "analytics"},
		Assumptions: map[string]any{
			"requires_media_processing":  true,
			"needs_content_delivery":     true,
			"requires_rights_management": true,
		},
		TypicalIntegrations:  []string{"cdns", "transcoding", "analytics", "monetization"},
		ComplianceFrameworks: []string{"lgpd", "copyright"},
	},
	"legal": {
		Domain:              "legal",
		Signals:             []string{"legal", "law firm", "litigation", "contracts"},
		ImpliedRequirements: []string{"confidentiality", "audit trail", "backup", "digital signature"},
		Assumptions: map[string]any{
			"handles_confidential_data":    true,
			"requires_document_management": true,
			"needs_deadline_tracking":      true,
		},
		TypicalIntegrations:  []string{"courts", "notaries", "digital signature", "timesheet"},
		ComplianceFrameworks: []string{"lgpd"},
	},
	"food_beverage": {
		Domain:              "food_beverage",
		Signals:             []string{"restaurant", "delivery", "food", "menu", "orders"},
		ImpliedRequirements: []string{"real time", "geolocation", "payments", "reviews"},
		Assumptions: map[string]any{
			"requires_order_management":   true,
			"needs_delivery_tracking":     true,
			"requires_payment_processing": true,
		},
		TypicalIntegrations:  []string{"delivery platforms", "pos", "payments", "reviews"},
		ComplianceFrameworks: []string{"lgpd"},
	},
	"travel": {
		Domain:              "travel",
		Signals:             []string{"tourism", "travel", "hotel", "reservation", "booking"},
		ImpliedRequirements: []string{"availability", "payments", "calendars", "maps"},
		Assumptions: map[string]any{
			"requires_booking_system":       true,
			"needs_payment_processing":      true,
			"requires_calendar_integration": true,
		},
		TypicalIntegrations:  []string{"gds", "hotels", "airlines", "payments"},
		ComplianceFrameworks: []string{"lgpd"},
	},
	"hr": {
		Domain:              "hr",
		Signals:             []string{"hr", "human resources", "recruiting", "payroll", "employees"},
		ImpliedRequirements: []string{"privacy", "reporting", "integrations", "workflow"},
		Assumptions: map[string]any{
			"handles_personal_data":        true,
			"requires_workflow_management": true,
			"needs_reporting_tools":        true,
		},
		TypicalIntegrations:  []string{"payroll", "accounting", "benefits", "training"},
		ComplianceFrameworks: []string{"lgpd"},
	},
	"analytics": {
		Domain:              "analytics",
		Signals:             []string{"bi", "analytics", "dashboard", "reports", "metrics", "kpis"},
		ImpliedRequirements: []string{"performance", "visualizations", "real time", "export"},
		Assumptions: map[string]any{
			"requires_data_processing":     true,
			"needs_visualization_tools":    true,
			"requires_export_capabilities": true,
		},
		TypicalIntegrations:  []string{"databases", "apis", "bi tools", "export"},
		ComplianceFrameworks: []string{"lgpd"},
	},
	"security": {
		Domain:              "security",
		Signals:             []string{"security", "cybersecurity", "monitoring", "firewall", "antivirus"},
		ImpliedRequirements: []string{"real time", "alerts", "logs", "compliance"},
		Assumptions: map[string]any{
			"requires_real_time_monitoring": true,
			"needs_alert_system":            true,
			"requires_log_management":       true,
		},
		TypicalIntegrations:  []string{"siem", "threat intelligence", "compliance tools", "alerting"},
		ComplianceFrameworks: []string{"lgpd", "iso_27001"},
	},
}
