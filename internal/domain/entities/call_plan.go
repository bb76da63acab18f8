package entities

// IdealCustomerProfile is optional targeting context for a call plan
type IdealCustomerProfile struct {
	Industry    string `json:"industry,omitempty"`
	CompanySize string `json:"companySize,omitempty"`
	PainPoints  string `json:"painPoints,omitempty"`
	Budget      string `json:"budget,omitempty"`
}

// ObjectionPrep is an anticipated objection with a prepared response
type ObjectionPrep struct {
	Objection string `json:"objection"`
	Response  string `json:"response"`
}

// CallPlan is a pre-call artifact. It is generated on demand and not stored.
type CallPlan struct {
	Methodology       string          `json:"methodology"`
	CallTitle         string          `json:"call_title"`
	CallObjective     string          `json:"call_objective"`
	Agenda            []string        `json:"agenda"`
	OpeningScript     string          `json:"opening_script"`
	QuestionsToAsk    []string        `json:"questions_to_ask"`
	UnknownsToUncover []string        `json:"unknowns_to_uncover"`
	ObjectionPrep     []ObjectionPrep `json:"objection_prep"`
	ClosingStrategy   string          `json:"closing_strategy"`
}
