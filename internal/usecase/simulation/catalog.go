package simulation

import "github.com/meetpilot-team/meetpilot/internal/domain/entities"

// insightEntry is one synthesizable advisor insight. Confidence is part of
// the catalog entry, not sampled at generation time.
type insightEntry struct {
	Type       string
	Priority   string
	Content    string
	Confidence float64
}

// detectionEntry is one synthesizable action or decision.
type detectionEntry struct {
	Description string
	Confidence  float64
	Assignee    string
}

var insightCatalog = []insightEntry{
	{entities.InsightTypeObservation, entities.InsightPriorityMedium, "The discussion has stayed on the agenda topic for the last five minutes.", 0.82},
	{entities.InsightTypeObservation, entities.InsightPriorityLow, "Two participants have not spoken since the meeting started.", 0.76},
	{entities.InsightTypeSuggestion, entities.InsightPriorityMedium, "Consider summarizing the open points before moving to the next agenda item.", 0.88},
	{entities.InsightTypeSuggestion, entities.InsightPriorityLow, "A quick round of status updates could surface blockers early.", 0.74},
	{entities.InsightTypeAlert, entities.InsightPriorityHigh, "The conversation has circled back to a previously closed topic three times.", 0.91},
	{entities.InsightTypeAlert, entities.InsightPriorityHigh, "Meeting is running past its scheduled midpoint with two agenda items untouched.", 0.94},
	{entities.InsightTypeContext, entities.InsightPriorityMedium, "A similar proposal was discussed in last week's planning session.", 0.79},
	{entities.InsightTypeContext, entities.InsightPriorityLow, "The quoted figures match the Q3 report shared before the meeting.", 0.85},
}

var actionCatalog = []detectionEntry{
	{"Send the revised project timeline to the stakeholders.", 0.87, "Alex"},
	{"Schedule a follow-up session with the design team.", 0.81, "Jordan"},
	{"Draft the migration runbook before the next release.", 0.92, "Sam"},
	{"Collect baseline metrics for the onboarding flow.", 0.75, "Riley"},
	{"Update the incident postmortem with the agreed remediations.", 0.89, "Casey"},
	{"Share the vendor comparison spreadsheet with the group.", 0.72, "Morgan"},
}

var decisionCatalog = []detectionEntry{
	{"Adopt the phased rollout plan starting next sprint.", 0.90, ""},
	{"Postpone the pricing change until the usage data is reviewed.", 0.84, ""},
	{"Move the weekly sync to Tuesday mornings.", 0.78, ""},
	{"Approve the additional budget for the monitoring tooling.", 0.93, ""},
	{"Keep the legacy endpoint alive for one more quarter.", 0.80, ""},
}
