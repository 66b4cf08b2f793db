package status

import "strings"

// Assignment is the normalized state of one evaluator assignment
type Assignment string

const (
	AssignmentPending            Assignment = "pending"
	AssignmentAccepted           Assignment = "accepted"
	AssignmentRejected           Assignment = "rejected"
	AssignmentCompleted          Assignment = "completed"
	AssignmentOverdue            Assignment = "overdue"
	AssignmentExtensionRequested Assignment = "extension_requested"
	AssignmentExtensionApproved  Assignment = "extension_approved"
	AssignmentExtensionRejected  Assignment = "extension_rejected"
	AssignmentUnknown            Assignment = "unknown"
)

type assignmentInfo struct {
	label string
	theme Theme
}

var assignmentInfos = map[Assignment]assignmentInfo{
	AssignmentPending:            {"Pending", Theme{ColorAmber, IconClock}},
	AssignmentAccepted:           {"Accepted", Theme{ColorEmerald, IconCheckCircle}},
	AssignmentRejected:           {"Rejected", Theme{ColorRed, IconXCircle}},
	AssignmentCompleted:          {"Completed", Theme{ColorSky, IconCheckCircle}},
	AssignmentOverdue:            {"Overdue", Theme{ColorRose, IconAlertTriangle}},
	AssignmentExtensionRequested: {"Extension Requested", Theme{ColorBlue, IconClock}},
	AssignmentExtensionApproved:  {"Extension Approved", Theme{ColorIndigo, IconCalendar}},
	AssignmentExtensionRejected:  {"Extension Rejected", Theme{ColorOrange, IconXCircle}},
	AssignmentUnknown:            {"Unknown", FallbackTheme},
}

// rule order matters: the first rule whose raw set contains the input wins
var assignmentRules = []struct {
	raw    []string
	result Assignment
}{
	{[]string{"extend", "extension_requested", "extension requested"}, AssignmentExtensionRequested},
	{[]string{"extension_approved", "extension approved", "approved"}, AssignmentExtensionApproved},
	{[]string{"extension_rejected", "extension rejected", "denied"}, AssignmentExtensionRejected},
	{[]string{"pending"}, AssignmentPending},
	{[]string{"completed", "approve", "revise"}, AssignmentCompleted},
	{[]string{"accept", "accepted", "for_review"}, AssignmentAccepted},
	{[]string{"decline", "declined", "reject", "rejected"}, AssignmentRejected},
	{[]string{"overdue"}, AssignmentOverdue},
}

// NormalizeAssignment maps a raw tracker status onto the closed Assignment
// set. A pending record that carries a requested extension deadline is an
// extension request. Unknown or empty input yields AssignmentUnknown.
func NormalizeAssignment(raw string, extensionRequested bool) Assignment {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return AssignmentUnknown
	}

	for _, rule := range assignmentRules {
		for _, candidate := range rule.raw {
			if key != candidate {
				continue
			}
			if rule.result == AssignmentPending && extensionRequested {
				return AssignmentExtensionRequested
			}
			return rule.result
		}
	}

	return AssignmentUnknown
}

// ParseAssignment accepts either a normalized value or a display label
func ParseAssignment(s string) (Assignment, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for a, info := range assignmentInfos {
		if key == string(a) || key == strings.ToLower(info.label) {
			return a, true
		}
	}
	return AssignmentUnknown, false
}

// String returns the normalized value
func (a Assignment) String() string {
	return string(a)
}

// IsValid reports whether a belongs to the known enumeration
func (a Assignment) IsValid() bool {
	_, ok := assignmentInfos[a]
	return ok && a != AssignmentUnknown
}

// Label returns the display label
func (a Assignment) Label() string {
	if info, ok := assignmentInfos[a]; ok {
		return info.label
	}
	return assignmentInfos[AssignmentUnknown].label
}

// Theme returns the presentation token
func (a Assignment) Theme() Theme {
	if info, ok := assignmentInfos[a]; ok {
		return info.theme
	}
	return FallbackTheme
}

// IsExtension reports whether a is one of the extension states
func (a Assignment) IsExtension() bool {
	switch a {
	case AssignmentExtensionRequested, AssignmentExtensionApproved, AssignmentExtensionRejected:
		return true
	}
	return false
}
