package ledger

import "strings"

// FlowType is the direction of a transaction. The zero value is
// FlowUnrecognized, which takes part in no total and no balance.
type FlowType string

const (
	FlowUnrecognized FlowType = ""
	FlowOutgoing     FlowType = "pay"
	FlowIncoming     FlowType = "receive"
	FlowTransfer     FlowType = "transfer"
)

// ClassifyFlow maps a stored type string onto a FlowType. Matching is
// case-insensitive and otherwise verbatim.
func ClassifyFlow(raw string) FlowType {
	switch FlowType(strings.ToLower(raw)) {
	case FlowOutgoing:
		return FlowOutgoing
	case FlowIncoming:
		return FlowIncoming
	case FlowTransfer:
		return FlowTransfer
	}
	return FlowUnrecognized
}

// Valid reports whether f is one of the three known flows.
func (f FlowType) Valid() bool {
	return f == FlowOutgoing || f == FlowIncoming || f == FlowTransfer
}

func (f FlowType) String() string {
	return string(f)
}
