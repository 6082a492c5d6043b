package types

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ExecutionStatus is the outcome of a campaign as reported by the orchestrator.
type ExecutionStatus string

const (
	ExecutionStatusQueued     ExecutionStatus = "QUEUED"
	ExecutionStatusScheduled  ExecutionStatus = "SCHEDULED"
	ExecutionStatusInProgress ExecutionStatus = "IN_PROGRESS"
	ExecutionStatusSuccessful ExecutionStatus = "SUCCESSFUL"
	ExecutionStatusWarning    ExecutionStatus = "WARNING"
	ExecutionStatusFailed     ExecutionStatus = "FAILED"
	ExecutionStatusAborted    ExecutionStatus = "ABORTED"
)

// Notifiable reports whether the status is a terminal outcome that may trigger a notification.
func (s ExecutionStatus) Notifiable() bool {
	switch s {
	case ExecutionStatusSuccessful, ExecutionStatusWarning, ExecutionStatusFailed, ExecutionStatusAborted:
		return true
	default:
		return false
	}
}

// ReportStatus is the subscription vocabulary used in configuration.
type ReportStatus string

const (
	ReportStatusAll        ReportStatus = "ALL" // every notifiable status
	ReportStatusSuccessful ReportStatus = "SUCCESSFUL"
	ReportStatusWarning    ReportStatus = "WARNING"
	ReportStatusFailed     ReportStatus = "FAILED"
	ReportStatusAborted    ReportStatus = "ABORTED"
)

var knownReportStatuses = map[ReportStatus]struct{}{
	ReportStatusAll:        {},
	ReportStatusSuccessful: {},
	ReportStatusWarning:    {},
	ReportStatusFailed:     {},
	ReportStatusAborted:    {},
}

// ParseReportStatus normalizes s (trimmed, case-insensitive) into a known ReportStatus.
func ParseReportStatus(s string) (ReportStatus, error) {
	rs := ReportStatus(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := knownReportStatuses[rs]; !ok {
		return "", fmt.Errorf("unknown report status %q", s)
	}
	return rs, nil
}

// StatusSet is the set of subscribed report statuses.
type StatusSet map[ReportStatus]struct{}

// NewStatusSet builds a StatusSet from the given statuses. Duplicates collapse.
func NewStatusSet(statuses ...ReportStatus) StatusSet {
	set := make(StatusSet, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}

// Has reports whether rs is a member of the set.
func (s StatusSet) Has(rs ReportStatus) bool {
	_, ok := s[rs]
	return ok
}

// List returns the members in sorted order.
func (s StatusSet) List() []ReportStatus {
	out := make([]ReportStatus, 0, len(s))
	for rs := range s {
		out = append(out, rs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CampaignReport is the read-only snapshot of a campaign handed over by the orchestrator.
type CampaignReport struct {
	CampaignKey string          `json:"campaignKey"`
	Status      ExecutionStatus `json:"status"`
	Start       time.Time       `json:"start"`
	// End is nil while the campaign is still running.
	End *time.Time `json:"end,omitempty"`

	ScheduledMinions     int `json:"scheduledMinions,omitempty"`
	StartedMinions       int `json:"startedMinions"`
	CompletedMinions     int `json:"completedMinions"`
	SuccessfulExecutions int `json:"successfulExecutions"`
	FailedExecutions     int `json:"failedExecutions"`
}

// Running reports whether the campaign has no end time yet.
func (r CampaignReport) Running() bool {
	return r.End == nil
}

// Duration returns End - Start, or false while the campaign is running.
func (r CampaignReport) Duration() (time.Duration, bool) {
	if r.End == nil {
		return 0, false
	}
	return r.End.Sub(r.Start), true
}
