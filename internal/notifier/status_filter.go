package notifier

import "github.com/potooio/campaign-notifier/internal/types"

// ShouldNotify returns true if status is a notifiable outcome and is covered by
// the subscribed set, either directly or through ALL. An empty set matches nothing.
func ShouldNotify(status types.ExecutionStatus, subscribed types.StatusSet) bool {
	if !status.Notifiable() {
		return false
	}
	return subscribed.Has(types.ReportStatusAll) || subscribed.Has(types.ReportStatus(status))
}
