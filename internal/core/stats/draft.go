package stats

import (
	"github.com/lorrc/ticket-insights/internal/core/domain"
)

// DraftCount reads the draft bucket of an audit series.
func DraftCount(audit domain.Series) (int, bool) {
	return audit.Value(domain.DraftLabel)
}

// SubtractDrafts removes draft tickets from the open bucket of a status
// series: open becomes max(0, open-drafts). Every bucket left at zero is
// dropped from the result.
func SubtractDrafts(status domain.Series, drafts int) domain.Series {
	out := domain.EmptySeries()
	for i, label := range status.Labels {
		if i >= len(status.Data) {
			break
		}
		v := status.Data[i]
		if label == domain.OpenStatusLabel {
			v = max(0, v-drafts)
		}
		if v == 0 {
			continue
		}
		out.Labels = append(out.Labels, label)
		out.Data = append(out.Data, v)
	}
	return out
}

// DropDraftBucket removes the draft label from an audit series.
func DropDraftBucket(audit domain.Series) domain.Series {
	out := domain.EmptySeries()
	for i, label := range audit.Labels {
		if label == domain.DraftLabel || i >= len(audit.Data) {
			continue
		}
		out.Labels = append(out.Labels, label)
		out.Data = append(out.Data, audit.Data[i])
	}
	return out
}

// pick selects the draft-excluded variant when requested and present.
// A variant missing from the document falls back to the raw series.
func pick(raw, noDraft domain.Series, excludeDraft bool) domain.Series {
	if excludeDraft && noDraft.Labels != nil {
		return noDraft
	}
	return raw
}

func pickYear(raw, noDraft domain.YearSeries, excludeDraft bool, year string) domain.Series {
	if excludeDraft && noDraft != nil {
		return noDraft.Get(year)
	}
	return raw.Get(year)
}
