package workitem

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/domain/shared"
)

// BoardEntry is one card of the desired board submitted by a client.
// A zero ID means the card is new. Version is the version the client last
// saw; it must match the stored card for any change to be written.
type BoardEntry struct {
	ID          uuid.UUID
	Version     int
	Title       string
	Category    string
	Status      Status
	DateRange   string
	ReportDraft string
	Fields      map[string]string
	SortOrder   int
}

// Validate checks the entry on its own
func (e BoardEntry) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return shared.NewDomainError("INVALID_TITLE", "Work item title cannot be empty")
	}
	if !e.Status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown work item status %q", e.Status))
	}
	return nil
}

// SyncPlan is the set of row writes that turns the stored board into the
// desired one. Rows that already match are counted, not rewritten.
type SyncPlan struct {
	Create    []*WorkItem
	Update    []*WorkItem
	Delete    []*WorkItem
	Unchanged int

	expected map[uuid.UUID]int
}

// ExpectedVersion returns the stored version an updated item was planned
// against, for the compare-and-swap write
func (p SyncPlan) ExpectedVersion(id uuid.UUID) int {
	return p.expected[id]
}

// IsEmpty reports whether applying the plan would write nothing
func (p SyncPlan) IsEmpty() bool {
	return len(p.Create) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

// PlanSync diffs the stored board against the desired board by item id.
// Identifiers are never taken from the desired board; an existing item keeps
// the identifier it already carries.
//
// A changed card must carry the stored version, otherwise the whole plan is
// rejected with shared.ErrStaleState. Status changes follow the lifecycle:
// only start, complete and reopen are accepted, and reopening clears the
// activity range.
func PlanSync(teamID string, current []*WorkItem, desired []BoardEntry) (SyncPlan, error) {
	plan := SyncPlan{expected: make(map[uuid.UUID]int)}

	byID := make(map[uuid.UUID]*WorkItem, len(current))
	for _, item := range current {
		byID[item.ID] = item
	}

	seen := make(map[uuid.UUID]struct{}, len(desired))
	for _, entry := range desired {
		if err := entry.Validate(); err != nil {
			return SyncPlan{}, err
		}
		if entry.ID != uuid.Nil {
			if _, dup := seen[entry.ID]; dup {
				return SyncPlan{}, ErrDuplicateBoardEntry
			}
			seen[entry.ID] = struct{}{}
		}

		existing, ok := byID[entry.ID]
		if entry.ID == uuid.Nil || !ok {
			plan.Create = append(plan.Create, newFromEntry(teamID, entry))
			continue
		}
		if existing.matches(entry) {
			plan.Unchanged++
			continue
		}
		if entry.Version != existing.Version {
			return SyncPlan{}, shared.ErrStaleState
		}
		plan.expected[existing.ID] = existing.Version
		if err := existing.applyEntry(entry); err != nil {
			return SyncPlan{}, err
		}
		plan.Update = append(plan.Update, existing)
	}

	for _, item := range current {
		if _, keep := seen[item.ID]; !keep {
			plan.Delete = append(plan.Delete, item)
		}
	}

	return plan, nil
}

func newFromEntry(teamID string, entry BoardEntry) *WorkItem {
	item := &WorkItem{
		TeamAggregateRoot: shared.NewTeamAggregateRoot(teamID),
	}
	if entry.ID != uuid.Nil {
		item.ID = entry.ID
	}
	item.assign(entry)
	return item
}

func (w *WorkItem) matches(e BoardEntry) bool {
	return w.Title == strings.TrimSpace(e.Title) &&
		w.Category == strings.TrimSpace(e.Category) &&
		w.Status == e.Status &&
		w.DateRange == strings.TrimSpace(e.DateRange) &&
		w.ReportDraft == e.ReportDraft &&
		w.SortOrder == e.SortOrder &&
		maps.Equal(w.Fields, e.Fields)
}

// applyEntry moves the item to the entry's status through the lifecycle and
// then copies the descriptive fields. The version is bumped exactly once.
func (w *WorkItem) applyEntry(e BoardEntry) error {
	version := w.Version
	dateRange := strings.TrimSpace(e.DateRange)

	if e.Status != w.Status {
		var err error
		switch {
		case w.Status == StatusPlanned && e.Status == StatusInProgress:
			err = w.Start(dateRange)
		case w.Status == StatusInProgress && e.Status == StatusCompleted:
			err = w.Complete()
		case w.Status == StatusCompleted && e.Status == StatusInProgress:
			err = w.Reopen()
			dateRange = ""
		default:
			err = w.checkTransition(e.Status)
		}
		if err != nil {
			return err
		}
	}

	w.assignDetails(e)
	w.DateRange = dateRange
	w.UpdatedAt = time.Now()
	w.Version = version + 1
	return nil
}

func (w *WorkItem) assign(e BoardEntry) {
	w.Status = e.Status
	w.DateRange = strings.TrimSpace(e.DateRange)
	w.assignDetails(e)
}

func (w *WorkItem) assignDetails(e BoardEntry) {
	w.Title = strings.TrimSpace(e.Title)
	w.Category = strings.TrimSpace(e.Category)
	w.ReportDraft = e.ReportDraft
	w.SortOrder = e.SortOrder
	w.Fields = copyFields(e.Fields)
}
