package crawler

import (
	"fmt"
)

// EventKind identifies a progress event.
type EventKind string

const (
	EventCategoryStarted  EventKind = "category_started"
	EventSectionsFound    EventKind = "sections_found"
	EventPagesFound       EventKind = "pages_found"
	EventPageWritten      EventKind = "page_written"
	EventRecordSkipped    EventKind = "record_skipped"
	EventFetchFailed      EventKind = "fetch_failed"
	EventImageFailed      EventKind = "image_failed"
	EventPageFailed       EventKind = "page_failed"
	EventCategoryFinished EventKind = "category_finished"
)

// Event is a progress notification emitted while crawling.
type Event struct {
	Kind     EventKind
	RunID    string
	Category string
	URL      string
	Strategy string
	Count    int
	Index    int
	Err      error
}

// ProgressFunc receives progress events. It may be called from several
// goroutines at once when pages are processed concurrently.
type ProgressFunc func(Event)

// String returns a human-readable progress message.
func (e Event) String() string {
	switch e.Kind {
	case EventCategoryStarted:
		return fmt.Sprintf("Crawling category %s", e.Category)
	case EventSectionsFound:
		return fmt.Sprintf("Found %d section URLs for category %s", e.Count, e.Category)
	case EventPagesFound:
		return fmt.Sprintf("Found %d page URLs in section %s (%s)", e.Count, e.URL, e.Strategy)
	case EventPageWritten:
		return fmt.Sprintf("Written %d new questions from %s", e.Count, e.URL)
	case EventRecordSkipped:
		return fmt.Sprintf("Skipped record %d on %s: %v", e.Index, e.URL, e.Err)
	case EventFetchFailed:
		return fmt.Sprintf("Could not fetch %s: %v", e.URL, e.Err)
	case EventImageFailed:
		return fmt.Sprintf("Could not inline image %s", e.URL)
	case EventPageFailed:
		return fmt.Sprintf("Page %s failed: %v", e.URL, e.Err)
	case EventCategoryFinished:
		return fmt.Sprintf("Finished category %s: %d new questions", e.Category, e.Count)
	default:
		return string(e.Kind)
	}
}
