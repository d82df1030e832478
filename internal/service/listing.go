package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/douglasrujana/react-form-restaurant/internal/domain"
	"github.com/douglasrujana/react-form-restaurant/internal/refresh"
)

// ReservationLister reads every reservation in date/time order.
type ReservationLister interface {
	List(ctx context.Context) ([]domain.Reservation, error)
}

// ListState is whether the listing is waiting on the store.
type ListState int

const (
	ListLoading ListState = iota
	ListLoaded
)

// ReservationRow is one reservation ready for display.
type ReservationRow struct {
	Reservation domain.Reservation
	DateLabel   string
	TimeLabel   string
	GuestsLabel string
}

// ListView is a snapshot of the listing.
type ListView struct {
	State ListState
	Rows  []ReservationRow
	// Failed is set when the last fetch errored; Rows is empty in that case.
	Failed bool
	// Version is the highest refresh version the shown rows reflect.
	Version uint64
}

// Loading reports whether a fetch is outstanding.
func (v ListView) Loading() bool { return v.State == ListLoading }

// Empty reports whether the loaded listing has no rows.
func (v ListView) Empty() bool { return v.State == ListLoaded && len(v.Rows) == 0 }

// CountLabel renders the row count, e.g. "2 reservas registradas".
func (v ListView) CountLabel() string { return CountLabel(len(v.Rows)) }

// Lister keeps a read-only view of all reservations in step with the store.
// A fetch that starts while another is in flight supersedes it: only the
// newest fetch's result is applied. Every applied result is announced to
// subscribers, so readers can re-read the view once it has settled.
type Lister struct {
	source ReservationLister
	log    *slog.Logger
	loaded *refresh.Broker

	mu        sync.Mutex
	gen       uint64
	requested uint64
	view      ListView
}

// NewLister returns a Lister in the loading state; nothing is fetched until
// Run or Refresh is called.
func NewLister(source ReservationLister, log *slog.Logger) *Lister {
	return &Lister{
		source: source,
		log:    log,
		loaded: refresh.NewBroker(),
		view:   ListView{State: ListLoading},
	}
}

// Subscribe delivers a value each time a fetch result is applied to the
// view. Callers must Close the subscription.
func (l *Lister) Subscribe() *refresh.Subscription {
	return l.loaded.Subscribe()
}

// WaitFor blocks until the view is loaded and reflects at least version, or
// until ctx is done, and returns the view at that point.
func (l *Lister) WaitFor(ctx context.Context, version uint64) ListView {
	sub := l.loaded.Subscribe()
	defer sub.Close()

	for {
		v := l.View()
		if v.State == ListLoaded && v.Version >= version {
			return v
		}
		select {
		case <-ctx.Done():
			return l.View()
		case <-sub.C():
		}
	}
}

// View returns the current snapshot.
func (l *Lister) View() ListView {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.view
}

// Run fetches once on activation and again for every value received on
// signals, until ctx is done or signals is closed. Each fetch runs on its own
// goroutine so a new signal is never queued behind a slow fetch.
func (l *Lister) Run(ctx context.Context, signals <-chan uint64) {
	var wg sync.WaitGroup
	defer wg.Wait()

	fetch := func(version uint64) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Refresh(ctx, version)
		}()
	}

	fetch(0)
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-signals:
			if !ok {
				return
			}
			fetch(v)
		}
	}
}

// Refresh enters the loading state, reads all reservations, and publishes
// the result as the view for version. A fetch also reflects every version
// requested before it started. A failed read is logged and shown as an
// empty listing with Failed set.
func (l *Lister) Refresh(ctx context.Context, version uint64) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.requested = max(l.requested, version)
	version = l.requested
	l.view.State = ListLoading
	l.mu.Unlock()

	reservations, err := l.source.List(ctx)
	if err != nil {
		l.log.ErrorContext(ctx, "error fetching reservations", "version", version, "error", err)
	}

	l.mu.Lock()
	if gen != l.gen {
		// A newer fetch started after this one; its result wins.
		l.mu.Unlock()
		return
	}
	if err != nil {
		l.view = ListView{State: ListLoaded, Failed: true, Version: version}
	} else {
		l.view = ListView{State: ListLoaded, Rows: toRows(reservations), Version: version}
	}
	l.mu.Unlock()

	l.loaded.Publish()
}

func toRows(in []domain.Reservation) []ReservationRow {
	rows := make([]ReservationRow, len(in))
	for i, r := range in {
		rows[i] = ReservationRow{
			Reservation: r,
			DateLabel:   FormatDate(r.Date),
			TimeLabel:   FormatTime(r.Time),
			GuestsLabel: GuestsLabel(r.Guests),
		}
	}
	return rows
}
