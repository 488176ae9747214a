package ui

import (
	"fmt"
	"time"

	"github.com/teawcommunity/teawatch/internal/api"
)

// offlineFailureThreshold is how many consecutive transport failures are
// tolerated before the widget declares the server unreachable. Flaky
// networks and suspended machines get a few chances first.
const offlineFailureThreshold = 5

// statusWidget tracks server connectivity from the 2-second status polls.
// A poll can fail two ways: the backend reports itself unhealthy (status
// not "ok"), or the request itself fails.
type statusWidget struct {
	failures    int
	lastSuccess time.Time
	staleMins   int64
	current     api.Status
	haveData    bool
}

func newStatusWidget(now time.Time) statusWidget {
	return statusWidget{lastSuccess: now}
}

func (w *statusWidget) observe(msg StatusMsg, now time.Time) {
	if msg.Err != nil {
		w.failures++
		return
	}
	w.current = msg.Status
	w.haveData = true
	if msg.Status.OK() {
		w.failures = 0
		w.lastSuccess = now
	} else {
		w.staleMins = msg.Status.StaleMinutes()
	}
}

func (w statusWidget) unreachable() bool {
	return w.failures > offlineFailureThreshold
}

func (w statusWidget) red() bool {
	return w.unreachable() || (w.haveData && !w.current.OK())
}

// light returns the colored status dot.
func (w statusWidget) light() string {
	switch {
	case w.red():
		return LightRed.Render("●")
	case !w.haveData:
		return LightGray.Render("●")
	}
	return LightGreen.Render("●")
}

// text returns the short status line next to the light.
func (w statusWidget) text(now time.Time) string {
	switch {
	case w.unreachable():
		return fmt.Sprintf("Offline for %dm", int(now.Sub(w.lastSuccess).Minutes()))
	case !w.haveData:
		return "Connecting..."
	case w.current.OK():
		plural := "s"
		if w.current.OnlinePlayers == 1 {
			plural = ""
		}
		return fmt.Sprintf("%d player%s online", w.current.OnlinePlayers, plural)
	}
	return fmt.Sprintf("Last update %dm ago", w.staleMins)
}

// detail returns the expanded explanation shown on demand. Empty unless the
// light is red.
func (w statusWidget) detail() string {
	if !w.red() {
		return ""
	}
	if w.unreachable() {
		return "Could not reach the web server. You are offline."
	}
	return fmt.Sprintf("The last update was %d minutes ago. "+
		"The data shown may be outdated.", w.staleMins)
}
