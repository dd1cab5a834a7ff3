package seed

import (
	"log/slog"
	"strconv"

	"portalcms/internal/metrics"
)

// Record kinds used in reports and metrics.
const (
	KindCategory        = "category"
	KindPressRelease    = "press_release"
	KindNotification    = "notification"
	KindGalleryCategory = "gallery_category"
	KindGalleryImage    = "gallery_image"
)

// Tally counts created and updated records of one kind.
type Tally struct {
	Created int
	Updated int
}

func (t *Tally) count(created bool) {
	if created {
		t.Created++
	} else {
		t.Updated++
	}
}

func (t Tally) total() int { return t.Created + t.Updated }

// Problem is a record that was skipped.
type Problem struct {
	Kind   string
	Key    string
	Reason string
}

// Report summarises a seed run.
type Report struct {
	Categories        Tally
	PressReleases     Tally
	Notifications     Tally
	GalleryCategories Tally
	GalleryImages     Tally
	Images            int // media assets attached (imported or reused)

	ClearedPressReleases int64
	ClearedCategories    int64

	Problems []Problem
}

func (r *Report) skip(kind, key, reason string) {
	slog.Warn("seed record skipped", "kind", kind, "key", key, "reason", reason)
	metrics.RecordSeed(kind, "skipped")
	r.Problems = append(r.Problems, Problem{Kind: kind, Key: key, Reason: reason})
}

// Skipped returns the number of skipped records of kind.
func (r *Report) Skipped(kind string) int {
	n := 0
	for _, p := range r.Problems {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

// Rows returns one row per record kind that saw any activity:
// kind, created, updated, skipped.
func (r *Report) Rows() [][]string {
	tallies := []struct {
		kind string
		t    Tally
	}{
		{KindCategory, r.Categories},
		{KindPressRelease, r.PressReleases},
		{KindNotification, r.Notifications},
		{KindGalleryCategory, r.GalleryCategories},
		{KindGalleryImage, r.GalleryImages},
	}

	var rows [][]string
	for _, e := range tallies {
		skipped := r.Skipped(e.kind)
		if e.t.total() == 0 && skipped == 0 {
			continue
		}
		rows = append(rows, []string{
			e.kind,
			strconv.Itoa(e.t.Created),
			strconv.Itoa(e.t.Updated),
			strconv.Itoa(skipped),
		})
	}
	return rows
}
