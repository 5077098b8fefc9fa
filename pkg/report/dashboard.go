// Package report publishes reconciliation results into a markdown dashboard
// note, one injected region per media kind and pass.
package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/butler/pkg/core"
)

// StampLayout formats the "updated" line above each region.
const StampLayout = "2006-01-02 15:04"

// Dashboard implements core.Reporter on top of an injector.
type Dashboard struct {
	Injector core.Injector
	// Target is the dashboard note, relative to the injector root.
	Target string
	Now    func() time.Time
}

var _ core.Reporter = (*Dashboard)(nil)

// NewDashboard returns a dashboard writing to target.
func NewDashboard(injector core.Injector, target string, now func() time.Time) *Dashboard {
	return &Dashboard{Injector: injector, Target: target, Now: now}
}

// DetectTag and CullTag name the regions of a kind.
func DetectTag(kind string) string { return kind + "-detect" }
func CullTag(kind string) string   { return kind + "-cull" }

// ReportDetect injects the detect summary of kind.
func (d *Dashboard) ReportDetect(ctx context.Context, kind core.MediaKind, r core.DetectReport) error {
	return d.Injector.Inject(ctx, d.Target, DetectTag(kind.Name), d.RenderDetect(kind, r))
}

// ReportCull injects the cull summary of kind.
func (d *Dashboard) ReportCull(ctx context.Context, kind core.MediaKind, r core.CullReport) error {
	return d.Injector.Inject(ctx, d.Target, CullTag(kind.Name), d.RenderCull(kind, r))
}

// RenderDetect renders a detect report as markdown.
func (d *Dashboard) RenderDetect(kind core.MediaKind, r core.DetectReport) string {
	var sb strings.Builder
	d.heading(&sb, kind, "detect")
	sb.WriteString(metrics([][2]string{
		{"Scanned", strconv.Itoa(r.Scanned)},
		{"Annotated", strconv.Itoa(r.Existing)},
		{"Created", strconv.Itoa(len(r.Created))},
		{"Failed", strconv.Itoa(len(r.Failed))},
	}))
	items(&sb, "Created", r.Created)
	items(&sb, "Failed", r.Failed)
	return sb.String()
}

// RenderCull renders a cull report as markdown.
func (d *Dashboard) RenderCull(kind core.MediaKind, r core.CullReport) string {
	var sb strings.Builder
	d.heading(&sb, kind, "cull")
	if r.Skipped {
		fmt.Fprintf(&sb, "Cull window opens in %d day(s).\n", r.DaysRemaining)
		return sb.String()
	}
	if r.DryRun {
		sb.WriteString("Dry run, nothing was deleted.\n\n")
	}
	sb.WriteString(metrics([][2]string{
		{"Scanned", strconv.Itoa(r.Scanned)},
		{"New", strconv.Itoa(r.New)},
		{"Unprocessed", strconv.Itoa(r.Unprocessed)},
		{"Keepers", strconv.Itoa(r.Keepers)},
		{"Unwatched", strconv.Itoa(r.Unwatched)},
		{"Culled", strconv.Itoa(len(r.Culled))},
		{"Failed", strconv.Itoa(len(r.Failed))},
		{"Errors", strconv.Itoa(r.Errors)},
	}))
	items(&sb, "Culled", r.Culled)
	items(&sb, "Failed", r.Failed)
	return sb.String()
}

func (d *Dashboard) heading(sb *strings.Builder, kind core.MediaKind, pass string) {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	fmt.Fprintf(sb, "_%s %s, updated %s_\n\n", kind.Name, pass, now().Format(StampLayout))
}

func metrics(pairs [][2]string) string {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p[0], p[1]})
	}
	return Markdown([]string{"Metric", "Count"}, rows, AlignLeft, AlignRight) + "\n"
}

func items(sb *strings.Builder, header string, list []core.Item) {
	if len(list) == 0 {
		return
	}
	rows := make([][]string, 0, len(list))
	for _, it := range list {
		rows = append(rows, []string{it.Title, it.Year})
	}
	sb.WriteString("\n")
	sb.WriteString(Markdown([]string{header, "Year"}, rows))
	sb.WriteString("\n")
}
