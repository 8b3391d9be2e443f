package clockface

import (
	"html"
	"io"
	"slices"
	"text/template"

	"github.com/rickgao/session-clock/internal/model"
)

// overlapColor is the fill of the volatility highlight arc.
const overlapColor = "rgba(255,165,0,0.05)"

// Arc is a drawn session or overlap arc.
type Arc struct {
	ID     string
	Name   string
	Path   string
	Color  string
	Stroke float64
	Active bool
}

// Hand is a clock hand from the centre.
type Hand struct {
	X, Y float64
}

// Face is everything needed to draw one dial.
type Face struct {
	Title       string
	HourMarks   []HourMark
	MinuteTicks []Tick
	Overlaps    []Arc
	Arcs        []Arc
	Hour        Hand
	Minute      Hand
	Second      Hand
}

// Build lays out a dial for the reading. Radii come from each session's
// Radius, falling back to DefaultArcRadius.
func Build(reading model.ClockReading, sessions []model.Session, active []string, windows []model.Window) Face {
	f := Face{
		Title:       reading.Clock(),
		HourMarks:   HourMarks(),
		MinuteTicks: MinuteTicks(),
	}
	if reading.Timezone != "" {
		f.Title += " " + reading.Timezone
	} else {
		f.Title += " UTC"
	}

	for _, w := range windows {
		f.Overlaps = append(f.Overlaps, Arc{
			ID:     "overlap",
			Path:   ArcPath(w.Start, w.End, OverlapRadius),
			Color:  overlapColor,
			Stroke: ArcStroke,
		})
	}

	for _, s := range sessions {
		r := s.Radius
		if r <= 0 {
			r = DefaultArcRadius
		}
		isActive := slices.Contains(active, s.ID)
		stroke := ArcStroke
		if isActive {
			stroke = ActiveArcStroke
		}
		f.Arcs = append(f.Arcs, Arc{
			ID:     s.ID,
			Name:   s.Name,
			Path:   ArcPath(s.Open, s.Close, r),
			Color:  s.Color,
			Stroke: stroke,
			Active: isActive,
		})
	}

	f.Hour = hand(Angle(reading.TotalHours, 24), HourHandLength)
	f.Minute = hand(Angle(float64(reading.Minutes), 60), MinuteHandLength)
	f.Second = hand(Angle(float64(reading.Seconds), 60), SecondHandLength)
	return f
}

// FromSnapshot builds the dial for a snapshot. local selects the local
// reading for the hands; arcs always stay in UTC hours.
func FromSnapshot(snap model.Snapshot, local bool) Face {
	reading := snap.UTC
	if local {
		reading = snap.Local
	}
	return Build(reading, snap.Sessions, snap.Active, snap.VolatilityWindows)
}

func hand(angle, length float64) Hand {
	p := Polar(angle, length)
	return Hand{X: p.X, Y: p.Y}
}

var faceTmpl = template.Must(template.New("face").Funcs(template.FuncMap{
	"f": fmtFloat,
	"x": html.EscapeString,
}).Parse(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 460 460" role="img">
<title>{{x .Title}}</title>
<g transform="translate(30, 30)">
<circle cx="200" cy="200" r="180" fill="#18181b" stroke="#3f3f46" stroke-width="1"/>
{{- range .MinuteTicks}}
<line x1="{{f .X1}}" y1="{{f .Y1}}" x2="{{f .X2}}" y2="{{f .Y2}}" stroke="{{if .Major}}#52525b{{else}}#27272a{{end}}" stroke-width="{{if .Major}}1.5{{else}}0.5{{end}}"/>
{{- end}}
{{- range .HourMarks}}
<line x1="{{f .X1}}" y1="{{f .Y1}}" x2="{{f .X2}}" y2="{{f .Y2}}" stroke="{{if .Major}}#71717a{{else}}#3f3f46{{end}}" stroke-width="{{if .Major}}2{{else}}1{{end}}"/>
<text x="{{f .TX}}" y="{{f .TY}}" fill="{{if .Major}}#e4e4e7{{else}}#71717a{{end}}" font-size="{{if .Major}}14{{else}}11{{end}}" font-weight="{{if .Major}}bold{{else}}normal{{end}}" font-family="monospace" text-anchor="middle" dominant-baseline="middle">{{.Label}}</text>
{{- end}}
{{- range .Overlaps}}
<path class="overlap" d="{{.Path}}" fill="none" stroke="{{x .Color}}" stroke-width="{{f .Stroke}}" stroke-linecap="round"/>
{{- end}}
{{- range .Arcs}}
<path class="session{{if .Active}} active{{end}}" data-session="{{x .ID}}" d="{{.Path}}" fill="none" stroke="{{x .Color}}" stroke-width="{{f .Stroke}}" stroke-linecap="round"><title>{{x .Name}}</title></path>
{{- end}}
<line x1="200" y1="200" x2="{{f .Minute.X}}" y2="{{f .Minute.Y}}" stroke="#a1a1aa" stroke-width="3" stroke-linecap="round"/>
<line x1="200" y1="200" x2="{{f .Hour.X}}" y2="{{f .Hour.Y}}" stroke="white" stroke-width="5" stroke-linecap="round"/>
<line x1="200" y1="200" x2="{{f .Second.X}}" y2="{{f .Second.Y}}" stroke="#10b981" stroke-width="1.5" stroke-linecap="round"/>
<circle cx="200" cy="200" r="3" fill="#10b981"/>
<circle cx="200" cy="200" r="6" fill="white"/>
<circle cx="200" cy="200" r="2" fill="#18181b"/>
</g>
</svg>
`))

// Render writes the face as an SVG document.
func Render(w io.Writer, f Face) error {
	return faceTmpl.Execute(w, f)
}
