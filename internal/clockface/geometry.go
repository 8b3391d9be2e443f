package clockface

import (
	"fmt"
	"math"
	"strings"
)

// Dial geometry.
const (
	CenterX = 200.0
	CenterY = 200.0

	ViewBox = 460
	Offset  = 30

	FaceRadius = 180.0

	HourTickInner  = 178.0
	HourTickOuter  = 188.0
	HourTextRadius = 220.0

	MinuteTickInner = 170.0
	MinuteTickOuter = 175.0

	HourHandLength   = 110.0
	MinuteHandLength = 150.0
	SecondHandLength = 165.0

	DefaultArcRadius = 160.0
	OverlapRadius    = 150.0

	ArcStroke       = 16.0
	ActiveArcStroke = 20.0
)

// Pt is a point in dial coordinates.
type Pt struct {
	X, Y float64
}

// Angle returns the dial angle in degrees for a position on a cycle of the
// given length (24 for hours, 60 for minutes).
func Angle(pos, cycle float64) float64 {
	return pos/cycle*360 - 90
}

// Polar returns the point at angle degrees and radius r from the centre.
func Polar(angle, r float64) Pt {
	rad := angle * math.Pi / 180
	return Pt{
		X: CenterX + r*math.Cos(rad),
		Y: CenterY + r*math.Sin(rad),
	}
}

// Point returns the dial point for an hour-of-day at radius r.
func Point(hour, r float64) Pt {
	return Polar(Angle(hour, 24), r)
}

// ArcPath returns the SVG path for a clockwise arc from open to close hours.
// An arc whose ends coincide covers the whole dial.
func ArcPath(open, close int, r float64) string {
	duration := close - open
	if duration <= 0 {
		duration += 24
	}

	start := Point(float64(open), r)
	if duration == 24 {
		// A single arc with equal endpoints draws nothing; split in two.
		mid := Point(float64(open)+12, r)
		return fmt.Sprintf("M %s A %s 0 0 1 %s A %s 0 0 1 %s",
			fmtPt(start), fmtR(r), fmtPt(mid), fmtR(r), fmtPt(start))
	}

	end := Point(float64(close), r)
	largeArc := 0
	if duration > 12 {
		largeArc = 1
	}
	return fmt.Sprintf("M %s A %s 0 %d 1 %s", fmtPt(start), fmtR(r), largeArc, fmtPt(end))
}

// Tick is a radial line segment.
type Tick struct {
	X1, Y1, X2, Y2 float64
	Major          bool
}

// HourMark is an hour tick with its label position.
type HourMark struct {
	Tick
	TX, TY float64
	Label  string
}

// HourMarks returns the 24 hour ticks; every sixth is major.
func HourMarks() []HourMark {
	marks := make([]HourMark, 24)
	for i := range marks {
		a := Angle(float64(i), 24)
		in, out, txt := Polar(a, HourTickInner), Polar(a, HourTickOuter), Polar(a, HourTextRadius)
		marks[i] = HourMark{
			Tick:  Tick{X1: in.X, Y1: in.Y, X2: out.X, Y2: out.Y, Major: i%6 == 0},
			TX:    txt.X,
			TY:    txt.Y,
			Label: fmt.Sprintf("%02d", i),
		}
	}
	return marks
}

// MinuteTicks returns the 60 minute ticks; every fifth is major.
func MinuteTicks() []Tick {
	ticks := make([]Tick, 60)
	for i := range ticks {
		a := Angle(float64(i), 60)
		in, out := Polar(a, MinuteTickInner), Polar(a, MinuteTickOuter)
		ticks[i] = Tick{X1: in.X, Y1: in.Y, X2: out.X, Y2: out.Y, Major: i%5 == 0}
	}
	return ticks
}

func fmtPt(p Pt) string {
	return fmtFloat(p.X) + " " + fmtFloat(p.Y)
}

func fmtR(r float64) string {
	return fmtFloat(r) + " " + fmtFloat(r)
}

// fmtFloat prints with at most 3 decimals and no trailing zeros.
func fmtFloat(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
