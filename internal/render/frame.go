// Package render computes and rasterizes individual animation frames.
package render

import (
	"github.com/ivlev/chart2video/internal/layout"
	"github.com/ivlev/chart2video/internal/series"
	"github.com/ivlev/chart2video/internal/timeline"
)

// Phase names the animation segment a frame belongs to.
type Phase int

const (
	// PhaseHook holds the first point while the header grabs
	// attention.
	PhaseHook Phase = iota
	// PhaseDraw extends the line one cursor step per frame.
	PhaseDraw
	// PhaseReveal shows the completed line with the results overlay.
	PhaseReveal
)

func (p Phase) String() string {
	switch p {
	case PhaseHook:
		return "hook"
	case PhaseDraw:
		return "draw"
	default:
		return "reveal"
	}
}

// hookPulseFrames is the half-period of the quiz header pulse.
const hookPulseFrames = 15

// pulseDimAlpha is the dimmed header opacity on odd pulse beats.
const pulseDimAlpha = 0.8

// FrameState is the complete visual state of one output frame. It is a
// plain value derived from the plan and the layout; computing it has no
// side effects, so frames can be prepared on any worker in any order.
type FrameState struct {
	Index  int
	Phase  Phase
	Cursor int

	// OverlayAlpha dims the header during the quiz hook pulse.
	OverlayAlpha float64

	HeadVisible     bool
	DateVisible     bool
	DateLabel       string
	SubtitleVisible bool
	MarkersVisible  bool
	RevealVisible   bool
	LogoVisible     bool
}

// Compute derives the state of frame i.
func Compute(plan timeline.Plan, dense series.DenseSeries, vc *layout.VisualConfig, i int) FrameState {
	st := FrameState{Index: i, OverlayAlpha: 1}

	switch {
	case i < plan.StartIdle:
		st.Phase = PhaseHook
	case i < plan.StartIdle+plan.Draw:
		st.Phase = PhaseDraw
	default:
		st.Phase = PhaseReveal
	}

	if i >= 0 && i < len(plan.Index) {
		st.Cursor = plan.Index[i]
	} else if n := len(dense); n > 0 {
		st.Cursor = n - 1
	}

	switch st.Phase {
	case PhaseHook:
		st.HeadVisible = true
		st.DateVisible = true
		st.SubtitleVisible = true
		if vc.HookPulse && (i/hookPulseFrames)%2 == 1 {
			st.OverlayAlpha = pulseDimAlpha
		}
	case PhaseDraw:
		st.HeadVisible = true
		st.DateVisible = true
		st.SubtitleVisible = true
	case PhaseReveal:
		st.MarkersVisible = true
		st.RevealVisible = vc.ShowReveal
	}

	if vc.Logo != nil {
		if st.Phase == PhaseReveal {
			st.LogoVisible = !st.RevealVisible
		} else {
			st.LogoVisible = vc.Mode == layout.ModeReview
		}
	}

	if st.DateVisible && st.Cursor < len(dense) {
		st.DateLabel = dense[st.Cursor].Time.Format(vc.DateFormat)
	}
	return st
}
