// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package view holds the ambassador portal's view state machine. State is
// kept per session; transitions are synchronous and there is no history.
package view

import "errors"

// View names one screen of the portal.
type View string

const (
	Setup       View = "setup"
	Experiences View = "experiences"
	Preview     View = "preview"
	Disclosure  View = "disclosure"
	Submit      View = "submit"
	Submitted   View = "submitted"
)

var (
	// ErrUnknownView is returned for a target that is not a portal view.
	ErrUnknownView = errors.New("view: unknown view")

	// ErrDisclosureRequired is returned when entering submit before the
	// disclosure has been accepted.
	ErrDisclosureRequired = errors.New("view: disclosure must be accepted first")

	// ErrTerminal is returned when navigating directly to submitted.
	ErrTerminal = errors.New("view: submitted is only reachable by submitting")
)

// Nav lists the views shown in the portal navigation, in order.
var Nav = []View{Setup, Experiences, Preview, Disclosure, Submit}

// Label returns the navigation label for v.
func (v View) Label() string {
	switch v {
	case Setup:
		return "Profile Setup"
	case Experiences:
		return "Curate Experiences"
	case Preview:
		return "Preview Card"
	case Disclosure:
		return "Disclosure"
	case Submit:
		return "Submit"
	case Submitted:
		return "Submitted"
	}
	return string(v)
}

// Path returns the portal URL for v.
func (v View) Path() string {
	return "/portal/" + string(v)
}

// Parse converts s into a View.
func Parse(s string) (View, error) {
	switch v := View(s); v {
	case Setup, Experiences, Preview, Disclosure, Submit, Submitted:
		return v, nil
	}
	return "", ErrUnknownView
}

// State is the per-session navigation state.
type State struct {
	Active             View `json:"active"`
	DisclosureAccepted bool `json:"disclosureAccepted"`
}

// Initial returns the state of a fresh session.
func Initial() State {
	return State{Active: Setup}
}

// Current returns the active view, defaulting to Setup.
func (s State) Current() View {
	if _, err := Parse(string(s.Active)); err != nil {
		return Setup
	}
	return s.Active
}

// Navigate moves to target. On error the state is unchanged.
func (s *State) Navigate(target View) error {
	if _, err := Parse(string(target)); err != nil {
		return err
	}
	switch target {
	case Submitted:
		return ErrTerminal
	case Submit:
		if !s.DisclosureAccepted {
			return ErrDisclosureRequired
		}
	}
	s.Active = target
	return nil
}

// Accept records the disclosure acknowledgement.
func (s *State) Accept() {
	s.DisclosureAccepted = true
}

// MarkSubmitted enters the terminal submitted view.
func (s *State) MarkSubmitted() {
	s.Active = Submitted
}

// Dismiss leaves the submitted view and returns to setup. The disclosure
// must be accepted again before the next submission.
func (s *State) Dismiss() {
	s.Active = Setup
	s.DisclosureAccepted = false
}
