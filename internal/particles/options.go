// Package particles builds the configuration for the decorative particle
// background. The engine itself runs in the browser; if it never initialises
// the layer is simply absent.
package particles

import (
	"encoding/json"

	"github.com/jaeyunjks/portfolio/internal/theme"
)

type Options struct {
	FPSLimit      int           `json:"fpsLimit"`
	Background    Background    `json:"background"`
	Particles     Particles     `json:"particles"`
	Interactivity Interactivity `json:"interactivity"`
	DetectRetina  bool          `json:"detectRetina"`
}

type Background struct {
	Color Value[string] `json:"color"`
}

type Value[T any] struct {
	Value T `json:"value"`
}

type Particles struct {
	Number  Number          `json:"number"`
	Color   Value[[]string] `json:"color"`
	Shape   Shape           `json:"shape"`
	Opacity Opacity         `json:"opacity"`
	Size    Value[Range]    `json:"size"`
	Move    Move            `json:"move"`
	Links   Links           `json:"links"`
}

type Number struct {
	Value   int     `json:"value"`
	Density Density `json:"density"`
}

type Density struct {
	Enable bool `json:"enable"`
	Area   int  `json:"area"`
}

type Shape struct {
	Type string `json:"type"`
}

type Opacity struct {
	Value     float64   `json:"value"`
	Random    bool      `json:"random"`
	Animation Animation `json:"animation"`
}

type Animation struct {
	Enable       bool    `json:"enable"`
	Speed        float64 `json:"speed"`
	MinimumValue float64 `json:"minimumValue"`
}

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Move struct {
	Enable    bool    `json:"enable"`
	Speed     float64 `json:"speed"`
	Direction string  `json:"direction"`
	Random    bool    `json:"random"`
	Straight  bool    `json:"straight"`
	OutModes  string  `json:"outModes"`
}

type Links struct {
	Enable   bool    `json:"enable"`
	Distance int     `json:"distance"`
	Color    string  `json:"color"`
	Opacity  float64 `json:"opacity"`
	Width    int     `json:"width"`
}

type Interactivity struct {
	Events Events `json:"events"`
	Modes  Modes  `json:"modes"`
}

type Events struct {
	OnHover Toggle `json:"onHover"`
	OnClick Toggle `json:"onClick"`
	Resize  bool   `json:"resize"`
}

type Toggle struct {
	Enable bool   `json:"enable"`
	Mode   string `json:"mode"`
}

type Modes struct {
	Grab Grab `json:"grab"`
	Push Push `json:"push"`
}

type Grab struct {
	Distance int            `json:"distance"`
	Links    Value[float64] `json:"links"`
}

type Push struct {
	Quantity int `json:"quantity"`
}

// For returns the engine options for mode. Light mode uses more, paler
// particles so they read against the light background.
func For(mode theme.Mode) Options {
	dark := mode == theme.Dark

	o := Options{
		FPSLimit:     90,
		Background:   Background{Color: Value[string]{Value: "transparent"}},
		DetectRetina: true,
		Particles: Particles{
			Number: Number{Value: 130, Density: Density{Enable: true, Area: 800}},
			Color:  Value[[]string]{Value: []string{"#ffffff", "#f8fafc", "#f1f5f9", "#e0f2fe", "#dbeafe"}},
			Shape:  Shape{Type: "circle"},
			Opacity: Opacity{
				Value:     0.7,
				Random:    true,
				Animation: Animation{Enable: true, Speed: 1.5, MinimumValue: 0.35},
			},
			Size: Value[Range]{Value: Range{Min: 1.5, Max: 7}},
			Move: Move{Enable: true, Speed: 1.5, Direction: "none", Random: true, OutModes: "out"},
			Links: Links{Enable: true, Distance: 180, Color: "#f1f5f9", Opacity: 0.4, Width: 1},
		},
		Interactivity: Interactivity{
			Events: Events{
				OnHover: Toggle{Enable: true, Mode: "grab"},
				OnClick: Toggle{Enable: true, Mode: "push"},
				Resize:  true,
			},
			Modes: Modes{
				Grab: Grab{Distance: 200, Links: Value[float64]{Value: 0.7}},
				Push: Push{Quantity: 4},
			},
		},
	}

	if dark {
		o.Particles.Number.Value = 80
		o.Particles.Color.Value = []string{"#e2e8f0", "#c9d1d9", "#a5d6ff", "#ffffff"}
		o.Particles.Opacity.Value = 0.6
		o.Particles.Move.Speed = 1.8
		o.Particles.Links.Color = "#a5d6ff"
		o.Particles.Links.Opacity = 0.5
	}
	return o
}

// JSON encodes the options for mode.
func JSON(mode theme.Mode) ([]byte, error) {
	return json.Marshal(For(mode))
}
