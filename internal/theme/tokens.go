package theme

// Tokens are the styling values a view reads for one mode.
type Tokens struct {
	Mode    Mode
	Primary string
	Light   string
	Bg      string
	Surface string
	Text    string
	Muted   string
	Success string
	Danger  string
	Warning string
	Nav     string
	Card    string
	Border  string
}

var (
	lightTokens = Tokens{
		Mode:    Light,
		Primary: "#7B9ACC",
		Light:   "#A7C7E7",
		Bg:      "#F8FBFF",
		Surface: "#FFFFFF",
		Text:    "#1A365D",
		Muted:   "#798",
		Success: "#10B981",
		Danger:  "#EF4444",
		Warning: "#F59E0B",
		Nav:     "#232751",
		Card:    "#EDF2FB",
		Border:  "#E3E8F2",
	}

	darkTokens = Tokens{
		Mode:    Dark,
		Primary: "#60A5FA",
		Light:   "#1E40AF",
		Bg:      "#0F172A",
		Surface: "#1E293B",
		Text:    "#F1F5F9",
		Muted:   "#94A3B8",
		Success: "#34D399",
		Danger:  "#F87171",
		Warning: "#FBBF24",
		Nav:     "#E2E8F0",
		Card:    "#1E293B",
		Border:  "#334155",
	}
)

// TokensFor returns the palette for m.
func TokensFor(m Mode) Tokens {
	if m == Dark {
		return darkTokens
	}
	return lightTokens
}

// Styled is implemented by views that restyle on a mode change.
type Styled interface {
	Restyle(Tokens)
}

// Bind subscribes v to s and applies the current tokens immediately.
func Bind(s *Store, v Styled) (unsubscribe func()) {
	v.Restyle(TokensFor(s.Get()))
	return s.Subscribe(func(m Mode) { v.Restyle(TokensFor(m)) })
}
