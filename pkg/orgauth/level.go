package orgauth

import "fmt"

// Level is the coarse authorization level derived from organization membership.
// Levels are ordered: LevelUnauthorized < LevelStandard < LevelAdmin.
type Level int

const (
	LevelUnauthorized Level = iota
	LevelStandard
	LevelAdmin
)

var levelNames = [...]string{
	LevelUnauthorized: "none",
	LevelStandard:     "standard",
	LevelAdmin:        "admin",
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= LevelUnauthorized && l <= LevelAdmin
}

// Authorized reports whether l grants any access at all.
func (l Level) Authorized() bool {
	return l.Valid() && l > LevelUnauthorized
}

// AtLeast reports whether l grants at least the access of other.
func (l Level) AtLeast(other Level) bool {
	return l.Valid() && l >= other
}

// ParseLevel converts the text form produced by String back to a Level.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return LevelUnauthorized, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, int(l))
	}
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// levelFromMembership maps organization membership to a level.
func levelFromMembership(m Membership) Level {
	switch {
	case m.Member && m.Admin:
		return LevelAdmin
	case m.Member:
		return LevelStandard
	default:
		return LevelUnauthorized
	}
}
