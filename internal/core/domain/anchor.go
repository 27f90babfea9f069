package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAnchorNameEmpty    = errors.New("anchor name cannot be empty")
	ErrAnchorNameTooLong  = errors.New("anchor name is too long (max 50 chars)")
	ErrAnchorInvalidColor = errors.New("invalid color format (must be #RRGGBB)")
	ErrAnchorInvalidUser  = errors.New("invalid user id")
)

var anchorColorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const (
	MaxAnchorNameLen  = 50
	DefaultAnchorIcon = "🏷️"
	DefaultAnchorHex  = "#6b7280"
)

// Anchor is a user-defined context label attachable to tasks. Anchors carry
// no semantics for the streak engine.
type Anchor struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Icon      string    `json:"icon" db:"icon"`
	Color     string    `json:"color" db:"color"`
	IsDefault bool      `json:"isDefault" db:"is_default"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// AnchorInfo is the slim shape joined onto tasks.
type AnchorInfo struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Icon  string `json:"icon" db:"icon"`
	Color string `json:"color" db:"color"`
}

// DefaultAnchors are created once for a user who has none yet.
var DefaultAnchors = []struct {
	Name  string
	Icon  string
	Color string
}{
	{Name: "Home", Icon: "🏠", Color: "#22c55e"},
	{Name: "Work", Icon: "💼", Color: "#3b82f6"},
	{Name: "Health", Icon: "🏃", Color: "#f97316"},
	{Name: "Learning", Icon: "📚", Color: "#a855f7"},
}

func validateAnchor(name, color string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrAnchorNameEmpty
	}
	if len(trimmed) > MaxAnchorNameLen {
		return ErrAnchorNameTooLong
	}
	if color != "" && !anchorColorRegex.MatchString(color) {
		return ErrAnchorInvalidColor
	}
	return nil
}

func NewAnchor(userID, name, icon, color string) (*Anchor, error) {
	if userID == "" {
		return nil, ErrAnchorInvalidUser
	}
	if err := validateAnchor(name, color); err != nil {
		return nil, err
	}

	if icon == "" {
		icon = DefaultAnchorIcon
	}
	if color == "" {
		color = DefaultAnchorHex
	}

	return &Anchor{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		Icon:      icon,
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (a *Anchor) Update(name, icon, color string) error {
	if err := validateAnchor(name, color); err != nil {
		return err
	}

	a.Name = strings.TrimSpace(name)
	if icon != "" {
		a.Icon = icon
	}
	if color != "" {
		a.Color = color
	}
	return nil
}

// Info returns the join shape embedded on tasks.
func (a *Anchor) Info() AnchorInfo {
	return AnchorInfo{ID: a.ID, Name: a.Name, Icon: a.Icon, Color: a.Color}
}
