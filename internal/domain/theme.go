package domain

import (
	"context"
	"time"
)

// Theme-related domain errors.
var (
	ErrThemeNotFound       = &Error{Code: ENOTFOUND, Message: "Theme not found"}
	ErrActiveThemeNotFound = &Error{Code: ENOTFOUND, Message: "Store has no active theme"}
)

// Theme is a storefront theme document. Name is the per-store theme key:
// upserting an existing name overwrites the document in place. At most one
// theme per store may be active at any time.
type Theme struct {
	ID        string      `json:"id"`
	StoreID   int64       `json:"store_id"`
	Name      string      `json:"name"`
	Img       string      `json:"img"`
	LocalPath string      `json:"local_path"`
	IsActive  bool        `json:"is_active"`
	Pages     []ThemePage `json:"pages"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ThemePage is one page of a theme layout.
type ThemePage struct {
	Name     string         `json:"name" bson:"name"`
	Sections []string       `json:"sections" bson:"sections"`
	Body     []ThemeSection `json:"body" bson:"body"`
}

// ThemeSection is one block inside a theme page.
type ThemeSection struct {
	Type string         `json:"type" bson:"type"`
	Name string         `json:"name" bson:"name"`
	Data []ThemeContent `json:"data" bson:"data"`
}

// ThemeContent is the displayable content of a theme section.
type ThemeContent struct {
	Title    string `json:"title" bson:"title"`
	Subtitle string `json:"subtitle" bson:"subtitle"`
	ImageURL string `json:"image_url" bson:"image_url"`
}

// UpsertThemeParams contains parameters for creating or overwriting a theme.
type UpsertThemeParams struct {
	StoreID    int64
	Name       string
	Img        string
	LocalPath  string
	Pages      []ThemePage
	MakeActive bool
}

// ThemeRepository provides access to theme documents.
type ThemeRepository interface {
	// UpsertTheme writes the theme keyed by (StoreID, Name), overwriting an
	// existing document in place. When MakeActive is set, the write and the
	// deactivation of every other theme of the store happen atomically;
	// no reader may observe two active themes.
	UpsertTheme(ctx context.Context, params UpsertThemeParams) (*Theme, error)

	ListThemesByStore(ctx context.Context, storeID int64) ([]Theme, error)

	// ActiveThemeByStore returns ErrActiveThemeNotFound when the store has
	// no active theme.
	ActiveThemeByStore(ctx context.Context, storeID int64) (*Theme, error)

	// DeleteTheme removes a single theme document by id.
	DeleteTheme(ctx context.Context, id string) error

	// DeleteThemesByStore removes every theme of a store. Called when the
	// store itself is deleted.
	DeleteThemesByStore(ctx context.Context, storeID int64) error
}
