package models

// Team is a competing unit supplied by the roster provider. The bracket
// engine references team IDs and display attributes but never mutates them.
type Team struct {
	ID      int     `json:"id" db:"id"`
	Name    string  `json:"name" db:"name"`
	Color   *string `json:"color,omitempty" db:"color"`
	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}
