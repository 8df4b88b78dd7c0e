package models

import (
	"encoding/json"
	"strings"
	"time"
)

type Language struct {
	ID          int64     `db:"id" json:"id"`
	Key         string    `db:"key" json:"key"`
	Value       string    `db:"value" json:"value"`
	Description *string   `db:"description" json:"description"`
	Order       int       `db:"sort_order" json:"order"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Level struct {
	ID         int64     `db:"id" json:"id"`
	LanguageID int64     `db:"language_id" json:"language_id"`
	Title      string    `db:"title" json:"title"`
	Order      int       `db:"sort_order" json:"order"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type Chapter struct {
	ID        int64     `db:"id" json:"id"`
	LevelID   int64     `db:"level_id" json:"level_id"`
	Title     string    `db:"title" json:"title"`
	Order     int       `db:"sort_order" json:"order"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Translations holds the localized forms of a word's translation. En is the
// canonical value; Ru and Uz may be absent.
type Translations struct {
	En string  `json:"en"`
	Ru *string `json:"ru"`
	Uz *string `json:"uz"`
}

type Word struct {
	ID           int64        `db:"id" json:"id"`
	ChapterID    int64        `db:"chapter_id" json:"chapter_id"`
	Korean       string       `db:"korean" json:"korean"`
	Translation  string       `db:"translation" json:"translation"`
	Translations Translations `db:"-" json:"translations"`
	Order        int          `db:"sort_order" json:"order"`
	Audio        *string      `db:"audio" json:"audio"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

// Normalize rewrites the raw translation column into the flat English value
// plus the full Translations struct. The column may hold a plain string or a
// JSON object like {"en":"...","ru":"...","uz":"..."} from older imports.
func (w *Word) Normalize() {
	w.Translations = ParseTranslation(w.Translation)
	w.Translation = w.Translations.En
}

// ParseTranslation decodes a stored translation value. A JSON object yields
// its per-locale fields; anything else is treated as a plain English string.
func ParseTranslation(raw string) Translations {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		var t Translations
		if err := json.Unmarshal([]byte(trimmed), &t); err == nil {
			return t
		}
	}
	return Translations{En: raw}
}

// EncodeTranslation renders a Translations value back into its storage form.
// Values with only an English form are stored as a plain string.
func EncodeTranslation(t Translations) string {
	if t.Ru == nil && t.Uz == nil {
		return t.En
	}
	b, err := json.Marshal(t)
	if err != nil {
		return t.En
	}
	return string(b)
}

// The Catalog* types form the nested tree returned by the catalog endpoint,
// languages down to words, each layer ordered.

type CatalogChapter struct {
	Chapter
	Words []Word `json:"words"`
}

type CatalogLevel struct {
	Level
	Chapters []CatalogChapter `json:"chapters"`
}

type CatalogLanguage struct {
	Language
	Levels []CatalogLevel `json:"levels"`
}

// ImportResult reports the outcome of a bulk vocabulary import.
type ImportResult struct {
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}
