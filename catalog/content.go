package catalog

import "encoding/json"

// Kind identifies which catalog list a content item belongs to.
type Kind string

const (
	KindShow  Kind = "shows"
	KindMovie Kind = "movies"
)

// Show is a TV show record from the StreamVault API. Optional fields that
// the API may omit are filled with display defaults at decode time, so
// formatting code never has to guard against missing values.
type Show struct {
	ID           string
	Title        string
	Year         *int
	Slug         string
	Description  string
	IMDBRating   string
	Genres       string
	Language     string
	PosterURL    string
	Cast         string
	TotalSeasons int
}

// Movie is a movie record from the StreamVault API.
type Movie struct {
	ID          string
	Title       string
	Year        *int
	Slug        string
	Description string
	IMDBRating  string
	Genres      string
	Language    string
	PosterURL   string
	Cast        string
	Duration    *int
	Directors   string
}

const (
	defaultTitle       = "Unknown Title"
	defaultDescription = "No description available."
	defaultNA          = "N/A"
)

// flexString accepts a JSON string or number and keeps its textual form.
// The API serves ids and imdbRating inconsistently across records.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (s *Show) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           flexString `json:"id"`
		Title        string     `json:"title"`
		Year         *int       `json:"year"`
		ReleaseYear  *int       `json:"releaseYear"`
		Slug         string     `json:"slug"`
		Description  string     `json:"description"`
		IMDBRating   flexString `json:"imdbRating"`
		Genres       string     `json:"genres"`
		Language     string     `json:"language"`
		PosterURL    string     `json:"posterUrl"`
		Cast         string     `json:"cast"`
		TotalSeasons int        `json:"totalSeasons"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.ID = string(raw.ID)
	s.Title = orDefault(raw.Title, defaultTitle)
	s.Year = raw.Year
	if s.Year == nil {
		s.Year = raw.ReleaseYear
	}
	s.Slug = raw.Slug
	s.Description = orDefault(raw.Description, defaultDescription)
	s.IMDBRating = orDefault(string(raw.IMDBRating), defaultNA)
	s.Genres = orDefault(raw.Genres, defaultNA)
	s.Language = orDefault(raw.Language, defaultNA)
	s.PosterURL = raw.PosterURL
	s.Cast = raw.Cast
	if raw.TotalSeasons > 0 {
		s.TotalSeasons = raw.TotalSeasons
	}
	return nil
}

func (m *Movie) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          flexString `json:"id"`
		Title       string     `json:"title"`
		Year        *int       `json:"year"`
		Slug        string     `json:"slug"`
		Description string     `json:"description"`
		IMDBRating  flexString `json:"imdbRating"`
		Genres      string     `json:"genres"`
		Language    string     `json:"language"`
		PosterURL   string     `json:"posterUrl"`
		Cast        string     `json:"cast"`
		Duration    *int       `json:"duration"`
		Directors   string     `json:"directors"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.ID = string(raw.ID)
	m.Title = orDefault(raw.Title, defaultTitle)
	m.Year = raw.Year
	m.Slug = raw.Slug
	m.Description = orDefault(raw.Description, defaultDescription)
	m.IMDBRating = orDefault(string(raw.IMDBRating), defaultNA)
	m.Genres = orDefault(raw.Genres, defaultNA)
	m.Language = orDefault(raw.Language, defaultNA)
	m.PosterURL = raw.PosterURL
	m.Cast = raw.Cast
	m.Duration = raw.Duration
	m.Directors = raw.Directors
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
