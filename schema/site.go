package schema

// Project is one entry of projects.json.
type Project struct {
	Title       string `json:"title"`
	Year        string `json:"year"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

// YearCount is the number of projects in one year.
type YearCount struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// PieSlice is one wedge of the projects pie.
type PieSlice struct {
	Label      string  `json:"label"`
	Value      int     `json:"value"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
	Color      string  `json:"color"`
	Legend     string  `json:"legend"`
}

// NavPage is a configured navigation entry.
type NavPage struct {
	URL   string `json:"url" mapstructure:"url"`
	Title string `json:"title" mapstructure:"title"`
}

// NavLink is a navigation entry resolved for one request.
type NavLink struct {
	Title    string `json:"title"`
	Href     string `json:"href"`
	Current  bool   `json:"current"`
	External bool   `json:"external"`
	Target   string `json:"target,omitempty"`
	Rel      string `json:"rel,omitempty"`
}
