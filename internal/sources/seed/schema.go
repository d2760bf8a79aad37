package seed

// File is the top-level structure of a seed catalog file.
type File struct {
	Events []EventProps `yaml:"events"`
}

// EventProps mirrors one entry of the seed file. Coordinates are
// [longitude, latitude].
type EventProps struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Kind        string    `yaml:"kind"`
	Description string    `yaml:"description"`
	Coordinates []float64 `yaml:"coordinates"`
	Location    string    `yaml:"location,omitempty"`
	Schedule    string    `yaml:"schedule,omitempty"`
	Time        string    `yaml:"time,omitempty"`
	Attendees   *int      `yaml:"attendees,omitempty"`
	Categories  []string  `yaml:"categories,omitempty"`
	Price       string    `yaml:"price,omitempty"`
	Source      string    `yaml:"source,omitempty"`
}
