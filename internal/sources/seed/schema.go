package seed

// File is the top-level structure of a seed file.
type File struct {
	Technologies []Entry `yaml:"technologies"`
}

// Entry is one starter technology.
type Entry struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category,omitempty"`
	Difficulty  string   `yaml:"difficulty,omitempty"`
	Status      string   `yaml:"status,omitempty"`
	Notes       string   `yaml:"notes,omitempty"`
	Resources   []string `yaml:"resources,omitempty"`
	Deadline    string   `yaml:"deadline,omitempty"`
}
