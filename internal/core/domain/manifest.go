package domain

// Manifest declares the definition files of a mod.
// Rules, Weapons and Sequences hold logical file ids relative to Root.
type Manifest struct {
	ID        string
	Root      string
	Packages  []string
	Rules     []string
	Weapons   []string
	Sequences []string
}

// Files returns every declared logical file id, rules first, then weapons, then sequences.
func (m Manifest) Files() []string {
	files := make([]string, 0, len(m.Rules)+len(m.Weapons)+len(m.Sequences))
	files = append(files, m.Rules...)
	files = append(files, m.Weapons...)
	files = append(files, m.Sequences...)
	return files
}

// WatchedFile links a logical file id to the absolute path that is observed on disk.
type WatchedFile struct {
	LogicalID    string
	AbsolutePath string
}
