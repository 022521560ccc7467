package ports

// ObsidianOpener defines the interface for opening notes in Obsidian
type ObsidianOpener interface {
	// OpenNote opens the note at the vault-relative path using the obsidian:// URI scheme
	OpenNote(path string) error
}
