package state

import "path/filepath"

type Paths struct {
	DB      string
	Store   string // snapshot file, pebble dir or sqlite file live here
	State   string
	Backups string
	Logs    string
	Media   string // cropped profile photos
	Tmp     string
}

func PathsFor(dbPath string) Paths {
	statePath := filepath.Join(dbPath, "state")
	return Paths{
		DB:    dbPath,
		Store: filepath.Join(dbPath, "store"),
		Media: filepath.Join(dbPath, "media"),

		State:   statePath,
		Backups: filepath.Join(statePath, "backups"),
		Logs:    filepath.Join(statePath, "logs"),
		Tmp:     filepath.Join(statePath, "tmp"),
	}
}

func StorePath(dbPath string) string   { return PathsFor(dbPath).Store }
func BackupsPath(dbPath string) string { return PathsFor(dbPath).Backups }
func MediaPath(dbPath string) string   { return PathsFor(dbPath).Media }
