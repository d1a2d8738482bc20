package views

import "strconv"

// AdminStatus summarizes the content index on the dashboard.
type AdminStatus struct {
	ContentDir string
	LastSync   string // formatted, "" if never synced in this process
	Message    string
}

func (s AdminStatus) summary(nodes int) string {
	out := strconv.Itoa(nodes) + " nodes indexed from " + s.ContentDir
	if s.LastSync != "" {
		out += ", last sync " + s.LastSync
	}
	return out + "."
}
