package git

import "fmt"

type Section int

const (
	SectionNone Section = iota
	SectionStaged
	SectionUnstaged
	SectionUntracked
)

func (s Section) Title() string {
	switch s {
	case SectionStaged:
		return "Changes to be committed:"
	case SectionUnstaged:
		return "Changed but not updated:"
	case SectionUntracked:
		return "Untracked files:"
	default:
		return ""
	}
}

// StatusEntry is one path reported by the working tree queries.
type StatusEntry struct {
	Section Section
	Status  byte
	OldMode string
	NewMode string
	OldID   string
	NewID   string
	OldPath string
	NewPath string
}

func (e *StatusEntry) Path() string {
	if e.NewPath != "" {
		return e.NewPath
	}
	return e.OldPath
}

func (e *StatusEntry) Renamed() bool {
	return e.Status == 'R' || e.Status == 'C'
}

// UpdateRecord is the NUL terminated line written to update-index to move
// the entry to the other side of the index.
func (e *StatusEntry) UpdateRecord() []byte {
	switch e.Section {
	case SectionStaged:
		mode, id := e.OldMode, e.OldID
		if mode == "" {
			mode = "000000"
		}
		if id == "" {
			id = NullID
		}
		path := e.OldPath
		if path == "" {
			path = e.NewPath
		}
		record := fmt.Sprintf("%s %s\t%s\x00", mode, id, path)
		if e.Renamed() && e.NewPath != "" && e.NewPath != path {
			record += fmt.Sprintf("000000 %s\t%s\x00", NullID, e.NewPath)
		}
		return []byte(record)
	default:
		return []byte(e.Path() + "\x00")
	}
}

// UpdateCommand names the update-index invocation that accepts the entry's
// UpdateRecord.
func (e *StatusEntry) UpdateCommand() string {
	if e.Section == SectionStaged {
		return CmdUpdateIndexInfo
	}
	return CmdUpdateIndexAdd
}
