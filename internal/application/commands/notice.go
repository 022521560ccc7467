package commands

import "fmt"

// NoSyncConflictsNotice is reported when a scan finds nothing to remove
const NoSyncConflictsNotice = "No sync conflict files found"

// NoLinkedFilesNotice is reported when no root-level file links to note
func NoLinkedFilesNotice(note string) string {
	return fmt.Sprintf("No files linking to %s found", note)
}

// RemoveSyncConflictsFailure formats a failed removal for the user
func RemoveSyncConflictsFailure(err error) string {
	return fmt.Sprintf("Error removing sync conflict files: %v", err)
}

// MoveLinkedFilesFailure formats a failed relocation for the user
func MoveLinkedFilesFailure(err error) string {
	return fmt.Sprintf("Error moving linked files: %v", err)
}
