package broker

// NATS subjects for note and report lifecycle events.
const (
	NoteCreatedSubject   = "notes.created"
	NoteUpdatedSubject   = "notes.updated"
	NoteDeletedSubject   = "notes.deleted"
	NoteRestoredSubject  = "notes.restored"
	ReportCreatedSubject = "reports.created"
	ReportClosedSubject  = "reports.closed"
)
