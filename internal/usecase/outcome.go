package usecase

// SyncOutcome says what a sync call did to the canonical store.
type SyncOutcome string

const (
	// OutcomeCreated means a new canonical entity was inserted.
	OutcomeCreated SyncOutcome = "created"
	// OutcomeMerged means an existing entity gained an external id or had
	// missing fields filled.
	OutcomeMerged SyncOutcome = "merged"
	// OutcomeUnchanged means the entity was already known and nothing new
	// was learned.
	OutcomeUnchanged SyncOutcome = "unchanged"
	// OutcomeConflict means the record was skipped because its external id
	// is bound to a different entity than the one matched.
	OutcomeConflict SyncOutcome = "conflict"
)
