package appstate

// StateError is a custom error type for state container errors
type StateError string

// Error implements the error interface
func (e StateError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrReauthRequired    StateError = "recent sign-in required"
	ErrNoPendingJournal  StateError = "no completed session waiting for a journal entry"
	ErrInvalidDailyGoal  StateError = "daily goal cannot be negative"
	ErrSaverClosed       StateError = "saver is closed"
	ErrRegistryClosed    StateError = "registry is closed"
	ErrNilConfig         StateError = "config cannot be nil"
	ErrEmptyUserID       StateError = "user ID cannot be empty"
	ErrNilStatsRepo      StateError = "stats repository cannot be nil"
	ErrNilChallengeRepo  StateError = "challenge repository cannot be nil"
	ErrNilJournalRepo    StateError = "journal repository cannot be nil"
	ErrNilPublicStore    StateError = "public challenge store cannot be nil"
	ErrNilLeaderboard    StateError = "leaderboard repository cannot be nil"
	ErrNilEntitlements   StateError = "entitlement checker cannot be nil"
	ErrNilAccountDeleter StateError = "account deleter cannot be nil"
	ErrNilClock          StateError = "clock cannot be nil"
	ErrNilUUIDGenerator  StateError = "UUID generator cannot be nil"
	ErrNilSaver          StateError = "saver cannot be nil"
)
