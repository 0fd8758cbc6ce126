package cookiecache

// FailureReason defines a public type used by cookiecache APIs.
//
// FailureReason instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type FailureReason uint8

const (
	// ReasonNone is an exported constant or variable used by the session engine.
	ReasonNone FailureReason = iota
	// ReasonMissingCredentials is an exported constant or variable used by the session engine.
	ReasonMissingCredentials
	// ReasonUnknownIdentity is an exported constant or variable used by the session engine.
	ReasonUnknownIdentity
	// ReasonWrongCredential is an exported constant or variable used by the session engine.
	ReasonWrongCredential
	// ReasonSessionExpired is an exported constant or variable used by the session engine.
	ReasonSessionExpired
)

// reasonCodes carries the stable wire codes used as redirect query
// annotations. Codes are presentational contract: changing one breaks login
// pages that switch on it.
var reasonCodes = map[FailureReason]string{
	ReasonMissingCredentials: "missing-credentials",
	ReasonUnknownIdentity:    "unknown-identity",
	ReasonWrongCredential:    "wrong-credential",
	ReasonSessionExpired:     "session-expired",
}

var reasonMessages = map[FailureReason]string{
	ReasonMissingCredentials: "Please fill in both the username and the password.",
	ReasonUnknownIdentity:    "We don't know that username.",
	ReasonWrongCredential:    "That password is not correct.",
	ReasonSessionExpired:     "Your session has expired, please sign in again.",
}

// Code returns the stable wire code for the reason, or "" for ReasonNone and
// unknown values.
func (r FailureReason) Code() string {
	return reasonCodes[r]
}

// ReasonFromCode resolves a wire code back to its [FailureReason].
func ReasonFromCode(code string) (FailureReason, bool) {
	for reason, c := range reasonCodes {
		if c == code {
			return reason, true
		}
	}
	return ReasonNone, false
}

// ReasonMessage returns the human-readable message for a reason. It is purely
// presentational and consumed by the embedding application's login page.
func ReasonMessage(r FailureReason) string {
	return reasonMessages[r]
}
