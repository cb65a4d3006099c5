// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the authentication flow.
type Recorder interface {
	IncRegistration()
	IncLoginSuccess()
	IncLoginFailure()
	IncTokenIssued()
	IncTokenRevoked()
	IncValidationFailure(kind string) // kind: "revoked", "malformed", "missing_claims", "wrong_class"
}
