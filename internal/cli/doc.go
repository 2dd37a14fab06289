// Package cli implements the interactive memberkit shell: registration,
// login, the member dashboard (profile and referral counters) and the
// premium upgrade. It is a thin presentation layer; all rules live in the
// auth, session, referral and payment packages.
package cli
