package blaze

import "fmt"

// ServerError is the wire error code placed in a packet's error field
// (spec.md §7). It implements `error` so handlers can return it directly.
type ServerError uint16

const (
	ErrServerUnavailable        ServerError = 0x0
	ErrEmailNotFound            ServerError = 0xB
	ErrWrongPassword            ServerError = 0xC
	ErrInvalidSession           ServerError = 0xD
	ErrEmailAlreadyInUse        ServerError = 0xF
	ErrAgeRestriction           ServerError = 0x10
	ErrInvalidAccount           ServerError = 0x11
	ErrBannedAccount            ServerError = 0x13
	ErrInvalidInformation       ServerError = 0x15
	ErrInvalidEmail             ServerError = 0x16
	ErrLegalGuardianRequired    ServerError = 0x2A
	ErrCodeRequired             ServerError = 0x32
	ErrKeyCodeAlreadyInUse      ServerError = 0x33
	ErrInvalidCerberusKey       ServerError = 0x34
	ErrServerUnavailableFinal   ServerError = 0x4001
	ErrFailedNoLoginAction      ServerError = 0x4004
	ErrServerUnavailableNothing ServerError = 0x4005
	ErrConnectionLost           ServerError = 0x4007

	// ErrGameFull, ErrUnknownGame and ErrMissingHost are matchmaking/game
	// specific error codes reusing the "nothing" slot family, since the
	// reference protocol has no dedicated codes for them.
	ErrGameFull      ServerError = 0x4100
	ErrUnknownGame   ServerError = 0x4101
	ErrMissingHost   ServerError = 0x4102
)

func (e ServerError) Error() string {
	return fmt.Sprintf("blaze server error 0x%04X", uint16(e))
}

func (e ServerError) Code() uint16 { return uint16(e) }
