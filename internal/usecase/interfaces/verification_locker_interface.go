package interfaces

import (
	"context"
	"errors"
)

//go:generate mockgen -source=verification_locker_interface.go -destination=mocks/verification_locker_interface_mock.go -package=mock_interfaces

var ErrLockHeld = errors.New("lock already held")

// IVerificationLocker serializes verification of a single reference.
//
// Acquire never waits: it either returns a release func or ErrLockHeld.
type IVerificationLocker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
