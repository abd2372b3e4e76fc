package application

import (
	"fmt"

	"github.com/oksasatya/blog-engagement/internal/domain/apperror"
)

// Typed failures returned by the services. Callers match with errors.Is and
// the HTTP layer maps apperror.KindOf to a status code.
var (
	ErrUserNotFound = apperror.New(apperror.NotFound, "user not found")
	ErrPostNotFound = apperror.New(apperror.NotFound, "post not found")

	ErrClapOwnPost    = apperror.New(apperror.Forbidden, "authors cannot clap their own post")
	ErrAlreadyClapped = apperror.New(apperror.Conflict, "you have already clapped this post")

	ErrFollowSelf       = apperror.New(apperror.BadRequest, "you cannot follow yourself")
	ErrUnfollowSelf     = apperror.New(apperror.BadRequest, "you cannot unfollow yourself")
	ErrAlreadyFollowing = apperror.New(apperror.Conflict, "you are already following this user")
	ErrNotFollowing     = apperror.New(apperror.Conflict, "you are not following this user")
	ErrBlockSelf        = apperror.New(apperror.BadRequest, "you cannot block yourself")
	ErrUnblockSelf      = apperror.New(apperror.BadRequest, "you cannot unblock yourself")
	ErrAlreadyBlocked   = apperror.New(apperror.Conflict, "you have already blocked this user")
	ErrNotBlocked       = apperror.New(apperror.Conflict, "this user is not blocked")
	ErrViewSelf         = apperror.New(apperror.BadRequest, "you cannot view your own profile")
	ErrAlreadyViewed    = apperror.New(apperror.Conflict, "you have already viewed this profile")

	ErrNotAuthor        = apperror.New(apperror.Forbidden, "only the author can do this")
	ErrScheduleNotAhead = apperror.New(apperror.BadRequest, "schedule date must be in the future")
	ErrAlreadyScheduled = apperror.New(apperror.Conflict, "post is already scheduled")
	ErrEmptyPost        = apperror.New(apperror.BadRequest, "title and body are required")

	ErrMalformedToken  = apperror.New(apperror.BadRequest, "malformed token")
	ErrTokenInvalid    = apperror.New(apperror.InvalidOrExpired, "token is invalid or has expired")
	ErrDeliveryFailed  = apperror.New(apperror.Internal, "could not send email, try again later")

	ErrInvalidCredentials = apperror.New(apperror.Unauthenticated, "invalid credentials")
	ErrUnauthenticated    = apperror.New(apperror.Unauthenticated, "authentication required")
	ErrNotVerified        = apperror.New(apperror.Unauthorized, "verify your account first")
	ErrForbiddenRole      = apperror.New(apperror.Unauthorized, "you are not allowed to do this")
	ErrAccountTaken       = apperror.New(apperror.Conflict, "email or username already in use")

	ErrHalfAppliedEdge = apperror.New(apperror.Internal, "relationship update was interrupted, try again later")
)

// storeErr wraps an unexpected repository failure as Internal, keeping the
// cause for logs.
func storeErr(op string, err error) error {
	return apperror.Wrap(apperror.Internal, "internal server error", fmt.Errorf("%s: %w", op, err))
}
