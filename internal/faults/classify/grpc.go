package classify

import (
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vietddude/faultline/internal/core/domain"
	"github.com/vietddude/faultline/internal/faults/normalize"
)

// Error classifies a Go error. Errors carrying a gRPC status are mapped by
// code before falling back to the token heuristics, since the code is more
// reliable than message scraping.
func Error(err error) domain.ErrorKind {
	if err == nil {
		return domain.KindUnknown
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.OK {
		if kind, mapped := fromCode(st.Code()); mapped {
			return kind
		}
	}

	return Signal(normalize.Signal(err, normalize.Hints{}))
}

func fromCode(code codes.Code) (domain.ErrorKind, bool) {
	switch code {
	case codes.Unavailable, codes.DeadlineExceeded:
		return domain.KindNetwork, true
	case codes.Unauthenticated:
		return domain.KindAuthentication, true
	case codes.PermissionDenied:
		return domain.KindPermission, true
	case codes.ResourceExhausted:
		return domain.KindRateLimit, true
	case codes.Internal, codes.DataLoss, codes.Aborted:
		return domain.KindServer, true
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return domain.KindValidation, true
	case codes.NotFound, codes.AlreadyExists, codes.Canceled:
		return domain.KindClient, true
	default:
		return domain.KindUnknown, false
	}
}

// RetryAfter extracts a server-provided retry delay from a gRPC status
// (RetryInfo detail), typically attached to ResourceExhausted responses.
// The RateLimit recovery plan uses it for its wait-and-retry action.
func RetryAfter(err error) (time.Duration, bool) {
	st, ok := status.FromError(err)
	if !ok {
		return 0, false
	}
	for _, detail := range st.Details() {
		if info, ok := detail.(*errdetails.RetryInfo); ok && info.GetRetryDelay() != nil {
			return info.GetRetryDelay().AsDuration(), true
		}
	}
	return 0, false
}
