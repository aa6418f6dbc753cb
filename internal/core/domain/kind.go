package domain

// ErrorKind is the closed classification of a fault. A message can carry
// tokens for several kinds at once; the classifier resolves that with a
// fixed precedence order, so the values here carry no ordering themselves.
type ErrorKind string

const (
	KindNetwork        ErrorKind = "network"
	KindAuthentication ErrorKind = "authentication"
	KindPermission     ErrorKind = "permission"
	KindRateLimit      ErrorKind = "rate_limit"
	KindServer         ErrorKind = "server"
	KindValidation     ErrorKind = "validation"
	KindClient         ErrorKind = "client"
	KindUnknown        ErrorKind = "unknown"
)

// Kinds lists every ErrorKind in classifier precedence order.
func Kinds() []ErrorKind {
	return []ErrorKind{
		KindNetwork,
		KindAuthentication,
		KindPermission,
		KindRateLimit,
		KindServer,
		KindValidation,
		KindClient,
		KindUnknown,
	}
}

func (k ErrorKind) String() string {
	return string(k)
}
