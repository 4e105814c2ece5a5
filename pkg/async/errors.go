package async

import "errors"

var ErrJoinSettled = errors.New("async: join already settled")

// Rejection is an error whose text is meant to be shown to a user, for example
// the message returned by a server-side check that refused a value.
type Rejection string

func (r Rejection) Error() string {
	return string(r)
}

// RejectionMessage reports the message carried by a Rejection anywhere in err's chain.
func RejectionMessage(err error) (string, bool) {
	var r Rejection
	if errors.As(err, &r) {
		return string(r), true
	}
	return "", false
}
