package async

// Resolver settles a future created by NewPromise. Calls after the first are ignored
// and report false.
type Resolver[U any] func(result U, err error) bool

// NewPromise returns an unsettled future together with the function that settles it.
// It is the building block for results produced by callbacks rather than by a
// function running in its own goroutine.
func NewPromise[U any]() (*Future[U], Resolver[U]) {
	f := newFuture[U]()
	return f, f.settle
}

// Resolved returns a future that is already settled with res.
func Resolved[U any](res U) *Future[U] {
	f := newFuture[U]()
	f.settle(res, nil)
	return f
}

// Rejected returns a future that is already settled with err.
func Rejected[U any](err error) *Future[U] {
	f := newFuture[U]()
	var zero U
	f.settle(zero, err)
	return f
}
