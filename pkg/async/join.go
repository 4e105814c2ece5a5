package async

import (
	"errors"
	"sync"
)

// Join tracks a live count of outstanding operations and settles a single
// future once the join has been sealed and every operation has reported.
// Failures are accumulated, never short-circuited.
//
//	j := async.NewJoin()
//	j.Add(2)
//	go func() { j.Done(nil) }()
//	go func() { j.Done(errors.New("boom")) }()
//	j.Seal()
//	err := j.Wait() // "boom"
type Join struct {
	mu      sync.Mutex
	pending int
	sealed  bool
	errs    []error
	future  *Future[struct{}]
	resolve Resolver[struct{}]
}

// NewJoin creates an empty, unsealed join.
func NewJoin() *Join {
	f, resolve := NewPromise[struct{}]()
	return &Join{future: f, resolve: resolve}
}

// Add registers n more outstanding operations.
// Adding to a sealed join that has already settled returns ErrJoinSettled.
func (j *Join) Add(n int) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.future.IsComplete() {
		return ErrJoinSettled
	}
	j.pending += n
	return nil
}

// Done reports completion of one operation. A non-nil err is recorded.
func (j *Join) Done(err error) {
	j.mu.Lock()
	if err != nil {
		j.errs = append(j.errs, err)
	}
	if j.pending > 0 {
		j.pending--
	}
	j.settleLocked()
	j.mu.Unlock()
}

// Fail records err without changing the outstanding count.
func (j *Join) Fail(err error) {
	if err == nil {
		return
	}
	j.mu.Lock()
	j.errs = append(j.errs, err)
	j.mu.Unlock()
}

// Seal marks that no more operations will be added. The join settles as soon
// as the outstanding count is zero.
func (j *Join) Seal() {
	j.mu.Lock()
	j.sealed = true
	j.settleLocked()
	j.mu.Unlock()
}

// Pending returns the number of operations still outstanding.
func (j *Join) Pending() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.pending
}

// Future returns the future settled when the join completes. Its error is the
// errors.Join of every recorded failure.
func (j *Join) Future() *Future[struct{}] {
	return j.future
}

// Wait blocks until the join settles.
func (j *Join) Wait() error {
	_, err := j.future.Await()
	return err
}

func (j *Join) settleLocked() {
	if !j.sealed || j.pending > 0 {
		return
	}
	j.resolve(struct{}{}, errors.Join(j.errs...))
}
