package parastage

// Sequence is the minimal lazy, single-producer, pull-based source this
// package operates on. Attaching stages never requires more than this
// interface; adapting a richer host sequence type onto it is left to
// the caller.
//
// Next returns the next item in order. ok is false once the sequence is
// exhausted; every subsequent call must continue returning ok == false.
// err is non-nil only when the producer itself faulted (e.g. panicked)
// while producing an item; a Sequence implementation that can panic
// should instead recover and return the panic as err, matching this
// package's own fault-as-error convention.
type Sequence[T any] interface {
	Next() (item T, ok bool, err error)
}

// SequenceFunc adapts a plain pull function into a Sequence.
type SequenceFunc[T any] func() (T, bool, error)

// Next implements Sequence.
func (f SequenceFunc[T]) Next() (T, bool, error) { return f() }

// FromSlice returns a Sequence that yields each element of items in
// order, then signals end-of-stream.
func FromSlice[T any](items []T) Sequence[T] {
	i := 0
	return SequenceFunc[T](func() (T, bool, error) {
		if i >= len(items) {
			var zero T
			return zero, false, nil
		}
		v := items[i]
		i++
		return v, true, nil
	})
}

// FromFunc wraps a generator function that returns io.EOF-like exhaustion
// via its own ok flag. gen must itself be safe to call repeatedly after
// returning ok == false (it should keep returning ok == false).
func FromFunc[T any](gen func() (T, bool, error)) Sequence[T] {
	return SequenceFunc[T](gen)
}

// Collect drains seq fully, returning every yielded item in order and the
// first fault observed, if any. It does not close any stage; callers
// attaching stages should Close explicitly (or use Drain).
func Collect[T any](seq Sequence[T]) ([]T, error) {
	var out []T
	for {
		item, ok, err := seq.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, item)
	}
}

// closer is implemented by stage handles that own background goroutines.
type closer interface {
	Close() error
}

// Drain collects seq fully and, if seq also implements an io.Closer-like
// Close() error method (every stage handle in this package does), closes
// it afterward, returning the first non-nil error encountered by either.
func Drain[T any](seq Sequence[T]) ([]T, error) {
	out, err := Collect(seq)
	if c, ok := seq.(closer); ok {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return out, err
}
