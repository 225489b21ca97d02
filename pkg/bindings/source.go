package bindings

// Source produces a fresh value each time it is sampled.
//
// Sources are supplied by the caller: hardware reads, joystick state, derived
// expressions. A cell samples its source at most once per tick.
type Source[T any] interface {
	Sample() (T, error)
}

// SourceFunc adapts a fallible function to a Source.
type SourceFunc[T any] func() (T, error)

// Sample calls f.
func (f SourceFunc[T]) Sample() (T, error) {
	return f()
}

// Func adapts a function that cannot fail to a Source.
func Func[T any](f func() T) Source[T] {
	return SourceFunc[T](func() (T, error) {
		return f(), nil
	})
}

// Constant returns a Source that always yields v.
func Constant[T any](v T) Source[T] {
	return SourceFunc[T](func() (T, error) {
		return v, nil
	})
}

// Number is the set of numeric types a Range can be built from.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Float converts a numeric Source to a float64 Source.
func Float[N Number](src Source[N]) Source[float64] {
	return SourceFunc[float64](func() (float64, error) {
		v, err := src.Sample()
		if err != nil {
			return 0, err
		}
		return float64(v), nil
	})
}
