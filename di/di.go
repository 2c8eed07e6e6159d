package di

import (
	"fmt"
)

// Resolve resolves the singleton bound to abstraction T.
func Resolve[T any](c *Container) (T, error) {
	var zero T
	typ := TypeOf[T]()

	val, err := c.Resolve(typ)
	if err != nil {
		return zero, err
	}

	if v, ok := val.(T); ok {
		return v, nil
	}

	return zero, fmt.Errorf("di: resolved value is %T, expected %v", val, typ)
}

// MustResolve is like Resolve but panics on error.
// Intended for bootstrap code where a wiring mistake is fatal anyway.
func MustResolve[T any](c *Container) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return v
}
