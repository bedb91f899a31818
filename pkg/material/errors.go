package material

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is matched by every ParameterError
var ErrInvalidParameter = errors.New("invalid material parameter")

// ParameterError reports a material constructed with an out-of-range parameter
type ParameterError struct {
	Material  string
	Parameter string
	Value     float64
	Reason    string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s=%g %s", e.Material, e.Parameter, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidParameter) succeed
func (e *ParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}
