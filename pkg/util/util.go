package util

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// error

type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

func (e *Error) Code() error {
	return e.code
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

// CodeOf returns the sentinel code of err, or ErrInternalServerError when err
// does not carry one.
func CodeOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return ErrInternalServerError
}

var (
	ErrInternalServerError = errors.New("internal Server Error")
	ErrNotFound            = errors.New("your requested Item is not found")
	ErrBadParamInput       = errors.New("given Param is not valid")

	ErrAddressResolution = errors.New("address could not be resolved")
	ErrRouteSource       = errors.New("route source request failed")
	ErrGraphBuild        = errors.New("route graph could not be built")
	ErrPathNotFound      = errors.New("no feasible path found")
	ErrAlgorithmTimeout  = errors.New("algorithm budget exhausted")
)

func DegreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

func RadiansToDegree(rad float64) float64 {
	return 180.0 * rad / math.Pi
}

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func StringToFloat64(str string) (float64, error) {
	return strconv.ParseFloat(str, 64)
}

// NormalizeAddress canonicalizes a free-form address for use as a cache key.
func NormalizeAddress(addr string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(addr))), " ")
}

func ReverseG[T any](arr []T) []T {
	copyArr := make([]T, len(arr))
	copy(copyArr, arr)
	for i, j := 0, len(copyArr)-1; i < j; i, j = i+1, j-1 {
		copyArr[i], copyArr[j] = copyArr[j], copyArr[i]
	}
	return copyArr
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
