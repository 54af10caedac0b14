package logger

import (
	"strconv"
	"strings"
)

// Status is the error value returned by every fallible operation.
// It carries an http-like status code so a caller can tell user
// configuration mistakes (400) from internal failures (500).
type Status struct {
	Status  int
	Message string
	Err     error
	Trace   string
	Request string
}

func (s *Status) Error() string {
	return s.String()
}

func (s *Status) Unwrap() error {
	return s.Err
}

func (s *Status) String() string {
	if s == nil {
		return ``
	}
	var result []string
	result = append(result, `Status: `+strconv.Itoa(s.Status))
	if s.Request != `` {
		result = append(result, `Request: `+s.Request)
	}
	if s.Message != `` {
		result = append(result, `Message: `+s.Message)
	}
	if s.Err != nil {
		result = append(result, `Error: `+s.Err.Error())
	}
	if s.Trace != `` {
		result = append(result, `Trace: `+s.Trace)
	}
	return strings.Join(result, "\n")
}
