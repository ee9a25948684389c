// Package verify runs the sample application's self-checks and reports each
// outcome, halting at the first failed check.
package verify

import (
	"errors"

	"github.com/compozy/demoutils/engine/core"
	apperrors "github.com/compozy/demoutils/pkg/errors"
)

// ErrCheckFailed is wrapped by the error Run returns for a failed check
var ErrCheckFailed = errors.New("check failed")

// Check is a single named assertion
type Check struct {
	Description string
	Run         func() bool
}

// Reporter receives the progress of a verification run
type Reporter interface {
	Start()
	Passed(description string)
	Failed(description string, err error)
	Succeeded()
}

// Run evaluates checks in order. It stops at the first check that returns
// false or panics and returns a VERIFICATION_FAILED error naming it.
func Run(checks []Check, reporter Reporter) error {
	reporter.Start()

	for i, c := range checks {
		var ok bool
		err := apperrors.WithRecover("verify:"+c.Description, func() error {
			ok = c.Run()
			return nil
		})
		if err == nil && !ok {
			err = ErrCheckFailed
		} else if err != nil {
			err = errors.Join(ErrCheckFailed, err)
		}

		if err != nil {
			verr := core.NewError(err, core.ErrorCodeVerificationFailed, map[string]any{
				"check": c.Description,
				"index": i,
			})
			reporter.Failed(c.Description, verr)
			return verr
		}
		reporter.Passed(c.Description)
	}

	reporter.Succeeded()
	return nil
}
