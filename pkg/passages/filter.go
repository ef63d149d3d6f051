package passages

import (
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/travigo/tisseo/pkg/ctdf"
	"github.com/travigo/tisseo/pkg/util"
	"golang.org/x/exp/slices"
)

const unsetFilterValue = "None"

// Filter narrows down a list of passages. Empty fields do not filter.
type Filter struct {
	Line        string
	Destination string

	// Where is an optional boolean expression over Line, Destination, Minutes and Time
	Where string
}

// FilterValue converts a raw user supplied value into a filter field, "None" meaning no filter
func FilterValue(value string) string {
	if value == unsetFilterValue {
		return ""
	}

	return value
}

type passageEnvironment struct {
	Line        string
	Destination string
	Minutes     int
	Time        time.Time
}

func (f Filter) compile() (*vm.Program, error) {
	if f.Where == "" {
		return nil, nil
	}

	program, err := expr.Compile(f.Where, expr.Env(passageEnvironment{}), expr.AsBool())
	if err != nil {
		return nil, &ctdf.ValidationError{
			Field:   "where",
			Value:   f.Where,
			Message: err.Error(),
		}
	}

	return program, nil
}

// Validate reports an invalid Where expression before any request is made
func (f Filter) Validate() error {
	_, err := f.compile()
	return err
}

// Apply filters by line then destination then expression, and keeps only the first passage
// of each line and destination pair
func (f Filter) Apply(passages []*ctdf.Passage) ([]*ctdf.Passage, error) {
	program, err := f.compile()
	if err != nil {
		return nil, err
	}

	filtered := slices.Clone(passages)

	if f.Line != "" {
		util.InPlaceFilter(&filtered, func(p *ctdf.Passage) bool {
			return strings.EqualFold(p.Line, f.Line)
		})
	}

	if f.Destination != "" {
		destination := util.NormaliseName(f.Destination)

		util.InPlaceFilter(&filtered, func(p *ctdf.Passage) bool {
			return util.NormaliseName(p.Destination) == destination
		})
	}

	if program != nil {
		var evaluationError error

		util.InPlaceFilter(&filtered, func(p *ctdf.Passage) bool {
			if evaluationError != nil {
				return false
			}

			output, err := expr.Run(program, passageEnvironment{
				Line:        p.Line,
				Destination: p.Destination,
				Minutes:     int(p.TimeRemaining.Minutes()),
				Time:        p.Time,
			})
			if err != nil {
				evaluationError = &ctdf.ValidationError{Field: "where", Value: f.Where, Message: err.Error()}
				return false
			}

			return output.(bool)
		})

		if evaluationError != nil {
			return nil, evaluationError
		}
	}

	return util.UniqueBy(filtered, func(p *ctdf.Passage) string {
		return p.LineDestination
	}), nil
}
