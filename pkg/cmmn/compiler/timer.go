package compiler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
	"github.com/senseyeio/duration"
)

var errInvalidCycle = errors.New("cycle must have the form R[n]/[start/]period")

// dateLayouts are the ISO 8601 forms accepted for constant dates. Dates
// without an offset are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDate(text string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var date time.Time
		if date, err = time.Parse(layout, text); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not an ISO 8601 date: %w", text, err)
}

// buildTimerJobDescriptor classifies the timer expression by its leading
// character: R is a cycle, P a duration, anything else a date. Constant
// expressions are parsed, expressions are left to the runtime.
func buildTimerJobDescriptor(elementId string, expression string) (*runtime.TimerJobDescriptor, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, newCompileErrorf(elementId, ErrInvalidTimer, "timer expression is empty")
	}
	descriptor := &runtime.TimerJobDescriptor{
		Expression: NewValueProvider(expression),
	}
	switch expression[0] {
	case 'R':
		descriptor.Type = runtime.TimerTypeCycle
	case 'P':
		descriptor.Type = runtime.TimerTypeDuration
	default:
		descriptor.Type = runtime.TimerTypeDate
	}
	if descriptor.Expression.IsExpression() {
		return descriptor, nil
	}

	var err error
	switch descriptor.Type {
	case runtime.TimerTypeCycle:
		err = parseCycle(descriptor, expression)
	case runtime.TimerTypeDuration:
		var period duration.Duration
		period, err = duration.ParseISO8601(expression)
		descriptor.Period = &period
	case runtime.TimerTypeDate:
		var date time.Time
		date, err = time.Parse(time.RFC3339, expression)
		descriptor.Date = &date
	}
	if err != nil {
		return nil, newCompileErrorf(elementId, ErrInvalidTimer, "%q: %s", expression, err)
	}
	return descriptor, nil
}

// parseCycle reads R[n]/[start/]period. A missing repetition count repeats forever.
func parseCycle(descriptor *runtime.TimerJobDescriptor, expression string) error {
	parts := strings.Split(expression, "/")
	if len(parts) < 2 || len(parts) > 3 {
		return errInvalidCycle
	}
	descriptor.Repetitions = -1
	if count := strings.TrimPrefix(parts[0], "R"); count != "" {
		n, err := strconv.Atoi(count)
		if err != nil {
			return err
		}
		descriptor.Repetitions = n
	}
	period, err := duration.ParseISO8601(parts[len(parts)-1])
	if err != nil {
		return err
	}
	descriptor.Period = &period
	if len(parts) == 3 {
		start, err := parseDate(parts[1])
		if err != nil {
			return err
		}
		descriptor.Date = &start
	}
	return nil
}
