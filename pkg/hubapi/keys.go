package hubapi

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseProjectID parses a project identifier given as a string key. It fails
// with ErrInvalidProjectID when the value is not a non-negative integer.
func ParseProjectID(value string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidProjectID, value)
	}

	if id < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidProjectID, id)
	}

	return id, nil
}

// JobKey identifies a single job as <project>/<spider>/<job>.
type JobKey struct {
	Project int
	Spider  int
	Job     int
}

// String renders the key in its canonical wire form.
func (k JobKey) String() string {
	return fmt.Sprintf("%d/%d/%d", k.Project, k.Spider, k.Job)
}

// ParseJobKey parses a canonical job key. It fails with ErrInvalidJobKey
// unless the value has exactly three non-negative integer parts.
func ParseJobKey(value string) (JobKey, error) {
	parts := strings.Split(strings.TrimSpace(value), "/")
	if len(parts) != 3 {
		return JobKey{}, fmt.Errorf("%w: %q", ErrInvalidJobKey, value)
	}

	nums := make([]int, len(parts))

	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return JobKey{}, fmt.Errorf("%w: %q", ErrInvalidJobKey, value)
		}

		nums[i] = n
	}

	return JobKey{Project: nums[0], Spider: nums[1], Job: nums[2]}, nil
}
