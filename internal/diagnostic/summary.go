package diagnostic

import "fmt"

// Summary describes the outcome of a build. At most two counts are
// named, errors first.
func Summary(errors, warnings, links int) string {
	switch {
	case errors == 0 && warnings == 0 && links == 0:
		return "no errors"
	case errors != 0 && warnings != 0:
		return fmt.Sprintf("%d errors, %d warnings", errors, warnings)
	case errors != 0:
		return fmt.Sprintf("%d errors", errors)
	case warnings != 0 && links != 0:
		return fmt.Sprintf("%d warnings, %d link errors", warnings, links)
	case warnings != 0:
		return fmt.Sprintf("%d warnings", warnings)
	default:
		return fmt.Sprintf("%d link errors", links)
	}
}
