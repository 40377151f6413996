// Package validation provides input validation utilities.
package validation

import (
	"fmt"

	"github.com/hydrocast/hydrocast/pkg/constants"
)

// ValidateOutputFormat checks whether the requested output format is
// supported.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q; expected %s or %s",
			format, constants.OutputFormatPretty, constants.OutputFormatCSV)
	}
}
