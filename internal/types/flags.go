package types

import "github.com/thediveo/enumflag/v2"

// OutputMode selects the printer used by the CLI.
type OutputMode enumflag.Flag

const (
	OutputModeTable OutputMode = iota
	OutputModeYaml
	OutputModeJson
)

var OutputModeIds = map[OutputMode][]string{
	OutputModeTable: {"table"},
	OutputModeYaml:  {"yaml"},
	OutputModeJson:  {"json"},
}
