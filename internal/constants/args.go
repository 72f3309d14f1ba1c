package constants

const (
	ArgBilling   = "billing"
	ArgName      = "name"
	ArgDebug     = "debug"
	ArgVar       = "var"
	ArgWatch     = "watch"
	ArgOutput    = "output"
	ArgFile      = "file"
	ArgRegistry  = "registry"
	ArgDriver    = "driver"
	ArgFormat    = "format"
	ArgNextCount = "count"
)
