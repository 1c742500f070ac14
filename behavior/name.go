package behavior

import (
	"reflect"
	"strings"
)

// RequestName returns a short name for a request, suitable for log fields and
// metric labels: the type name without package path or pointer prefix.
// Examples:
//   - *commands.CreateUser → "CreateUser"
//   - queries.GetUser → "GetUser"
func RequestName(request any) string {
	if request == nil {
		return "Unknown"
	}

	name := reflect.TypeOf(request).String()
	name = strings.TrimLeft(name, "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
