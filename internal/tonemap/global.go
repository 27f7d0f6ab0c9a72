package tonemap

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/tmo"
)

// Global builds a whole-image tone mapping operator. Unlike Operator it
// sees every pixel at once and produces display-referred output itself.
type Global func(m hdr.Image) tmo.ToneMappingOperator

var globals = map[string]Global{
	"linear":     func(m hdr.Image) tmo.ToneMappingOperator { return tmo.NewLinear(m) },
	"drago03":    func(m hdr.Image) tmo.ToneMappingOperator { return tmo.NewDefaultDrago03(m) },
	"durand":     func(m hdr.Image) tmo.ToneMappingOperator { return tmo.NewDefaultDurand(m) },
	"icam06":     func(m hdr.Image) tmo.ToneMappingOperator { return tmo.NewDefaultICam06(m) },
	"reinhard05": func(m hdr.Image) tmo.ToneMappingOperator { return tmo.NewDefaultReinhard05(m) },
}

// IsGlobal reports whether name refers to a whole-image operator.
func IsGlobal(name string) bool {
	_, ok := globals[strings.ToLower(name)]
	return ok
}

// GlobalNames lists the whole-image operators in sorted order.
func GlobalNames() []string {
	names := make([]string, 0, len(globals))
	for n := range globals {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ApplyGlobal runs the whole-image operator registered under name on m.
func ApplyGlobal(name string, m hdr.Image) (image.Image, error) {
	g, ok := globals[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown global tone operator %q (have %s)", name, strings.Join(GlobalNames(), ", "))
	}
	return g(m).Perform(), nil
}
