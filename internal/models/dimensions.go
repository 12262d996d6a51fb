package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Dimension is a width/height pair accepted by the generation provider.
type Dimension struct {
	Width  int
	Height int
}

// SDXLDimensions is the fixed set of sizes supported by the SDXL engine.
// Only these are offered as buttons and accepted by the generation service.
var SDXLDimensions = []Dimension{
	{1024, 1024},
	{1152, 896},
	{1216, 832},
	{1344, 768},
	{1536, 640},
	{640, 1536},
	{768, 1344},
	{832, 1216},
	{896, 1152},
}

// String renders the dimension in the "WxH" form used in callback payloads.
func (d Dimension) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Valid reports whether the pair belongs to the supported set.
func (d Dimension) Valid() bool {
	for _, allowed := range SDXLDimensions {
		if d == allowed {
			return true
		}
	}
	return false
}

// ParseDimension parses "WxH" and reports whether the result is well formed.
// It does not check membership in the supported set; use Valid for that.
func ParseDimension(s string) (Dimension, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), "x", 2)
	if len(parts) != 2 {
		return Dimension{}, false
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return Dimension{}, false
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return Dimension{}, false
	}
	if w <= 0 || h <= 0 {
		return Dimension{}, false
	}
	return Dimension{Width: w, Height: h}, true
}
