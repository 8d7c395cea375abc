// Package transfer holds the registry of decoding colour component transfer
// functions: the functions mapping encoded (gamma or log) signal values to
// linear tristimulus values. Registered functions are looked up by exact
// name, lookup failure is an error rather than a default.
package transfer

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

// ErrNotFound is returned when a transfer function name is not registered.
var ErrNotFound = errors.New("transfer function not found")

// Function maps one encoded signal value to a linear value.
type Function func(float64) float64

// The registry keeps three built-in groups, listed gammas first, then the
// inverse OETFs, then the log decodings, each group sorted by name. Custom
// functions registered at runtime form a fourth group.
var (
	mu     sync.RWMutex
	groups = []map[string]Function{
		gammaGroup, standardGroup, logGroup, customGroup,
	}
	gammaGroup = map[string]Function{
		"Gamma 2.2": gamma(2.2),
		"Gamma 2.4": gamma(2.4),
		"Gamma 2.6": gamma(2.6),
	}
	standardGroup = map[string]Function{
		"sRGB":          SRGB,
		"ITU-R BT.709":  BT709,
		"ITU-R BT.2020": BT2020,
		"ST 2084":       ST2084,
		"ARIB STD-B67":  HLG,
	}
	logGroup = map[string]Function{
		"ACEScc":  ACEScc,
		"ACEScct": ACEScct,
		"Cineon":  Cineon,
		"S-Log3":  SLog3,
	}
	customGroup = map[string]Function{}
)

func gamma(exponent float64) Function {
	return func(v float64) float64 {
		return math.Copysign(math.Pow(math.Abs(v), exponent), v)
	}
}

// SRGB is the IEC 61966-2-1 electro-optical transfer function.
func SRGB(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// BT709 is the inverse ITU-R BT.709 opto-electronic transfer function.
func BT709(v float64) float64 {
	if v < 0.081 {
		return v / 4.5
	}
	return math.Pow((v+0.099)/1.099, 1.0/0.45)
}

// BT2020 is the inverse ITU-R BT.2020 opto-electronic transfer function.
func BT2020(v float64) float64 {
	const alpha = 1.09929682680944
	const beta = 0.018053968510807
	if v < beta*4.5 {
		return v / 4.5
	}
	return math.Pow((v+(alpha-1))/alpha, 1.0/0.45)
}

// ST2084 is the SMPTE ST 2084 perceptual quantiser electro-optical transfer
// function, normalised so that a 100 cd/m2 display white decodes to 1.0.
func ST2084(v float64) float64 {
	const m1 = 2610.0 / 16384.0
	const m2 = 2523.0 / 4096.0 * 128.0
	const c1 = 3424.0 / 4096.0
	const c2 = 2413.0 / 128.0
	const c3 = 2392.0 / 128.0
	p := math.Pow(math.Max(v, 0), 1.0/m2)
	n := math.Max(p-c1, 0) / (c2 - c3*p)
	return 10000.0 * math.Pow(n, 1.0/m1) / 100.0
}

// HLG is the inverse ARIB STD-B67 (hybrid log-gamma) opto-electronic
// transfer function.
func HLG(v float64) float64 {
	const a = 0.17883277
	const b = 1.0 - 4.0*a
	const c = 0.55991073
	if v <= 0.5 {
		return v * v / 3.0
	}
	return (math.Exp((v-c)/a) + b) / 12.0
}

// ACEScc decodes the ACEScc logarithmic encoding to linear ACES values.
func ACEScc(v float64) float64 {
	switch {
	case v <= (9.72-15.0)/17.52:
		return (math.Exp2(v*17.52-9.72) - math.Exp2(-16.0)) * 2.0
	case v < (math.Log2(65504.0)+9.72)/17.52:
		return math.Exp2(v*17.52 - 9.72)
	default:
		return 65504.0
	}
}

// ACEScct decodes the ACEScct logarithmic encoding to linear ACES values.
func ACEScct(v float64) float64 {
	const threshold = 0.155251141552511
	if v > threshold {
		return math.Exp2(v*17.52 - 9.72)
	}
	return (v - 0.0729055341958355) / 10.5402377416545
}

// Cineon decodes the Kodak Cineon printing density encoding.
func Cineon(v float64) float64 {
	const offset = 0.0108
	return (math.Pow(10.0, (1023.0*v-685.0)/300.0) - offset) / (1.0 - offset)
}

// SLog3 decodes the Sony S-Log3 encoding to linear scene reflectance.
func SLog3(v float64) float64 {
	if v >= 171.2102946929/1023.0 {
		return math.Exp2((v*1023.0-420.0)/261.5)*(0.18+0.01) - 0.01
	}
	return (v*1023.0 - 95.0) * 0.01125 / (171.2102946929 - 95.0)
}

// Lookup returns the transfer function registered under the exact name.
func Lookup(name string) (Function, error) {
	mu.RLock()
	defer mu.RUnlock()
	for _, group := range groups {
		if fn, ok := group[name]; ok {
			return fn, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Register adds a custom decoding function. Registering a name already
// present in any group is an error, built-ins cannot be shadowed.
func Register(name string, fn Function) error {
	if fn == nil {
		return errors.New("transfer: nil function")
	}
	mu.Lock()
	defer mu.Unlock()
	for _, group := range groups {
		if _, ok := group[name]; ok {
			return fmt.Errorf("transfer: %q already registered", name)
		}
	}
	customGroup[name] = fn
	return nil
}

// Names returns every registered function name, gammas first, then the
// standard inverse OETFs, the log decodings and finally any custom
// functions, each group in lexicographic order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	var out []string
	for _, group := range groups {
		names := make([]string, 0, len(group))
		for name := range group {
			names = append(names, name)
		}
		sort.Strings(names)
		out = append(out, names...)
	}
	return out
}

// Apply maps every value of src through the function, returning a new slice.
func Apply(fn Function, src []float64) []float64 {
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = fn(v)
	}
	return out
}
