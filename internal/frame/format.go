package frame

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatValue renders a cell for display. The rule follows the value's Go
// type: whole floats drop the decimals ("1,000"), other floats keep one
// ("1,234.5"), integers get thousands separators, nil and NaN are empty.
// Booleans render as "True" and "False".
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case int:
		return humanize.Comma(int64(x))
	case int8:
		return humanize.Comma(int64(x))
	case int16:
		return humanize.Comma(int64(x))
	case int32:
		return humanize.Comma(int64(x))
	case int64:
		return humanize.Comma(x)
	case uint:
		return formatUint(uint64(x))
	case uint8:
		return humanize.Comma(int64(x))
	case uint16:
		return humanize.Comma(int64(x))
	case uint32:
		return humanize.Comma(int64(x))
	case uint64:
		return formatUint(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 0):
		return strconv.FormatFloat(f, 'f', -1, 64)
	case f == math.Trunc(f):
		if math.Abs(f) < math.MaxInt64 {
			return humanize.Comma(int64(f))
		}
		return humanize.Commaf(f)
	}

	// strconv rounds half to even on the exact binary value.
	s := strconv.FormatFloat(math.Abs(f), 'f', 1, 64)
	dot := strings.IndexByte(s, '.')
	whole, err := strconv.ParseInt(s[:dot], 10, 64)
	if err != nil {
		return humanize.FormatFloat("#,###.#", f)
	}
	sign := ""
	if f < 0 {
		sign = "-"
	}
	return sign + humanize.Comma(whole) + s[dot:]
}

func formatUint(u uint64) string {
	if u <= math.MaxInt64 {
		return humanize.Comma(int64(u))
	}
	return humanize.BigComma(new(big.Int).SetUint64(u))
}
