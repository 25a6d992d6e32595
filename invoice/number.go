package invoice

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Number is a float64 that tolerates the loose typing of designer payloads:
// JSON numbers, numeric strings, null and garbage all decode, with anything
// unparsable collapsing to 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*n = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(v)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(n))
}

func (n Number) Float() float64 {
	return float64(n)
}
