package scoring

import (
	"bytes"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
)

// UnmarshalJSON keeps the literal text of a JSON number or string so that
// validation happens in ParseGoals rather than at decode time. null decodes
// to an empty value.
func (r *RawGoals) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*r = ""
	case data[0] == '"':
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decode goal count string")
		}
		*r = RawGoals(s)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		*r = RawGoals(data)
	default:
		return errors.Wrapf(ErrInvalidGoals, "unsupported goal count literal %s", data)
	}
	return nil
}

func (r RawGoals) MarshalJSON() ([]byte, error) {
	if n, err := ParseGoals(r); err == nil {
		return []byte(GoalsFromInt(n)), nil
	}
	return sonic.Marshal(string(r))
}
