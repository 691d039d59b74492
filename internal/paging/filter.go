package paging

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// filterLayout is the raw datetime-local format carried in share links and
// filter inputs. Epoch conversion happens only at request time, in UTC.
const filterLayout = "2006-01-02T15:04"

// Query parameter names for the shareable address state.
const (
	paramQuery = "q"
	paramStart = "startDateTime"
	paramEnd   = "endDateTime"
)

// Filter is an optional date range restricting both listing and search.
// Start and End hold the raw datetime strings the user entered; either may
// be empty, but an enabled filter needs at least one of them.
type Filter struct {
	Enabled bool
	Start   string
	End     string
}

// Validate reports whether the filter can be applied.
func (f Filter) Validate() error {
	if !f.Enabled {
		return nil
	}
	if strings.TrimSpace(f.Start) == "" && strings.TrimSpace(f.End) == "" {
		return fmt.Errorf("filter needs a start or end date")
	}
	if _, _, err := f.Epoch(); err != nil {
		return err
	}
	return nil
}

// Epoch converts the raw bounds to epoch seconds (UTC). A nil pointer means
// the bound is absent.
func (f Filter) Epoch() (start, end *int64, err error) {
	if !f.Enabled {
		return nil, nil, nil
	}
	if s := strings.TrimSpace(f.Start); s != "" {
		t, perr := time.Parse(filterLayout, s)
		if perr != nil {
			return nil, nil, fmt.Errorf("parsing start date %q: %w", s, perr)
		}
		v := t.Unix()
		start = &v
	}
	if e := strings.TrimSpace(f.End); e != "" {
		t, perr := time.Parse(filterLayout, e)
		if perr != nil {
			return nil, nil, fmt.Errorf("parsing end date %q: %w", e, perr)
		}
		v := t.Unix()
		end = &v
	}
	return start, end, nil
}

// EncodeQuery serializes the active search query and the filter's raw
// datetime strings into shareable address parameters.
func EncodeQuery(mode Mode, query string, f Filter) url.Values {
	v := url.Values{}
	if mode == ModeSearch && query != "" {
		v.Set(paramQuery, query)
	}
	if f.Enabled {
		if f.Start != "" {
			v.Set(paramStart, f.Start)
		}
		if f.End != "" {
			v.Set(paramEnd, f.End)
		}
	}
	return v
}

// DecodeQuery parses shareable address parameters back into a query string
// and filter, so a shared link reproduces the same view.
func DecodeQuery(v url.Values) (query string, f Filter) {
	query = v.Get(paramQuery)
	f.Start = v.Get(paramStart)
	f.End = v.Get(paramEnd)
	f.Enabled = f.Start != "" || f.End != ""
	return query, f
}
